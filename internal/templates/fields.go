package templates

import (
	"html/template"
	"strconv"

	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/validation"
)

const fieldsTmpl = `
{{- define "label"}}<label class="fw-500 flex-row-align-center"{{with .For}} for="{{.}}"{{end}}>
{{- if .Mobile}}<span class="label--desktop">{{.Text}}</span><span class="label--mobile">{{.Mobile}}</span>{{else}}{{.Text}}{{end -}}
</label>{{end}}

{{- define "tooltip"}}<details class="tooltip"><summary aria-label="More information">i</summary><div class="tooltip__body">
{{- with .Title}}<strong>{{.}}</strong>{{end}}
{{- with .Description}}<div>{{.}}</div>{{end}}
{{- with .Image}}<img width="372" src="{{.}}" alt="{{$.ImageAlt}}">{{end}}
{{- with .Cta}}<span class="tooltip__cta">{{.}}</span>{{end -}}
</div></details>{{end}}

{{- define "field-state"}}<span id="state-{{.Name}}" class="field-state{{if .Prefilled}} is-prefilled{{end}}{{if .Error}} is-error{{end}}"{{if .OOB}} hx-swap-oob="true"{{end}}></span>{{end}}

{{- define "field-error"}}<p id="error-{{.Name}}" class="fs-12 error-text flex{{if not .Message}} hidden{{end}}"{{if .OOB}} hx-swap-oob="true"{{end}}>
{{- with .Message}}<i class="bf-icon-alert-warning"></i>{{.}}{{end -}}
</p>{{end}}

{{- define "input"}}<div class="form-input-group" data-name="{{.Name}}" hx-post="/form/blur/{{.Name}}" hx-trigger="focusout">
{{- /* focus is answered out of band so the input below is never swapped */ -}}
<div hx-post="/form/focus/{{.Name}}" hx-trigger="focusin" hx-swap="none">
<div class="flex-row-align-center mb-12">{{template "label" .Label}}{{with .Tooltip}}{{template "tooltip" .}}{{end}}</div>
{{- template "field-state" .State -}}
<input id="field-{{.Name}}" class="form-input{{if .Uppercase}} uppercase{{end}}{{if .Padded}} padding{{end}}" type="{{.Type}}" name="{{.Name}}" value="{{.Value}}" placeholder="{{.Placeholder}}" autocomplete="off"{{with .InputMode}} inputmode="{{.}}"{{end}} hx-post="/form/input/{{.Name}}" hx-trigger="input changed delay:150ms"{{if .Locked}} readonly{{end}}{{if .Disabled}} disabled{{end}}>
</div>
{{- if .Clearable}}<button type="button" class="input-close fs-12" aria-label="Clear" hx-post="/form/clear/{{.Name}}">&times;</button>{{end}}
{{- template "field-error" .Error}}
{{- if .PopupIcon}}<button type="button" class="popup-icon" aria-label="Choose city" hx-post="/form/city/popup">&#9662;</button>{{end}}
{{- with .Nudge}}<p class="nudge fs-10-12">{{.}}</p>{{end}}
{{- with .Rupees}}<p class="rupeesSymbol fs-14-16">{{.}}</p>{{end -}}
</div>
{{- with .CityPopup}}<div class="fd-sdp-cal__popup" data-name="cityPopup">
{{- range .}}<button type="button" class="fs-14 fd-sdp-cal__popup__option flex flex-align-center" hx-post="/form/city" hx-vals="{{.Vals}}"><input type="radio" class="custom-radio" tabindex="-1"{{if .Checked}} checked{{end}}>{{.Label}}</button>{{end -}}
</div>{{end}}
{{- end}}

{{- define "tab"}}<div class="fpr-form__cta-section" data-name="{{.Name}}"><div class="flex flex-jc-space-btw flex-align-center">{{template "label" .Label}}<div class="fpr-form__cta-section__buttons flex">
{{- range .Options}}<button type="button" class="calculator-button{{if .Checked}} active{{end}}" hx-post="/form/tab/{{$.Name}}" hx-vals="{{.Vals}}"{{if $.ReadOnly}} disabled{{end}}>{{.Label}}</button>{{end -}}
</div></div>{{template "field-error" .Error}}</div>{{end}}

{{- define "dropdown"}}<div class="fpr-form__cta-section" data-name="{{.Name}}"><p class="fs-14 fw-500 flex fpr-form__cta-section__dropdown-title">{{.Label}}</p>
<button type="button" class="fpr-form__cta-section__dropdown-subtitle flex flex-jc-space-btw fs-12-14" hx-post="/form/product/popup">{{.Display}}<i class="bf-icon-down-arrow fs-16"></i></button>
{{- if .Open}}<div class="list-popup list-popup--fpr" role="dialog"><div class="list-popup__header flex flex-jc-space-btw"><p class="fw-500">{{.PopupTitle}}</p><button type="button" class="list-popup__close" aria-label="Close" hx-post="/form/product/popup">&times;</button></div>
{{- range .Options}}<button type="button" class="list-popup__option flex flex-align-center" hx-post="/form/product" hx-vals="{{.Vals}}"><input type="radio" class="custom-radio" tabindex="-1"{{if .Checked}} checked{{end}}>{{.Label}}</button>{{end -}}
</div>{{end -}}
</div>{{end}}
`

type labelView struct {
	For    string
	Text   string
	Mobile string // empty when it matches Text
}

type tooltipView struct {
	Title       string
	Description template.HTML
	Image       string
	ImageAlt    string
	Cta         string
}

type fieldStateView struct {
	Name      string
	Prefilled bool
	Error     bool
	OOB       bool
}

type fieldErrorView struct {
	Name    string
	Message string
	OOB     bool
}

type optionView struct {
	Label   string
	Vals    string
	Checked bool
}

type inputView struct {
	Name        string
	Label       labelView
	Tooltip     *tooltipView
	State       fieldStateView
	Error       fieldErrorView
	Type        string
	Value       string
	Placeholder string
	InputMode   string
	Uppercase   bool
	Padded      bool
	Locked      bool
	Disabled    bool
	Clearable   bool
	PopupIcon   bool
	Nudge       string
	Rupees      string
	CityPopup   []optionView
}

type tabView struct {
	Name     string
	Label    labelView
	Options  []optionView
	ReadOnly bool
	Error    fieldErrorView
}

type dropdownView struct {
	Name       string
	Label      string
	Display    string
	PopupTitle string
	Open       bool
	Options    []optionView
}

// ── Builders ────────────────────────────────────────────────────────────────

func newLabel(forID, text, mobile string) labelView {
	if mobile == text {
		mobile = ""
	}
	return labelView{For: forID, Text: text, Mobile: mobile}
}

func newFieldState(s domain.FormState, field domain.FieldKind, oob bool) fieldStateView {
	_, hasErr := s.Error(field)
	return fieldStateView{Name: field.String(), Prefilled: s.IsPrefilled(field), Error: hasErr, OOB: oob}
}

func newFieldError(s domain.FormState, field domain.FieldKind, oob bool) fieldErrorView {
	msg, _ := s.Error(field)
	return fieldErrorView{Name: field.String(), Message: msg, OOB: oob}
}

// newInput builds one text input group. The city popup only opens for a
// configured-disabled city with more than one candidate.
func newInput(cfg *domain.FormConfig, s domain.FormState, def domain.FieldDefinition) inputView {
	name := def.Name.String()
	value := s.Value(def.Name)
	salary := def.Name == domain.FieldNetMonthlySalary && value != ""
	cityPicker := def.Name == domain.FieldCity && def.Disabled

	in := inputView{
		Name:        name,
		Label:       newLabel("field-"+name, def.Label, def.MobileLabel),
		State:       newFieldState(s, def.Name, false),
		Error:       newFieldError(s, def.Name, false),
		Type:        def.Type,
		Value:       value,
		Placeholder: def.Placeholder,
		Uppercase:   def.Name.Uppercase(),
		Padded:      salary,
		Locked:      s.IsDisabled(def.Name) || s.IsReadOnly(def.Name),
		Disabled:    s.IsDisabled(def.Name),
		Clearable:   !s.IsDisabled(def.Name) && value != "",
		PopupIcon:   cityPicker && len(s.CityOptions) > 1,
		Nudge:       def.NudgeText,
	}
	if in.Type == "" {
		in.Type = "text"
	}
	if def.Name == domain.FieldPAN {
		in.InputMode = validation.PANInputMode(value)
	}
	if salary {
		in.Rupees = cfg.RupeesSymbol
	}
	if def.ToolTipTitle != "" || def.ToolTipDescription != "" || def.ToolTipImage != "" {
		in.Tooltip = &tooltipView{
			Title:       def.ToolTipTitle,
			Description: sanitize(def.ToolTipDescription),
			Image:       def.ToolTipImage,
			ImageAlt:    def.ToolTipImageAltText,
			Cta:         def.CtaText,
		}
	}
	if cityPicker && s.CityPopupOpen {
		for i, city := range s.CityOptions {
			in.CityPopup = append(in.CityPopup, optionView{
				Label:   city,
				Vals:    hxVals(map[string]string{"city": city, "position": strconv.Itoa(i + 1)}),
				Checked: s.City == city,
			})
		}
	}
	return in
}

func newTab(s domain.FormState, tab domain.TabField) tabView {
	current := s.Value(tab.Name)
	v := tabView{
		Name:     tab.Name.String(),
		Label:    newLabel("", tab.Label, tab.MobileLabel),
		ReadOnly: s.IsReadOnly(tab.Name),
		Error:    newFieldError(s, tab.Name, false),
	}
	for _, opt := range tab.Options {
		v.Options = append(v.Options, optionView{
			Label:   opt.Label,
			Vals:    hxVals(map[string]string{"value": opt.Value}),
			Checked: current == opt.Value,
		})
	}
	return v
}

func newDropdown(s domain.FormState, dd domain.DropdownField) dropdownView {
	current := s.Value(dd.Name)
	v := dropdownView{
		Name:       dd.Name.String(),
		Label:      dd.Label,
		Display:    current,
		PopupTitle: dd.PopupTitle,
		Open:       s.ProductPopupOpen,
	}
	if v.Display == "" {
		v.Display = dd.PlaceholderText
	}
	for _, opt := range dd.Options {
		v.Options = append(v.Options, optionView{
			Label:   opt.Label,
			Vals:    hxVals(map[string]string{"label": opt.Label}),
			Checked: current == opt.Label,
		})
	}
	return v
}
