// Package templates renders the customer profile form with html/template and
// hands each fragment to the handlers as a templ.Component. The markup is
// driven entirely by domain.FormConfig and domain.FormState; every
// interaction is an htmx request that swaps the whole form back in.
package templates

import (
	"html/template"

	"github.com/a-h/templ"
	"github.com/csg33k/fpr-form/internal/domain"
)

// View is everything the form needs to render.
type View struct {
	Config    *domain.FormConfig
	State     domain.FormState
	CSRFToken string
}

// FormID is the element every form interaction swaps.
const FormID = "fpr-form"

const formTmpl = `
{{- define "form"}}<form id="{{.ID}}" class="fpr-form flex flex-column{{if .CtaError.Message}} error-padding{{end}}" hx-target="this" hx-swap="outerHTML" hx-sync="this:queue all" hx-on:scroll-to="document.querySelector('[data-name='+event.detail.value+']')?.scrollIntoView({behavior:'smooth',block:'center'})" onsubmit="return false">
<div class="fpr-form__header flex flex-column"><h3 class="fs-18">{{.Title}}</h3><p>{{.SubTitle}}</p></div>
{{- range .Inputs}}{{template "input" .}}{{end}}
{{- range .Tabs}}{{template "tab" .}}{{end}}
{{- with .Optional}}{{template "input" .}}{{end}}
{{- range .Dropdowns}}{{template "dropdown" .}}{{end}}
{{- with .Tnc}}<div class="flex-row-align-center fpr-form__tnc" data-name="{{.Name}}"><input class="custom-checkbox" type="checkbox" value="on" hx-post="/form/tnc" hx-trigger="change" id="field-{{.Name}}" name="{{.Name}}"{{if .Checked}} checked{{end}}><div>{{.Text}}</div></div>{{end}}
<div class="flex-column-center fpr-form__submit">{{template "cta-error" .CtaError}}<button type="button" class="btn btn--primary" hx-post="/form/submit" hx-indicator="#fpr-loader" hx-vals="{{.SubmitVals}}"{{if .Loading}} disabled{{end}}>{{.SubmitText}}</button></div>
<div id="fpr-loader" class="fpr-form__loader htmx-indicator{{if .Loading}} is-loading{{end}}" aria-hidden="true"><span class="spinner"></span></div>
</form>{{end}}

{{- define "cta-error"}}<p id="cta-error" class="error-text{{if not .Message}} hidden{{end}}"{{if .OOB}} hx-swap-oob="true"{{end}}>{{.Message}}</p>{{end}}

{{- define "focus-feedback"}}{{template "field-state" .State}}{{template "field-error" .Error}}{{template "cta-error" .CtaError}}{{end}}
`

type ctaErrorView struct {
	Message string
	OOB     bool
}

type tncView struct {
	Name    string
	Text    template.HTML
	Checked bool
}

type formView struct {
	ID         string
	Title      string
	SubTitle   string
	Inputs     []inputView
	Tabs       []tabView
	Optional   *inputView
	Dropdowns  []dropdownView
	Tnc        *tncView
	CtaError   ctaErrorView
	SubmitText string
	SubmitVals string
	Loading    bool
}

// newForm lays the form out: mandatory inputs first, then the tabs, the
// input surfaced by the employment type, and the dropdowns.
func newForm(v View) formView {
	cfg, s := v.Config, v.State
	f := formView{
		ID:         FormID,
		Title:      cfg.Title,
		SubTitle:   cfg.SubTitle,
		CtaError:   ctaErrorView{Message: s.CtaError},
		SubmitText: cfg.SubmitCtaText,
		SubmitVals: hxVals(map[string]string{"ctaText": cfg.SubmitCtaText}),
		Loading:    s.Loading,
	}
	for _, def := range cfg.InputFields {
		if s.IsMandatory(def.Name) {
			f.Inputs = append(f.Inputs, newInput(cfg, s, def))
		}
	}
	for _, tab := range cfg.TabFields {
		f.Tabs = append(f.Tabs, newTab(s, tab))
	}
	if opt, ok := cfg.OptionalField(s.EmploymentType); ok {
		in := newInput(cfg, s, *opt)
		f.Optional = &in
	}
	for _, dd := range cfg.DropdownFields {
		f.Dropdowns = append(f.Dropdowns, newDropdown(s, dd))
	}
	if cfg.TncText != "" {
		f.Tnc = &tncView{Name: cfg.TncName, Text: sanitize(cfg.TncText), Checked: s.TncChecked}
	}
	return f
}

// Page is the full HTML document around the form.
func Page(v View) templ.Component {
	return component("page", pageView{
		Head: newHead(v.Config.Title, v.CSRFToken),
		Form: newForm(v),
	})
}

// Form renders the form element alone, as returned by every interaction.
func Form(v View) templ.Component {
	return component("form", newForm(v))
}

// FocusFeedback is the out-of-band response to a focus event. It restyles
// the field and clears the messages without replacing the focused input.
func FocusFeedback(s domain.FormState, field domain.FieldKind) templ.Component {
	return component("focus-feedback", struct {
		State    fieldStateView
		Error    fieldErrorView
		CtaError ctaErrorView
	}{
		State:    newFieldState(s, field, true),
		Error:    newFieldError(s, field, true),
		CtaError: ctaErrorView{Message: s.CtaError, OOB: true},
	})
}
