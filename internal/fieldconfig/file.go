package fieldconfig

import (
	"encoding/json"
	"strings"

	"github.com/csg33k/fpr-form/internal/domain"
)

// flag decodes booleans that may arrive as "true"/"false" strings.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = flag(t)
	case string:
		*f = flag(strings.EqualFold(t, "true"))
	default:
		*f = false
	}
	return nil
}

type file struct {
	Title                string          `json:"title"`
	SubTitle             string          `json:"subTitle"`
	InputFields          []inputField    `json:"inputFields"`
	TabFields            []tabField      `json:"tabFields"`
	DropdownFields       []dropdownField `json:"dropdownFields"`
	MinYearValidation    int             `json:"minYearValidation"`
	MaxYearValidation    int             `json:"maxYearValidation"`
	MaxSalaryValidation  int             `json:"maxSalaryValidation"`
	CtaSingleErrorText   string          `json:"ctaSingleErrorText"`
	CtaMultipleErrorText string          `json:"ctaMultipleErrorText"`
	CtaTncErrorText      string          `json:"ctaTncErrorText"`
	TncText              string          `json:"tncText"`
	TncName              string          `json:"tncName"`
	SubmitCtaText        string          `json:"submitCtaText"`
	RupeesSymbol         string          `json:"rupeesSymbol"`
}

type inputField struct {
	Name                domain.FieldKind `json:"name"`
	Label               string           `json:"label"`
	MobileLabel         string           `json:"mobileLabel"`
	Placeholder         string           `json:"placeholder"`
	Type                string           `json:"type"`
	Mandatory           flag             `json:"mandatory"`
	Disabled            flag             `json:"disabled"`
	ReadOnly            flag             `json:"readOnly"`
	EmptyErrorText      string           `json:"emptyErrorText"`
	ValidationErrorText string           `json:"validationErrorText"`
	NudgeText           string           `json:"nudgeText"`
	ToolTipTitle        string           `json:"toolTipTitle"`
	ToolTipDescription  string           `json:"toolTipDescription"`
	ToolTipImage        string           `json:"toolTipImage"`
	ToolTipImageAltText string           `json:"toolTipImageAltText"`
	CtaText             string           `json:"ctaText"`
}

type tabOption struct {
	Value         string            `json:"value"`
	Label         string            `json:"label"`
	OptionalField *domain.FieldKind `json:"optionalField"`
}

type tabField struct {
	Name           domain.FieldKind `json:"name"`
	Label          string           `json:"label"`
	MobileLabel    string           `json:"mobileLabel"`
	Mandatory      flag             `json:"mandatory"`
	ReadOnly       flag             `json:"readOnly"`
	EmptyErrorText string           `json:"emptyErrorText"`
	Options        []tabOption      `json:"options"`
}

type dropdownField struct {
	Name            domain.FieldKind        `json:"name"`
	Label           string                  `json:"label"`
	MobileLabel     string                  `json:"mobileLabel"`
	PlaceholderText string                  `json:"placeholderText"`
	PopupTitle      string                  `json:"popupTitle"`
	Options         []domain.DropdownOption `json:"options"`
}

func (f file) toDomain() *domain.FormConfig {
	cfg := &domain.FormConfig{
		Title:                f.Title,
		SubTitle:             f.SubTitle,
		MinYearValidation:    f.MinYearValidation,
		MaxYearValidation:    f.MaxYearValidation,
		MaxSalaryValidation:  f.MaxSalaryValidation,
		CtaSingleErrorText:   f.CtaSingleErrorText,
		CtaMultipleErrorText: f.CtaMultipleErrorText,
		CtaTncErrorText:      f.CtaTncErrorText,
		TncText:              f.TncText,
		TncName:              f.TncName,
		SubmitCtaText:        f.SubmitCtaText,
		RupeesSymbol:         f.RupeesSymbol,
	}
	if cfg.TncName == "" {
		cfg.TncName = DefaultTncName
	}
	for _, in := range f.InputFields {
		typ := in.Type
		if typ == "" {
			typ = "text"
		}
		cfg.InputFields = append(cfg.InputFields, domain.FieldDefinition{
			Name:                in.Name,
			Label:               in.Label,
			MobileLabel:         in.MobileLabel,
			Placeholder:         in.Placeholder,
			Type:                typ,
			Mandatory:           bool(in.Mandatory),
			Disabled:            bool(in.Disabled),
			ReadOnly:            bool(in.ReadOnly),
			EmptyErrorText:      in.EmptyErrorText,
			ValidationErrorText: in.ValidationErrorText,
			NudgeText:           in.NudgeText,
			ToolTipTitle:        in.ToolTipTitle,
			ToolTipDescription:  in.ToolTipDescription,
			ToolTipImage:        in.ToolTipImage,
			ToolTipImageAltText: in.ToolTipImageAltText,
			CtaText:             in.CtaText,
		})
	}
	for _, tf := range f.TabFields {
		t := domain.TabField{
			Name:           tf.Name,
			Label:          tf.Label,
			MobileLabel:    tf.MobileLabel,
			Mandatory:      bool(tf.Mandatory),
			ReadOnly:       bool(tf.ReadOnly),
			EmptyErrorText: tf.EmptyErrorText,
		}
		for _, o := range tf.Options {
			t.Options = append(t.Options, domain.TabOption{Value: o.Value, Label: o.Label, OptionalField: o.OptionalField})
		}
		cfg.TabFields = append(cfg.TabFields, t)
	}
	for _, df := range f.DropdownFields {
		cfg.DropdownFields = append(cfg.DropdownFields, domain.DropdownField{
			Name:            df.Name,
			Label:           df.Label,
			MobileLabel:     df.MobileLabel,
			PlaceholderText: df.PlaceholderText,
			PopupTitle:      df.PopupTitle,
			Options:         df.Options,
		})
	}
	return cfg
}
