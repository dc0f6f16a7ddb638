package domain

// FieldDefinition describes one text input of the form.
// Definitions are supplied by configuration and never mutated at runtime.
type FieldDefinition struct {
	Name                FieldKind
	Label               string
	MobileLabel         string
	Placeholder         string
	Type                string // html input type, e.g. "text" or "tel"
	Mandatory           bool
	Disabled            bool
	ReadOnly            bool
	EmptyErrorText      string
	ValidationErrorText string
	NudgeText           string
	ToolTipTitle        string
	ToolTipDescription  string
	ToolTipImage        string
	ToolTipImageAltText string
	CtaText             string
}

// TabOption is one button of a segmented (tab) field.
// OptionalField names the extra input surfaced while this option is selected.
type TabOption struct {
	Value         string
	Label         string
	OptionalField *FieldKind
}

// TabField is a segmented-button field such as gender or employment type.
type TabField struct {
	Name           FieldKind
	Label          string
	MobileLabel    string
	Mandatory      bool
	ReadOnly       bool
	EmptyErrorText string
	Options        []TabOption
}

// DropdownOption is one entry of a dropdown popup.
type DropdownOption struct {
	Value string
	Label string
}

// DropdownField is a popup selector such as the product interest.
type DropdownField struct {
	Name            FieldKind
	Label           string
	MobileLabel     string
	PlaceholderText string
	PopupTitle      string
	Options         []DropdownOption
}

// FormConfig is the complete caller-supplied configuration of the form.
type FormConfig struct {
	Title                string
	SubTitle             string
	InputFields          []FieldDefinition
	TabFields            []TabField
	DropdownFields       []DropdownField
	MinYearValidation    int
	MaxYearValidation    int
	MaxSalaryValidation  int
	CtaSingleErrorText   string
	CtaMultipleErrorText string
	CtaTncErrorText      string
	TncText              string
	TncName              string
	SubmitCtaText        string
	RupeesSymbol         string
}

// InputField returns the definition of an input field, if configured.
func (c *FormConfig) InputField(kind FieldKind) (*FieldDefinition, bool) {
	for i := range c.InputFields {
		if c.InputFields[i].Name == kind {
			return &c.InputFields[i], true
		}
	}
	return nil, false
}

// TabField returns the definition of a tab field, if configured.
func (c *FormConfig) TabField(kind FieldKind) (*TabField, bool) {
	for i := range c.TabFields {
		if c.TabFields[i].Name == kind {
			return &c.TabFields[i], true
		}
	}
	return nil, false
}

// DropdownField returns the definition of a dropdown field, if configured.
func (c *FormConfig) DropdownField(kind FieldKind) (*DropdownField, bool) {
	for i := range c.DropdownFields {
		if c.DropdownFields[i].Name == kind {
			return &c.DropdownFields[i], true
		}
	}
	return nil, false
}

// EmptyErrorText returns the empty-field message from whichever definition
// (input or tab) carries the field.
func (c *FormConfig) EmptyErrorText(kind FieldKind) string {
	if d, ok := c.InputField(kind); ok {
		return d.EmptyErrorText
	}
	if t, ok := c.TabField(kind); ok {
		return t.EmptyErrorText
	}
	return ""
}

// ValidationErrorText returns the invalid-value message of an input field.
func (c *FormConfig) ValidationErrorText(kind FieldKind) string {
	if d, ok := c.InputField(kind); ok {
		return d.ValidationErrorText
	}
	return ""
}

// FieldFlag selects one boolean of a field definition for list extraction.
type FieldFlag int

const (
	FlagMandatory FieldFlag = iota
	FlagDisabled
	FlagReadOnly
)

// ExtractInputFields returns, in configuration order, the input fields whose flag is set.
func ExtractInputFields(fields []FieldDefinition, flag FieldFlag) []FieldKind {
	out := []FieldKind{}
	for _, f := range fields {
		var set bool
		switch flag {
		case FlagMandatory:
			set = f.Mandatory
		case FlagDisabled:
			set = f.Disabled
		case FlagReadOnly:
			set = f.ReadOnly
		}
		if set {
			out = append(out, f.Name)
		}
	}
	return out
}

// ExtractTabFields returns, in configuration order, the tab fields whose flag is set.
// Tabs cannot be disabled, so FlagDisabled always yields an empty list.
func ExtractTabFields(fields []TabField, flag FieldFlag) []FieldKind {
	out := []FieldKind{}
	for _, f := range fields {
		var set bool
		switch flag {
		case FlagMandatory:
			set = f.Mandatory
		case FlagReadOnly:
			set = f.ReadOnly
		}
		if set {
			out = append(out, f.Name)
		}
	}
	return out
}

// MandatoryFields derives the mandatory list from the definitions, inputs first.
func (c *FormConfig) MandatoryFields() []FieldKind {
	return append(ExtractInputFields(c.InputFields, FlagMandatory), ExtractTabFields(c.TabFields, FlagMandatory)...)
}

// OptionalField returns the input surfaced for the given employment type, if any.
func (c *FormConfig) OptionalField(employmentType string) (*FieldDefinition, bool) {
	tab, ok := c.TabField(FieldEmploymentType)
	if !ok {
		return nil, false
	}
	for _, opt := range tab.Options {
		if opt.Value != employmentType || opt.OptionalField == nil {
			continue
		}
		return c.InputField(*opt.OptionalField)
	}
	return nil, false
}
