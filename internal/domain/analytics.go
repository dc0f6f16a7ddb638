package domain

// Data-layer vocabulary shared by every analytics event of the form.
const (
	ComponentToggleButtons  = "toggle_buttons"
	ComponentFormDropdown   = "form_dropdown"
	ComponentFormSubmit     = "form_submit_button"
	ElementToggleClick      = "toggle_button_click"
	ElementDropdownClick    = "form_dropdown_click"
	ElementDropdownSelect   = "form_dropdown_selection"
	ElementFormSubmitClick  = "form_submit_button_click"
	EventClick              = "click"
	EventTypeOption         = "option_selection"
	EventTypeFormInteract   = "form_interaction"
	EventTypeButtonClick    = "button_click"
	AttributeLogSubmitClick = "CPR_BUTTON_CLICK"
)

// Values of the submit-click profile attributes.
const (
	JourneyName           = "CPR"
	EventApplicationClick = "CPR_APPLICATION_CLICKED"
	CustomerTypeNewUser   = "NEW_USER"
	FlagYes               = "Yes"
	FlagNo                = "No"
	NotApplicable         = "NA"
)

// AnalyticsEvent is one structured data-layer event. Attributes carries the
// optional profile properties sent alongside (submit clicks only).
type AnalyticsEvent struct {
	Component    string            `json:"component"`
	Element      string            `json:"element"`
	Event        string            `json:"event"`
	EventType    string            `json:"event_type"`
	CtaText      string            `json:"cta_text,omitempty"`
	SectionTitle string            `json:"section_title,omitempty"`
	TabPosition  string            `json:"tab_position,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// AttributeLog is a named bag of custom attributes recorded for monitoring.
type AttributeLog struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes"`
}
