package form

import (
	"encoding/base64"
	"encoding/json"
	"slices"
	"strings"

	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/validation"
)

// Submission is the verdict of the submission gate.
type Submission struct {
	// Blocked is true when any field errs, a mandatory field is empty, or
	// the terms are unchecked.
	Blocked bool
	// ScrollTo names the control to bring into view when blocked.
	ScrollTo string
	// Request is set only when the submission may proceed.
	Request *domain.VerifyRequest
	// Analytics is emitted whether or not the gate passes.
	Analytics domain.AnalyticsEvent
	// Snapshot is the attribute log carrying the encoded state.
	Snapshot domain.AttributeLog
}

// Gate decides whether the form may be submitted. ctaText is the label of the
// control that triggered the submit.
func (r *Reducer) Gate(state domain.FormState, ctaText string) (domain.FormState, Submission) {
	s := state.Clone()

	mandatory := r.cfg.MandatoryFields()
	s.MandatoryFields = mandatory

	erroring := s.ErrorFields()
	var empty []domain.FieldKind
	for _, k := range domain.AllFields() {
		if !slices.Contains(mandatory, k) || s.Value(k) != "" {
			continue
		}
		if _, has := s.Error(k); has {
			continue
		}
		empty = append(empty, k)
	}

	failures := len(erroring) + len(empty)
	switch {
	case failures == 1:
		s.CtaError = r.cfg.CtaSingleErrorText
	case failures > 1:
		s.CtaError = r.cfg.CtaMultipleErrorText
	case !s.TncChecked:
		s.CtaError = r.cfg.CtaTncErrorText
	default:
		s.CtaError = ""
	}
	for _, k := range empty {
		setError(&s, k, r.cfg.EmptyErrorText(k))
	}

	sub := Submission{Blocked: failures > 0 || !s.TncChecked}
	switch {
	case len(empty) > 0:
		sub.ScrollTo = empty[0].String()
	case len(erroring) > 0:
		sub.ScrollTo = erroring[0].String()
	case !s.TncChecked:
		sub.ScrollTo = r.cfg.TncName
	}
	if !sub.Blocked {
		req := r.Request(s)
		sub.Request = &req
		s.Loading = true
	}
	sub.Analytics = submitEvent(s, ctaText)
	sub.Snapshot = domain.AttributeLog{
		Name:       domain.AttributeLogSubmitClick,
		Attributes: map[string]string{
			"type":     "FORM_SUBMIT_CTA",
			"formData": EncodeSnapshot(s),
		},
	}
	return s, sub
}

// Request builds the verification payload from s.
func (r *Reducer) Request(s domain.FormState) domain.VerifyRequest {
	return domain.VerifyRequest{
		CustomerFullName: strings.TrimSpace(s.CustomerFullName),
		PAN:              strings.ToUpper(s.PAN),
		DOB:              validation.ToISODate(s.DOB),
		PinCode:          s.PinCode,
		City:             s.City,
		Gender:           s.Gender,
		EmploymentType:   s.EmploymentType,
		NetMonthlySalary: s.NetMonthlySalary,
		GSTIN:            strings.ToUpper(s.GSTIN),
		LookingFor:       s.LookingFor,
	}
}

func submitEvent(s domain.FormState, ctaText string) domain.AnalyticsEvent {
	errorFlag, errorMessage := domain.FlagNo, domain.NotApplicable
	if s.CtaError != "" {
		errorFlag, errorMessage = domain.FlagYes, s.CtaError
	}
	checkbox := domain.FlagNo
	if s.TncChecked {
		checkbox = domain.FlagYes
	}
	return domain.AnalyticsEvent{
		Component: domain.ComponentFormSubmit,
		Element:   domain.ElementFormSubmitClick,
		Event:     domain.EventClick,
		EventType: domain.EventTypeButtonClick,
		CtaText:   ctaText,
		Attributes: map[string]string{
			"EVENT_NAME":            domain.EventApplicationClick,
			"EP_JOURNEY_NAME":       domain.JourneyName,
			"EP_PAN":                s.PAN,
			"EP_DOB":                s.DOB,
			"EP_PINCODE":            s.PinCode,
			"EP_CITY":               s.City,
			"EP_GENDER":             s.Gender,
			"EP_EMPLOYMENT_TYPE":    s.EmploymentType,
			"EP_NET_MONTHLY_SALARY": s.NetMonthlySalary,
			"EP_GSTIN":              s.GSTIN,
			"EP_LOOKING_FOR":        s.LookingFor,
			"EP_CPR_CUSTOMER_TYPE":  domain.CustomerTypeNewUser,
			"EP_ERROR_FLAG":         errorFlag,
			"EP_ERROR_MESSAGE":      errorMessage,
			"EP_CHECKBOX":           checkbox,
		},
	}
}

// EncodeSnapshot returns the base64 form of the state's JSON snapshot.
func EncodeSnapshot(s domain.FormState) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}
