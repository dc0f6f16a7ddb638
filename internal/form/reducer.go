// Package form holds the state transitions of the customer profile form: a
// pure reducer over domain.FormState, the submission gate, response
// handling, and the Service that persists state and runs effects.
package form

import (
	"slices"
	"strconv"
	"time"

	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/validation"
)

// Reducer applies events to form state. It holds only read-only configuration
// and is safe for concurrent use.
type Reducer struct {
	cfg   *domain.FormConfig
	rules validation.Rules
}

// NewReducer builds a reducer for cfg. now may be nil to use the wall clock.
func NewReducer(cfg *domain.FormConfig, now func() time.Time) *Reducer {
	return &Reducer{
		cfg: cfg,
		rules: validation.Rules{
			MinAge:    cfg.MinYearValidation,
			MaxAge:    cfg.MaxYearValidation,
			MaxSalary: cfg.MaxSalaryValidation,
			Now:       now,
		},
	}
}

// Config returns the configuration the reducer was built with.
func (r *Reducer) Config() *domain.FormConfig { return r.cfg }

// Initial returns the state derived from the field definitions alone.
func (r *Reducer) Initial() domain.FormState {
	s := domain.NewFormState()
	s.MandatoryFields = r.cfg.MandatoryFields()
	s.DisabledFields = domain.ExtractInputFields(r.cfg.InputFields, domain.FlagDisabled)
	s.ReadOnlyFields = append(
		domain.ExtractInputFields(r.cfg.InputFields, domain.FlagReadOnly),
		domain.ExtractTabFields(r.cfg.TabFields, domain.FlagReadOnly)...,
	)
	return s
}

// Apply returns the state after ev together with the effects it requests.
// The input state is never modified.
func (r *Reducer) Apply(state domain.FormState, ev Event) (domain.FormState, []Effect) {
	s := state.Clone()
	switch e := ev.(type) {
	case Mount:
		if e.Persisted != nil {
			// a submit that never finished must not leave the button disabled
			restored := e.Persisted.Clone()
			restored.Loading = false
			return restored, nil
		}
		return r.Initial(), nil
	case Focus:
		return r.focus(s, e.Field), nil
	case Blur:
		return r.blur(s, e)
	case Input:
		return r.input(s, e)
	case PanInput:
		return r.panInput(s, e.Value), nil
	case DateInput:
		return r.dateInput(s, e.Value), nil
	case TabSelect:
		return r.tabSelect(s, e)
	case CitySelect:
		return r.citySelect(s, e)
	case CityPopupToggle:
		if s.CityPopupOpen {
			s.CityPopupOpen = false
			return s, nil
		}
		return r.dropdownOpen(s, domain.FieldCity)
	case ProductPopupToggle:
		if s.ProductPopupOpen {
			s.ProductPopupOpen = false
			return s, nil
		}
		return r.dropdownOpen(s, domain.FieldLookingFor)
	case DropdownOpen:
		return r.dropdownOpen(s, e.Field)
	case ProductSelect:
		return r.productSelect(s, e.Label)
	case TncToggle:
		s.TncChecked = e.Checked
		s.CtaError = ""
		return s, nil
	case Clear:
		if s.IsDisabled(e.Field) || s.IsReadOnly(e.Field) {
			return state, nil
		}
		if e.Field == domain.FieldPinCode {
			s.PincodeGeneration++
		}
		return r.focus(s.WithValue(e.Field, ""), e.Field), nil
	case PincodeResolved:
		return r.pincodeResolved(s, e), nil
	case Prefill:
		return r.prefill(s, e.Details), nil
	}
	return state, nil
}

func (r *Reducer) focus(s domain.FormState, field domain.FieldKind) domain.FormState {
	s.PrefilledFields = without(s.PrefilledFields, field)
	delete(s.Errors, field)
	s.CtaError = ""
	return s
}

// blur validates the stored value. Text the browser sent that has not been
// applied yet goes through the same gate as a keystroke first. An error
// already shown on the field is never overwritten.
func (r *Reducer) blur(s domain.FormState, e Blur) (domain.FormState, []Effect) {
	def, ok := r.cfg.InputField(e.Field)
	if !ok {
		return s, nil
	}
	var effects []Effect
	if e.Value != s.Value(e.Field) {
		s, effects = r.input(s, Input{Field: e.Field, Value: e.Value})
	}
	if _, has := s.Error(e.Field); has {
		return s, effects
	}
	s.PrefilledFields = without(s.PrefilledFields, e.Field)
	msg := validation.FieldError(e.Field, s.Value(e.Field), s.IsMandatory(e.Field), def.EmptyErrorText, def.ValidationErrorText, r.rules)
	setError(&s, e.Field, msg)
	return s, effects
}

// changed records an accepted edit: the value is stored and every stale
// marker on the field goes away.
func (r *Reducer) changed(s domain.FormState, field domain.FieldKind, value string) domain.FormState {
	s = s.WithValue(field, value)
	s.PrefilledFields = without(s.PrefilledFields, field)
	delete(s.Errors, field)
	s.CtaError = ""
	return s
}

// input only reaches text fields; tabs and dropdowns change through their
// own events, which check the configured options.
func (r *Reducer) input(s domain.FormState, e Input) (domain.FormState, []Effect) {
	if _, ok := r.cfg.InputField(e.Field); !ok {
		return s, nil
	}
	switch e.Field {
	case domain.FieldPAN:
		return r.panInput(s, e.Value), nil
	case domain.FieldDOB:
		return r.dateInput(s, e.Value), nil
	}
	if s.IsDisabled(e.Field) || s.IsReadOnly(e.Field) {
		return s, nil
	}
	if !validation.Acceptable(e.Field, e.Value) {
		return s, nil
	}
	s = r.changed(s, e.Field, e.Value)
	if e.Field != domain.FieldPinCode {
		return s, nil
	}
	// every edit supersedes a lookup still in flight
	s.PincodeGeneration++
	if len(e.Value) == validation.MaxPinCodeLength {
		return s, []Effect{LookupPincode{PinCode: e.Value, Generation: s.PincodeGeneration}}
	}
	return s, nil
}

func (r *Reducer) panInput(s domain.FormState, raw string) domain.FormState {
	if s.IsDisabled(domain.FieldPAN) || s.IsReadOnly(domain.FieldPAN) {
		return s
	}
	return r.changed(s, domain.FieldPAN, validation.MaskPAN(raw))
}

// dateInput leaves the state untouched when the masked text equals what the
// field already holds, which covers rejected keystrokes.
func (r *Reducer) dateInput(s domain.FormState, raw string) domain.FormState {
	if s.IsDisabled(domain.FieldDOB) || s.IsReadOnly(domain.FieldDOB) {
		return s
	}
	masked := validation.MaskDate(s.DOB, raw)
	if masked == s.DOB {
		return s
	}
	return r.changed(s, domain.FieldDOB, masked)
}

func (r *Reducer) tabSelect(s domain.FormState, e TabSelect) (domain.FormState, []Effect) {
	tab, ok := r.cfg.TabField(e.Field)
	if !ok || s.IsReadOnly(e.Field) {
		return s, nil
	}
	idx := slices.IndexFunc(tab.Options, func(o domain.TabOption) bool { return o.Value == e.Value })
	if idx < 0 {
		return s, nil
	}
	s = s.WithValue(e.Field, e.Value)
	delete(s.Errors, e.Field)
	s.CtaError = ""
	track := Track{Event: domain.AnalyticsEvent{
		Component:    domain.ComponentToggleButtons,
		Element:      domain.ElementToggleClick,
		Event:        domain.EventClick,
		EventType:    domain.EventTypeOption,
		CtaText:      tab.Options[idx].Label,
		SectionTitle: tab.Label,
		TabPosition:  strconv.Itoa(idx + 1),
	}}
	return s, []Effect{track}
}

func (r *Reducer) dropdownOpen(s domain.FormState, field domain.FieldKind) (domain.FormState, []Effect) {
	var title string
	switch field {
	case domain.FieldCity:
		if len(s.CityOptions) == 0 || s.IsReadOnly(domain.FieldCity) {
			return s, nil
		}
		s.CityPopupOpen = true
		title = r.cityTitle()
	case domain.FieldLookingFor:
		dd, ok := r.cfg.DropdownField(field)
		if !ok {
			return s, nil
		}
		s.ProductPopupOpen = true
		title = dd.Label
	default:
		return s, nil
	}
	track := Track{Event: domain.AnalyticsEvent{
		Component:    domain.ComponentFormDropdown,
		Element:      domain.ElementDropdownClick,
		Event:        domain.EventClick,
		EventType:    domain.EventTypeFormInteract,
		SectionTitle: title,
	}}
	return s, []Effect{track}
}

func (r *Reducer) cityTitle() string {
	if def, ok := r.cfg.InputField(domain.FieldCity); ok {
		return def.Label
	}
	return domain.FieldCity.String()
}

func (r *Reducer) citySelect(s domain.FormState, e CitySelect) (domain.FormState, []Effect) {
	if !slices.Contains(s.CityOptions, e.City) {
		return s, nil
	}
	s = r.changed(s, domain.FieldCity, e.City)
	s.CityPopupOpen = false
	track := Track{Event: domain.AnalyticsEvent{
		Component:    domain.ComponentFormDropdown,
		Element:      domain.ElementDropdownSelect,
		Event:        domain.EventClick,
		EventType:    domain.EventTypeOption,
		CtaText:      e.City,
		SectionTitle: r.cityTitle(),
		TabPosition:  strconv.Itoa(e.Position),
	}}
	return s, []Effect{track}
}

func (r *Reducer) productSelect(s domain.FormState, label string) (domain.FormState, []Effect) {
	dd, ok := r.cfg.DropdownField(domain.FieldLookingFor)
	if !ok {
		return s, nil
	}
	idx := slices.IndexFunc(dd.Options, func(o domain.DropdownOption) bool { return o.Label == label })
	if idx < 0 {
		return s, nil
	}
	s.LookingFor = label
	s.ProductPopupOpen = false
	track := Track{Event: domain.AnalyticsEvent{
		Component:    domain.ComponentFormDropdown,
		Element:      domain.ElementDropdownSelect,
		Event:        domain.EventClick,
		EventType:    domain.EventTypeOption,
		CtaText:      label,
		SectionTitle: dd.Label,
		TabPosition:  strconv.Itoa(idx + 1),
	}}
	return s, []Effect{track}
}

// pincodeResolved drops answers to lookups that a newer edit superseded.
func (r *Reducer) pincodeResolved(s domain.FormState, e PincodeResolved) domain.FormState {
	if e.Generation != s.PincodeGeneration {
		return s
	}
	if !e.Failed && e.Result.StatusCode == domain.StatusSuccess {
		delete(s.Errors, domain.FieldPinCode)
	} else {
		setError(&s, domain.FieldPinCode, r.cfg.ValidationErrorText(domain.FieldPinCode))
	}
	if !e.Failed && e.Result.Resolved() {
		s.City = e.Result.CityName
		s.CityOptions = []string{e.Result.CityName}
		s.PrefilledFields = without(s.PrefilledFields, domain.FieldCity)
		delete(s.Errors, domain.FieldCity)
		return s
	}
	s.City = ""
	s.CityOptions = []string{}
	s.CityPopupOpen = false
	setError(&s, domain.FieldCity, r.cfg.ValidationErrorText(domain.FieldCity))
	return s
}

func (r *Reducer) prefill(s domain.FormState, d domain.CustomerDetails) domain.FormState {
	d.DOB = validation.FromISODate(d.DOB)
	for _, k := range domain.AllFields() {
		v := d.Value(k)
		if v == "" {
			continue
		}
		s = s.WithValue(k, v)
		if !slices.Contains(s.PrefilledFields, k) {
			s.PrefilledFields = append(s.PrefilledFields, k)
		}
	}
	if d.City != "" {
		s.CityOptions = []string{d.City}
	}
	return s
}

func setError(s *domain.FormState, field domain.FieldKind, msg string) {
	if msg == "" {
		delete(s.Errors, field)
		return
	}
	s.Errors[field] = msg
}

func without(in []domain.FieldKind, k domain.FieldKind) []domain.FieldKind {
	return slices.DeleteFunc(in, func(x domain.FieldKind) bool { return x == k })
}
