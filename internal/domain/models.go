package domain

import (
	"slices"
	"time"
)

// StatusSuccess is the status code every collaborating service uses for success.
const StatusSuccess = 90

// ErrorTypeVerifyDetails classifies a failed verification for downstream display.
const ErrorTypeVerifyDetails = "VERIFY_DETAILS"

// FormState is the single record rendered by the form. It is persisted as a
// JSON snapshot after every change and restored on the next visit.
type FormState struct {
	CustomerFullName string `json:"customerFullName"`
	PAN              string `json:"pan"`
	DOB              string `json:"dob"`
	PinCode          string `json:"pinCode"`
	City             string `json:"city"`
	Gender           string `json:"gender"`
	EmploymentType   string `json:"employmentType"`
	NetMonthlySalary string `json:"netMonthlySalary"`
	GSTIN            string `json:"gstin"`
	LookingFor       string `json:"iAmLookingFor"`

	// Errors holds one message per erroring field; absence means no error.
	Errors map[FieldKind]string `json:"error"`

	MandatoryFields []FieldKind `json:"mandatoryFields"`
	DisabledFields  []FieldKind `json:"disabledFields"`
	PrefilledFields []FieldKind `json:"prefilledFields"`
	ReadOnlyFields  []FieldKind `json:"readOnlyFields"`

	TncChecked bool   `json:"tncChecked"`
	CtaError   string `json:"ctaError"`

	CityPopupOpen    bool `json:"cityPopupOpen"`
	ProductPopupOpen bool `json:"productPopupOpen"`
	Loading          bool `json:"loading"`

	// CityOptions caches the last pincode resolution.
	CityOptions []string `json:"cityData"`
	// PincodeGeneration increases with every lookup started; a resolution
	// carrying an older generation is stale.
	PincodeGeneration uint64 `json:"pincodeGeneration"`
}

// NewFormState returns an empty state with all collections allocated.
func NewFormState() FormState {
	return FormState{
		Errors:          map[FieldKind]string{},
		MandatoryFields: []FieldKind{},
		DisabledFields:  []FieldKind{},
		PrefilledFields: []FieldKind{},
		ReadOnlyFields:  []FieldKind{},
		CityOptions:     []string{},
	}
}

// Value returns the current text of a field.
func (s FormState) Value(kind FieldKind) string {
	switch kind {
	case FieldCustomerFullName:
		return s.CustomerFullName
	case FieldPAN:
		return s.PAN
	case FieldDOB:
		return s.DOB
	case FieldPinCode:
		return s.PinCode
	case FieldCity:
		return s.City
	case FieldGender:
		return s.Gender
	case FieldEmploymentType:
		return s.EmploymentType
	case FieldNetMonthlySalary:
		return s.NetMonthlySalary
	case FieldGSTIN:
		return s.GSTIN
	case FieldLookingFor:
		return s.LookingFor
	}
	return ""
}

// WithValue returns a copy of s with the field set to v.
func (s FormState) WithValue(kind FieldKind, v string) FormState {
	switch kind {
	case FieldCustomerFullName:
		s.CustomerFullName = v
	case FieldPAN:
		s.PAN = v
	case FieldDOB:
		s.DOB = v
	case FieldPinCode:
		s.PinCode = v
	case FieldCity:
		s.City = v
	case FieldGender:
		s.Gender = v
	case FieldEmploymentType:
		s.EmploymentType = v
	case FieldNetMonthlySalary:
		s.NetMonthlySalary = v
	case FieldGSTIN:
		s.GSTIN = v
	case FieldLookingFor:
		s.LookingFor = v
	}
	return s
}

// Clone deep-copies the collections so reducers never alias a previous state.
func (s FormState) Clone() FormState {
	errs := make(map[FieldKind]string, len(s.Errors))
	for k, v := range s.Errors {
		errs[k] = v
	}
	s.Errors = errs
	s.MandatoryFields = cloneKinds(s.MandatoryFields)
	s.DisabledFields = cloneKinds(s.DisabledFields)
	s.PrefilledFields = cloneKinds(s.PrefilledFields)
	s.ReadOnlyFields = cloneKinds(s.ReadOnlyFields)
	if s.CityOptions == nil {
		s.CityOptions = []string{}
	} else {
		s.CityOptions = slices.Clone(s.CityOptions)
	}
	return s
}

func cloneKinds(in []FieldKind) []FieldKind {
	if in == nil {
		return []FieldKind{}
	}
	return slices.Clone(in)
}

// Error returns the field's error message and whether one is set.
func (s FormState) Error(kind FieldKind) (string, bool) {
	msg, ok := s.Errors[kind]
	return msg, ok && msg != ""
}

// ErrorFields lists erroring fields in form order.
func (s FormState) ErrorFields() []FieldKind {
	var out []FieldKind
	for _, k := range AllFields() {
		if _, ok := s.Error(k); ok {
			out = append(out, k)
		}
	}
	return out
}

func (s FormState) IsMandatory(kind FieldKind) bool { return slices.Contains(s.MandatoryFields, kind) }
func (s FormState) IsDisabled(kind FieldKind) bool  { return slices.Contains(s.DisabledFields, kind) }
func (s FormState) IsPrefilled(kind FieldKind) bool { return slices.Contains(s.PrefilledFields, kind) }
func (s FormState) IsReadOnly(kind FieldKind) bool  { return slices.Contains(s.ReadOnlyFields, kind) }

// CustomerDetails are the previously verified details used to prefill the form.
// DOB is in YYYY-MM-DD form.
type CustomerDetails struct {
	CustomerFullName string `json:"customerFullName"`
	DOB              string `json:"dob"`
	PAN              string `json:"pan"`
	PinCode          string `json:"pinCode"`
	City             string `json:"city"`
	Gender           string `json:"gender"`
}

// Value returns the detail matching a field kind, empty when not carried.
func (d CustomerDetails) Value(kind FieldKind) string {
	switch kind {
	case FieldCustomerFullName:
		return d.CustomerFullName
	case FieldDOB:
		return d.DOB
	case FieldPAN:
		return d.PAN
	case FieldPinCode:
		return d.PinCode
	case FieldCity:
		return d.City
	case FieldGender:
		return d.Gender
	}
	return ""
}

// VerifyRequest is the payload sent to the verification service.
type VerifyRequest struct {
	CustomerFullName string `json:"CustomerFullName"`
	PAN              string `json:"Pan"`
	DOB              string `json:"Dob"` // YYYY-MM-DD
	PinCode          string `json:"pinCode"`
	City             string `json:"city"`
	Gender           string `json:"gender"`
	EmploymentType   string `json:"EmploymentType"`
	NetMonthlySalary string `json:"netMonthlySalary"`
	GSTIN            string `json:"GSTIN"`
	LookingFor       string `json:"Iamlookingfor"`
}

// VerifyResponse is the verification service reply.
type VerifyResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Data       struct {
		CustomerDetails *CustomerDetails `json:"customerDetails,omitempty"`
		ReferenceID     string           `json:"referenceId,omitempty"`
	} `json:"data"`
}

// VerificationOutcome is the shared application response state written after
// a submission, consumed by whatever screen follows the form.
type VerificationOutcome struct {
	SessionID  string          `json:"sessionId"`
	MobileNo   string          `json:"mobileNo,omitempty"`
	Success    bool            `json:"success"`
	ErrorType  string          `json:"errorType,omitempty"`
	StatusCode int             `json:"statusCode"`
	Response   *VerifyResponse `json:"response,omitempty"`
	Request    VerifyRequest   `json:"request"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PincodeResult is the outcome of one pincode lookup.
type PincodeResult struct {
	StatusCode int    `json:"statusCode"`
	CityName   string `json:"cityName"`
}

// Resolved reports whether the lookup produced a city.
func (r PincodeResult) Resolved() bool {
	return r.StatusCode == StatusSuccess && r.CityName != ""
}
