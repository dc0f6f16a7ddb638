// Package validation holds the per-field keystroke filters, business-rule
// validators and input maskers of the customer profile form.
//
// Acceptable answers "may this partially typed text stay in the field";
// Valid answers "may this complete value be submitted". Every valid value is
// also acceptable.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/csg33k/fpr-form/internal/domain"
)

const (
	MaxNameLength    = 50
	MaxPANLength     = 10
	MaxPinCodeLength = 6
	MaxSalaryLength  = 7
	MaxGSTINLength   = 15
)

var (
	fullNameAcceptanceRX = regexp.MustCompile(`^[A-Za-z .']*$`)
	fullNameValidationRX = regexp.MustCompile(`^[A-Za-z](?:[A-Za-z .']*[A-Za-z.])?$`)
	panAcceptanceRX      = regexp.MustCompile(`^[A-Za-z0-9]*$`)
	panValidationRX      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	digitsRX             = regexp.MustCompile(`^[0-9]*$`)
	pinCodeValidationRX  = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	dobAcceptanceRX      = regexp.MustCompile(`^[0-9]{0,2}(?:/[0-9]{0,2}(?:/[0-9]{0,4})?)?$`)
	gstinValidationRX    = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// Rules carries the configured numeric bounds used by Valid.
type Rules struct {
	MinAge    int
	MaxAge    int
	MaxSalary int
	// Now defaults to time.Now when nil.
	Now func() time.Time
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Acceptable reports whether value may be written into the field while typing.
// Selection fields (city, gender, employment type, product) are never filtered.
func Acceptable(kind domain.FieldKind, value string) bool {
	switch kind {
	case domain.FieldCustomerFullName:
		return fullNameAcceptanceRX.MatchString(value) && len(value) <= MaxNameLength
	case domain.FieldPAN:
		return panAcceptanceRX.MatchString(value) && len(value) <= MaxPANLength
	case domain.FieldPinCode:
		return digitsRX.MatchString(value) && len(value) <= MaxPinCodeLength
	case domain.FieldDOB:
		return DateAcceptable(value)
	case domain.FieldNetMonthlySalary:
		return digitsRX.MatchString(value) && len(value) <= MaxSalaryLength
	case domain.FieldGSTIN:
		return panAcceptanceRX.MatchString(value) && len(value) <= MaxGSTINLength
	case domain.FieldCity, domain.FieldGender, domain.FieldEmploymentType, domain.FieldLookingFor:
		return true
	}
	return false
}

// Valid reports whether a complete value satisfies the field's business rule.
func Valid(kind domain.FieldKind, value string, rules Rules) bool {
	switch kind {
	case domain.FieldCustomerFullName:
		return fullNameValidationRX.MatchString(value) && len(value) <= MaxNameLength
	case domain.FieldPAN:
		return panValidationRX.MatchString(strings.ToUpper(value))
	case domain.FieldPinCode:
		return pinCodeValidationRX.MatchString(value)
	case domain.FieldDOB:
		return DateValid(value, rules.MinAge, rules.MaxAge, rules.now())
	case domain.FieldNetMonthlySalary:
		return SalaryValid(value, rules.MaxSalary)
	case domain.FieldGSTIN:
		return value == "" || gstinValidationRX.MatchString(strings.ToUpper(value))
	case domain.FieldCity, domain.FieldGender, domain.FieldEmploymentType, domain.FieldLookingFor:
		return true
	}
	return false
}

// SalaryValid accepts an empty value, or a whole number in (0, max].
func SalaryValid(value string, max int) bool {
	if value == "" {
		return true
	}
	if !digitsRX.MatchString(value) {
		return false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	return n > 0 && n <= max
}

// FieldError picks the message to show for a completed value: the empty text
// when a mandatory field is empty, the validation text when the value is
// invalid, otherwise "".
func FieldError(kind domain.FieldKind, value string, mandatory bool, emptyText, invalidText string, rules Rules) string {
	if value == "" && mandatory {
		return emptyText
	}
	if !Valid(kind, value, rules) {
		return invalidText
	}
	return ""
}
