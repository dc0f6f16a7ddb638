package domain

import "fmt"

// FieldKind identifies one field of the customer profile form.
// The set is closed; wire names match the keys used by the field configuration
// and by the persisted snapshot.
type FieldKind int

const (
	FieldCustomerFullName FieldKind = iota + 1
	FieldPAN
	FieldDOB
	FieldPinCode
	FieldCity
	FieldGender
	FieldEmploymentType
	FieldNetMonthlySalary
	FieldGSTIN
	FieldLookingFor
)

var fieldNames = map[FieldKind]string{
	FieldCustomerFullName: "customerFullName",
	FieldPAN:              "pan",
	FieldDOB:              "dob",
	FieldPinCode:          "pinCode",
	FieldCity:             "city",
	FieldGender:           "gender",
	FieldEmploymentType:   "employmentType",
	FieldNetMonthlySalary: "netMonthlySalary",
	FieldGSTIN:            "gstin",
	FieldLookingFor:       "iAmLookingFor",
}

var fieldsByName = func() map[string]FieldKind {
	m := make(map[string]FieldKind, len(fieldNames))
	for k, n := range fieldNames {
		m[n] = k
	}
	return m
}()

// AllFields lists every field kind in form order.
func AllFields() []FieldKind {
	return []FieldKind{
		FieldCustomerFullName,
		FieldPAN,
		FieldDOB,
		FieldPinCode,
		FieldCity,
		FieldGender,
		FieldEmploymentType,
		FieldNetMonthlySalary,
		FieldGSTIN,
		FieldLookingFor,
	}
}

// ParseFieldKind maps a wire name to its FieldKind.
func ParseFieldKind(name string) (FieldKind, error) {
	k, ok := fieldsByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown field %q", name)
	}
	return k, nil
}

func (k FieldKind) String() string {
	if n, ok := fieldNames[k]; ok {
		return n
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k FieldKind) Valid() bool {
	_, ok := fieldNames[k]
	return ok
}

// Uppercase reports whether the field is rendered and submitted upper-cased.
func (k FieldKind) Uppercase() bool {
	return k == FieldPAN || k == FieldGSTIN
}

func (k FieldKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}

func (k *FieldKind) UnmarshalText(b []byte) error {
	parsed, err := ParseFieldKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
