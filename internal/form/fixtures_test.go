package form_test

import (
	"time"

	"github.com/csg33k/fpr-form/internal/domain"
)

var testNow = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func kindPtr(k domain.FieldKind) *domain.FieldKind { return &k }

func testConfig() *domain.FormConfig {
	return &domain.FormConfig{
		Title: "Tell us about yourself",
		InputFields: []domain.FieldDefinition{
			{Name: domain.FieldCustomerFullName, Label: "Full name", Type: "text", Mandatory: true,
				EmptyErrorText: "Enter your name", ValidationErrorText: "Enter a valid name"},
			{Name: domain.FieldPAN, Label: "PAN", Type: "text", Mandatory: true,
				EmptyErrorText: "Enter your PAN", ValidationErrorText: "Enter a valid PAN"},
			{Name: domain.FieldDOB, Label: "Date of birth", Type: "tel", Mandatory: true,
				EmptyErrorText: "Enter your date of birth", ValidationErrorText: "Enter a valid date of birth"},
			{Name: domain.FieldPinCode, Label: "Pincode", Type: "tel", Mandatory: true,
				EmptyErrorText: "Enter your pincode", ValidationErrorText: "Enter a valid pincode"},
			{Name: domain.FieldCity, Label: "City", Type: "text", Mandatory: true, Disabled: true,
				EmptyErrorText: "Enter your city", ValidationErrorText: "City not found for this pincode"},
			{Name: domain.FieldNetMonthlySalary, Label: "Net monthly salary", Type: "tel",
				ValidationErrorText: "Enter a valid salary"},
			{Name: domain.FieldGSTIN, Label: "GSTIN", Type: "text",
				ValidationErrorText: "Enter a valid GSTIN"},
		},
		TabFields: []domain.TabField{
			{Name: domain.FieldGender, Label: "Gender", Mandatory: true, EmptyErrorText: "Select your gender",
				Options: []domain.TabOption{{Value: "M", Label: "Male"}, {Value: "F", Label: "Female"}, {Value: "O", Label: "Other"}}},
			{Name: domain.FieldEmploymentType, Label: "Employment type", Mandatory: true, EmptyErrorText: "Select your employment type",
				Options: []domain.TabOption{
					{Value: "SALARIED", Label: "Salaried", OptionalField: kindPtr(domain.FieldNetMonthlySalary)},
					{Value: "SELF_EMPLOYED", Label: "Self employed", OptionalField: kindPtr(domain.FieldGSTIN)},
				}},
		},
		DropdownFields: []domain.DropdownField{
			{Name: domain.FieldLookingFor, Label: "I am looking for", PlaceholderText: "Select a product",
				Options: []domain.DropdownOption{{Value: "PL", Label: "Personal loan"}, {Value: "CC", Label: "Credit card"}}},
		},
		MinYearValidation:    18,
		MaxYearValidation:    60,
		MaxSalaryValidation:  1000000,
		CtaSingleErrorText:   "Please fix the highlighted field",
		CtaMultipleErrorText: "Please fix the highlighted fields",
		CtaTncErrorText:      "Please accept the terms",
		TncName:              "tnc",
		SubmitCtaText:        "Check offers",
	}
}

// completeState returns a state that passes the gate under testConfig.
func completeState() domain.FormState {
	s := domain.NewFormState()
	s.CustomerFullName = "Asha Rao"
	s.PAN = "ABCDE1234F"
	s.DOB = "15/06/1990"
	s.PinCode = "560001"
	s.City = "Bengaluru"
	s.Gender = "F"
	s.EmploymentType = "SALARIED"
	s.NetMonthlySalary = "85000"
	s.TncChecked = true
	return s
}
