package form_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/form"
)

func TestGate_CleanFormProceeds(t *testing.T) {
	cfg := testConfig()
	for i := range cfg.InputFields {
		cfg.InputFields[i].Mandatory = cfg.InputFields[i].Name == domain.FieldPAN || cfg.InputFields[i].Name == domain.FieldDOB
	}
	for i := range cfg.TabFields {
		cfg.TabFields[i].Mandatory = false
	}
	r := form.NewReducer(cfg, fixedNow)

	s := domain.NewFormState()
	s.PAN = "ABCDE1234F"
	s.DOB = "15/06/1990"
	s.TncChecked = true

	next, sub := r.Gate(s, "Check offers")

	assert.False(t, sub.Blocked)
	assert.Empty(t, next.CtaError)
	assert.True(t, next.Loading)
	assert.Equal(t, []domain.FieldKind{domain.FieldPAN, domain.FieldDOB}, next.MandatoryFields)
	require.NotNil(t, sub.Request)
	assert.Equal(t, "ABCDE1234F", sub.Request.PAN)
	assert.Equal(t, "1990-06-15", sub.Request.DOB)
	assert.Equal(t, domain.FlagNo, sub.Analytics.Attributes["EP_ERROR_FLAG"])
	assert.Equal(t, domain.NotApplicable, sub.Analytics.Attributes["EP_ERROR_MESSAGE"])
}

func TestGate_SingleEmptyMandatory(t *testing.T) {
	r := newReducer()
	s := completeState()
	s.PAN = ""

	next, sub := r.Gate(s, "Check offers")

	assert.True(t, sub.Blocked)
	assert.Nil(t, sub.Request)
	assert.False(t, next.Loading)
	assert.Equal(t, "Please fix the highlighted field", next.CtaError)
	assert.Equal(t, "Enter your PAN", next.Errors[domain.FieldPAN])
	assert.Equal(t, "pan", sub.ScrollTo)
	assert.Equal(t, domain.FlagYes, sub.Analytics.Attributes["EP_ERROR_FLAG"])
	assert.Equal(t, "Please fix the highlighted field", sub.Analytics.Attributes["EP_ERROR_MESSAGE"])
}

func TestGate_CountsErrorsAcrossBothSets(t *testing.T) {
	r := newReducer()
	s := completeState()
	s.Gender = ""
	s.Errors[domain.FieldPAN] = "Enter a valid PAN"

	next, sub := r.Gate(s, "Check offers")

	assert.True(t, sub.Blocked)
	assert.Equal(t, "Please fix the highlighted fields", next.CtaError)
	// empty fields take precedence for scrolling
	assert.Equal(t, "gender", sub.ScrollTo)
	assert.Equal(t, "Select your gender", next.Errors[domain.FieldGender])
}

func TestGate_ErroringFieldIsNotAlsoEmpty(t *testing.T) {
	r := newReducer()
	s := completeState()
	s.PinCode = ""
	s.Errors[domain.FieldPinCode] = "Enter a valid pincode"

	next, sub := r.Gate(s, "Check offers")

	assert.Equal(t, "Please fix the highlighted field", next.CtaError)
	assert.Equal(t, "pinCode", sub.ScrollTo)
	assert.Equal(t, "Enter a valid pincode", next.Errors[domain.FieldPinCode])
}

func TestGate_TermsUnchecked(t *testing.T) {
	r := newReducer()
	s := completeState()
	s.TncChecked = false

	next, sub := r.Gate(s, "Check offers")

	assert.True(t, sub.Blocked)
	assert.Equal(t, "Please accept the terms", next.CtaError)
	assert.Equal(t, "tnc", sub.ScrollTo)
	assert.Equal(t, domain.FlagNo, sub.Analytics.Attributes["EP_CHECKBOX"])
}

func TestGate_MandatoryFieldsFromDefinitions(t *testing.T) {
	r := newReducer()
	s := completeState()
	s.CustomerFullName = ""
	s.MandatoryFields = []domain.FieldKind{domain.FieldPAN}

	_, sub := r.Gate(s, "Check offers")

	assert.True(t, sub.Blocked)
	assert.Equal(t, "customerFullName", sub.ScrollTo)
}

func TestGate_SnapshotAttribute(t *testing.T) {
	r := newReducer()
	next, sub := r.Gate(completeState(), "Check offers")

	assert.Equal(t, domain.AttributeLogSubmitClick, sub.Snapshot.Name)
	assert.Equal(t, "FORM_SUBMIT_CTA", sub.Snapshot.Attributes["type"])
	raw, err := base64.StdEncoding.DecodeString(sub.Snapshot.Attributes["formData"])
	require.NoError(t, err)
	var decoded domain.FormState
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, next, decoded)
}

func TestHandleResponse(t *testing.T) {
	sess := form.Session{ID: "s1", MobileNo: "9876543210"}
	req := domain.VerifyRequest{PAN: "ABCDE1234F"}
	at := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

	ok := &domain.VerifyResponse{StatusCode: 90}
	ok.Data.CustomerDetails = &domain.CustomerDetails{CustomerFullName: "Asha Rao"}
	out := form.HandleResponse(sess, req, ok, at)
	assert.True(t, out.Success)
	assert.Empty(t, out.ErrorType)
	assert.Equal(t, 90, out.StatusCode)
	assert.Equal(t, "9876543210", out.MobileNo)
	assert.Equal(t, "Asha Rao", out.Response.Data.CustomerDetails.CustomerFullName)

	out = form.HandleResponse(sess, req, &domain.VerifyResponse{StatusCode: 95}, at)
	assert.False(t, out.Success)
	assert.Equal(t, domain.ErrorTypeVerifyDetails, out.ErrorType)
	assert.Equal(t, 95, out.StatusCode)

	out = form.HandleResponse(sess, req, nil, at)
	assert.False(t, out.Success)
	assert.Equal(t, 0, out.StatusCode)
	assert.Equal(t, at, out.CreatedAt)
}
