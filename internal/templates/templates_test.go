package templates_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/fieldconfig"
	"github.com/csg33k/fpr-form/internal/form"
	"github.com/csg33k/fpr-form/internal/templates"
)

func loadConfig(t *testing.T) *domain.FormConfig {
	t.Helper()
	cfg, err := fieldconfig.LoadFile("../../configs/fields.json")
	require.NoError(t, err)
	return cfg
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func initialView(t *testing.T) templates.View {
	cfg := loadConfig(t)
	return templates.View{Config: cfg, State: form.NewReducer(cfg, nil).Initial()}
}

func TestPage_IncludesCSRFHeader(t *testing.T) {
	v := initialView(t)
	v.CSRFToken = "tok123"

	html := render(t, templates.Page(v))

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `hx-headers="{&#34;X-CSRF-Token&#34;:&#34;tok123&#34;}"`)
	assert.Contains(t, html, `id="fpr-form"`)
}

func TestForm_MandatoryInputsOnly(t *testing.T) {
	html := render(t, templates.Form(initialView(t)))

	for _, name := range []string{"customerFullName", "pan", "dob", "pinCode", "city"} {
		assert.Contains(t, html, `id="field-`+name+`"`, name)
	}
	assert.NotContains(t, html, `id="field-netMonthlySalary"`)
	assert.NotContains(t, html, `id="field-gstin"`)
	assert.Contains(t, html, `data-name="gender"`)
	assert.Contains(t, html, `data-name="iAmLookingFor"`)
	assert.Contains(t, html, "Select a product")
}

func TestForm_OptionalFieldFollowsEmploymentType(t *testing.T) {
	v := initialView(t)

	v.State.EmploymentType = "Salaried"
	html := render(t, templates.Form(v))
	assert.Contains(t, html, `id="field-netMonthlySalary"`)
	assert.NotContains(t, html, `id="field-gstin"`)
	assert.NotContains(t, html, "rupeesSymbol", "symbol only shows once a salary is typed")

	v.State.NetMonthlySalary = "85000"
	html = render(t, templates.Form(v))
	assert.Contains(t, html, `<p class="rupeesSymbol fs-14-16">₹</p>`)

	v.State.EmploymentType = "Self Employed"
	html = render(t, templates.Form(v))
	assert.Contains(t, html, `id="field-gstin"`)
	assert.NotContains(t, html, `id="field-netMonthlySalary"`)
}

func TestForm_FieldStateMarkers(t *testing.T) {
	v := initialView(t)
	v.State.PAN = "ABCDE1234F"
	v.State.PrefilledFields = []domain.FieldKind{domain.FieldPAN}
	v.State.Errors[domain.FieldDOB] = "You must be between 18 and 60 years old"

	html := render(t, templates.Form(v))

	assert.Contains(t, html, `<span id="state-pan" class="field-state is-prefilled"></span>`)
	assert.Contains(t, html, `<span id="state-dob" class="field-state is-error"></span>`)
	assert.Contains(t, html, "You must be between 18 and 60 years old")
	assert.Contains(t, html, `class="form-input uppercase"`)
	assert.Contains(t, html, `hx-post="/form/clear/pan"`)
	assert.NotContains(t, html, `hx-post="/form/clear/city"`)
}

func TestForm_DisabledCityIsLocked(t *testing.T) {
	v := initialView(t)
	v.State.City = "Bengaluru"

	html := render(t, templates.Form(v))

	assert.Regexp(t, `id="field-city"[^>]*readonly disabled>`, html)
	assert.NotContains(t, html, `hx-post="/form/clear/city"`)
}

func TestForm_CityPopup(t *testing.T) {
	v := initialView(t)
	v.State.CityOptions = []string{"Bengaluru", "Mysuru"}

	html := render(t, templates.Form(v))
	assert.Contains(t, html, `hx-post="/form/city/popup"`)
	assert.NotContains(t, html, `data-name="cityPopup"`)

	v.State.CityPopupOpen = true
	html = render(t, templates.Form(v))
	assert.Contains(t, html, `data-name="cityPopup"`)
	assert.Contains(t, html, `&#34;city&#34;:&#34;Mysuru&#34;`)
	assert.Contains(t, html, `&#34;position&#34;:&#34;2&#34;`)
}

func TestForm_ProductPopup(t *testing.T) {
	v := initialView(t)
	v.State.LookingFor = "Credit card"
	v.State.ProductPopupOpen = true

	html := render(t, templates.Form(v))

	assert.Contains(t, html, "What are you looking for?")
	assert.Contains(t, html, `&#34;label&#34;:&#34;Business loan&#34;`)
	assert.Regexp(t, `checked>Credit card</button>`, html)
	assert.NotContains(t, html, "Select a product")
}

func TestForm_ActiveTab(t *testing.T) {
	v := initialView(t)
	v.State.Gender = "Female"

	html := render(t, templates.Form(v))

	assert.Contains(t, html, `class="calculator-button active" hx-post="/form/tab/gender" hx-vals="{&#34;value&#34;:&#34;Female&#34;}"`)
}

func TestForm_SanitisesConfiguredHTML(t *testing.T) {
	v := initialView(t)
	v.Config.TncText = `I agree to the <a href="/terms">terms</a><script>alert(1)</script>`
	v.Config.InputFields[1].ToolTipDescription = `<b>front</b><img src=x onerror=alert(2)>`

	html := render(t, templates.Form(v))

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "onerror")
	assert.Contains(t, html, "terms</a>")
	assert.Contains(t, html, "<b>front</b>")
}

func TestForm_TooltipImageURLIsFiltered(t *testing.T) {
	v := initialView(t)
	v.Config.InputFields[1].ToolTipImage = "javascript:alert(3)"

	html := render(t, templates.Form(v))

	assert.NotContains(t, html, "javascript:alert(3)")
	assert.Contains(t, html, `src="#ZgotmplZ"`)

	v.Config.InputFields[1].ToolTipImage = "/static/pan-card.png"
	html = render(t, templates.Form(v))
	assert.Contains(t, html, `src="/static/pan-card.png"`)
}

func TestForm_EscapesValues(t *testing.T) {
	v := initialView(t)
	v.State.CustomerFullName = `"><script>x</script>`

	html := render(t, templates.Form(v))

	assert.NotContains(t, html, "<script>x")
	assert.Contains(t, html, `value="&#34;&gt;&lt;script&gt;x&lt;/script&gt;"`)
}

func TestForm_CtaErrorAndLoader(t *testing.T) {
	v := initialView(t)
	html := render(t, templates.Form(v))
	assert.Contains(t, html, `<p id="cta-error" class="error-text hidden"></p>`)
	assert.Contains(t, html, `class="fpr-form__loader htmx-indicator"`)

	v.State.CtaError = "Please accept the terms and conditions to continue"
	v.State.Loading = true
	html = render(t, templates.Form(v))
	assert.Contains(t, html, `<p id="cta-error" class="error-text">Please accept the terms and conditions to continue</p>`)
	assert.Contains(t, html, `class="fpr-form__loader htmx-indicator is-loading"`)
	assert.Contains(t, html, "error-padding")
}

func TestFocusFeedback_OutOfBand(t *testing.T) {
	s := domain.NewFormState()

	html := render(t, templates.FocusFeedback(s, domain.FieldPAN))

	assert.Contains(t, html, `<span id="state-pan" class="field-state" hx-swap-oob="true"></span>`)
	assert.Contains(t, html, `<p id="error-pan" class="fs-12 error-text flex hidden" hx-swap-oob="true"></p>`)
	assert.Contains(t, html, `<p id="cta-error" class="error-text hidden" hx-swap-oob="true"></p>`)
	assert.NotContains(t, html, "<input")
}

func TestOutcomePage(t *testing.T) {
	cfg := loadConfig(t)

	html := render(t, templates.OutcomePage(cfg, nil))
	assert.Contains(t, html, "No details have been submitted yet.")

	ok := &domain.VerificationOutcome{Success: true, StatusCode: 90, Response: &domain.VerifyResponse{StatusCode: 90}}
	ok.Response.Data.ReferenceID = "REF-1"
	html = render(t, templates.OutcomePage(cfg, ok))
	assert.Contains(t, html, "outcome--ok")
	assert.Contains(t, html, "REF-1")
	assert.Contains(t, html, `href="/form/summary.pdf"`)

	failed := &domain.VerificationOutcome{ErrorType: domain.ErrorTypeVerifyDetails, StatusCode: 41}
	html = render(t, templates.OutcomePage(cfg, failed))
	assert.Contains(t, html, "outcome--failed")
	assert.Contains(t, html, "VERIFY_DETAILS &middot; status 41")
}
