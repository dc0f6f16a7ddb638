package handlers_test

import (
	"context"
	"errors"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/fpr-form/internal/adapters/sqlite"
	"github.com/csg33k/fpr-form/internal/analytics"
	"github.com/csg33k/fpr-form/internal/common/logger"
	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/fieldconfig"
	"github.com/csg33k/fpr-form/internal/form"
	"github.com/csg33k/fpr-form/internal/handlers"
	"github.com/csg33k/fpr-form/internal/ports"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubPincodes struct{}

func (stubPincodes) LookupPincode(_ context.Context, pincode string) (domain.PincodeResult, error) {
	if pincode == "560001" {
		return domain.PincodeResult{StatusCode: domain.StatusSuccess, CityName: "Bengaluru"}, nil
	}
	return domain.PincodeResult{StatusCode: 44}, nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, req domain.VerifyRequest) (*domain.VerifyResponse, error) {
	resp := &domain.VerifyResponse{StatusCode: domain.StatusSuccess}
	resp.Data.ReferenceID = "REF-42"
	return resp, nil
}

type recordingConsent struct {
	mu      sync.Mutex
	mobiles []string
}

func (c *recordingConsent) InsertConsent(_ context.Context, mobileNo string, _ []string, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mobiles = append(c.mobiles, mobileNo)
	return nil
}

type failingCheck struct{}

func (failingCheck) Ping(context.Context) error { return errors.New("connection refused") }

type harness struct {
	t       *testing.T
	server  *httptest.Server
	client  *http.Client
	svc     *form.Service
	consent *recordingConsent
	token   string
}

func newHarness(t *testing.T, checks map[string]ports.HealthChecker) *harness {
	t.Helper()
	cfg, err := fieldconfig.LoadFile("../../configs/fields.json")
	require.NoError(t, err)

	repo, err := sqlite.New(filepath.Join(t.TempDir(), "fpr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	if checks == nil {
		checks = map[string]ports.HealthChecker{"sqlite": repo}
	}

	consent := &recordingConsent{}
	svc := form.NewService(cfg, form.Deps{
		States:    repo,
		Outcomes:  repo,
		Details:   repo,
		Pincodes:  stubPincodes{},
		Verifier:  stubVerifier{},
		Consent:   consent,
		Analytics: analytics.NewSink(logger.NewNoOpLogger()),
		Logger:    logger.NewTestLogger(t),
		Now:       func() time.Time { return time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC) },
	})
	h := handlers.New(svc, handlers.NewSessions(testSecret, time.Hour, false), logger.NewTestLogger(t), checks)

	server := httptest.NewServer(h.Handler())
	t.Cleanup(server.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &harness{
		t:       t,
		server:  server,
		client:  &http.Client{Jar: jar},
		svc:     svc,
		consent: consent,
	}
}

var csrfTokenRX = regexp.MustCompile(`X-CSRF-Token&#34;:&#34;(.+?)&#34;`)

// open loads the page and keeps the CSRF token it carries.
func (h *harness) open(query string) string {
	h.t.Helper()
	res, err := h.client.Get(h.server.URL + "/" + query)
	require.NoError(h.t, err)
	body := readBody(h.t, res)
	require.Equal(h.t, http.StatusOK, res.StatusCode, body)

	m := csrfTokenRX.FindStringSubmatch(body)
	require.Len(h.t, m, 2, "page carries a csrf token")
	h.token = html.UnescapeString(m[1])
	return body
}

func (h *harness) post(path string, values url.Values) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, strings.NewReader(values.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	if h.token != "" {
		req.Header.Set("X-CSRF-Token", h.token)
	}
	res, err := h.client.Do(req)
	require.NoError(h.t, err)
	return res, readBody(h.t, res)
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	res, err := h.client.Get(h.server.URL + path)
	require.NoError(h.t, err)
	return res, readBody(h.t, res)
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestIndex_RendersForm(t *testing.T) {
	h := newHarness(t, nil)

	body := h.open("")

	assert.Contains(t, body, `<form id="fpr-form"`)
	assert.Contains(t, body, "Tell us a little about yourself")
	assert.Contains(t, body, `id="field-pan"`)
}

func TestIndex_UnknownPathIsNotFound(t *testing.T) {
	h := newHarness(t, nil)

	res, _ := h.get("/nope")

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestInput_MasksPAN(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	res, body := h.post("/form/input/pan", url.Values{"pan": {"abcde12"}})

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `value="ABCDE12"`)
	assert.Contains(t, body, `inputmode="numeric"`)
}

func TestInput_RejectedKeystrokeKeepsValue(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	h.post("/form/input/customerFullName", url.Values{"customerFullName": {"Asha"}})
	_, body := h.post("/form/input/customerFullName", url.Values{"customerFullName": {"Asha9"}})

	assert.Contains(t, body, `value="Asha"`)
}

func TestInput_PincodeResolvesCity(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	_, body := h.post("/form/input/pinCode", url.Values{"pinCode": {"560001"}})
	assert.Regexp(t, `id="field-city"[^>]*value="Bengaluru"`, body)

	_, body = h.post("/form/input/pinCode", url.Values{"pinCode": {"999999"}})
	assert.Contains(t, body, "We could not find a city for this pincode")
	assert.Contains(t, body, "Please enter a valid pincode")
}

func TestInput_SelectionFieldIgnoresFreeText(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	res, body := h.post("/form/input/gender", url.Values{"gender": {"Bogus<script>"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, body, "Bogus")
	assert.NotContains(t, body, "calculator-button active")

	_, body = h.post("/form/submit", url.Values{"ctaText": {"Check my offers"}})
	assert.Contains(t, body, "Please select your gender")
}

func TestBlur_ShowsFieldError(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	_, body := h.post("/form/blur/customerFullName", url.Values{"customerFullName": {""}})

	assert.Contains(t, body, "Please enter your full name")
}

func TestFocus_RespondsOutOfBand(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")
	h.post("/form/blur/pan", url.Values{"pan": {""}})

	res, body := h.post("/form/focus/pan", nil)

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `<p id="error-pan" class="fs-12 error-text flex hidden" hx-swap-oob="true"></p>`)
	assert.NotContains(t, body, "<form")
}

func TestUnknownField_BadRequest(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	res, body := h.post("/form/input/favouriteColour", url.Values{"favouriteColour": {"red"}})

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "INVALID_FIELD")
}

func TestPost_WithoutCSRFTokenIsForbidden(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")
	h.token = ""

	res, _ := h.post("/form/tnc", url.Values{"tnc": {"on"}})

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestTabsAndProduct(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	_, body := h.post("/form/tab/employmentType", url.Values{"value": {"Self Employed"}})
	assert.Contains(t, body, `id="field-gstin"`)

	_, body = h.post("/form/product/popup", nil)
	assert.Contains(t, body, "What are you looking for?")

	_, body = h.post("/form/product", url.Values{"label": {"Credit card"}})
	assert.NotContains(t, body, "What are you looking for?")
	assert.Contains(t, body, "Credit card")
}

func TestSubmit_BlockedScrollsToFirstEmptyField(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	res, body := h.post("/form/submit", url.Values{"ctaText": {"Check my offers"}})

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"scroll-to":"customerFullName"}`, res.Header.Get("HX-Trigger"))
	assert.Empty(t, res.Header.Get("HX-Redirect"))
	assert.Contains(t, body, "Please correct the highlighted fields")
	assert.Contains(t, body, "Please enter your full name")
}

func TestSubmit_VerifiedFlow(t *testing.T) {
	h := newHarness(t, nil)
	h.open("?mobileNo=9876543210")

	res, _ := h.get("/form/summary.pdf")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	steps := []struct {
		path   string
		values url.Values
	}{
		{"/form/input/customerFullName", url.Values{"customerFullName": {"Asha Rao"}}},
		{"/form/input/pan", url.Values{"pan": {"ABCDE1234F"}}},
		{"/form/input/dob", url.Values{"dob": {"15/06/1990"}}},
		{"/form/input/pinCode", url.Values{"pinCode": {"560001"}}},
		{"/form/tab/gender", url.Values{"value": {"Female"}}},
		{"/form/tab/employmentType", url.Values{"value": {"Salaried"}}},
		{"/form/input/netMonthlySalary", url.Values{"netMonthlySalary": {"85000"}}},
		{"/form/tnc", url.Values{"tnc": {"on"}}},
	}
	for _, s := range steps {
		res, body := h.post(s.path, s.values)
		require.Equal(t, http.StatusOK, res.StatusCode, "%s: %s", s.path, body)
	}

	res, _ = h.post("/form/submit", url.Values{"ctaText": {"Check my offers"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/form/outcome", res.Header.Get("HX-Redirect"))

	_, body := h.get("/form/outcome")
	assert.Contains(t, body, "Details verified")
	assert.Contains(t, body, "REF-42")

	res, pdfBody := h.get("/form/summary.pdf")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(pdfBody, "%PDF-"))

	h.svc.Wait()
	h.consent.mu.Lock()
	defer h.consent.mu.Unlock()
	assert.Equal(t, []string{"9876543210"}, h.consent.mobiles)
}

func TestSession_StateSurvivesReload(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")
	h.post("/form/input/customerFullName", url.Values{"customerFullName": {"Asha"}})

	body := h.open("")

	assert.Contains(t, body, `value="Asha"`)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, nil)
	res, body := h.get("/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"sqlite":"ok"}`, body)

	down := newHarness(t, map[string]ports.HealthChecker{"redis": failingCheck{}})
	res, body = down.get("/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.JSONEq(t, `{"redis":"connection refused"}`, body)
}

func TestMetrics(t *testing.T) {
	h := newHarness(t, nil)
	h.open("")

	res, body := h.get("/metrics")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "fprform_http_requests_total")
}
