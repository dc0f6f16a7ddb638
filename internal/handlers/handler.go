package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/golangcollege/sessions"
	"github.com/justinas/nosurf"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/csg33k/fpr-form/internal/adapters/pdf"
	"github.com/csg33k/fpr-form/internal/common/errors"
	"github.com/csg33k/fpr-form/internal/common/logger"
	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/form"
	"github.com/csg33k/fpr-form/internal/ports"
	"github.com/csg33k/fpr-form/internal/templates"
)

type Handler struct {
	svc     *form.Service
	session *sessions.Session
	log     logger.Logger
	checks  map[string]ports.HealthChecker
}

func New(svc *form.Service, session *sessions.Session, log logger.Logger, checks map[string]ports.HealthChecker) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{svc: svc, session: session, log: log, checks: checks}
}

// NewSessions builds the cookie session manager. secret must be 32 bytes.
func NewSessions(secret string, lifetime time.Duration, secure bool) *sessions.Session {
	s := sessions.New([]byte(secret))
	s.Lifetime = lifetime
	s.Secure = secure
	s.HttpOnly = true
	s.SameSite = http.SameSiteLaxMode
	return s
}

// Handler returns the complete HTTP surface: the form routes behind sessions
// and CSRF protection, plus the unauthenticated metrics and health endpoints.
func (h *Handler) Handler() http.Handler {
	root := http.NewServeMux()
	root.Handle("GET /metrics", promhttp.Handler())
	root.HandleFunc("GET /healthz", h.healthz)
	root.Handle("/", h.session.Enable(h.identify(h.csrf(h.Routes()))))
	return h.logRequests(root)
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /form/outcome", h.outcome)
	mux.HandleFunc("GET /form/summary.pdf", h.summaryPDF)
	mux.HandleFunc("POST /form/focus/{field}", h.focus)
	mux.HandleFunc("POST /form/blur/{field}", h.blur)
	mux.HandleFunc("POST /form/input/{field}", h.input)
	mux.HandleFunc("POST /form/tab/{field}", h.tab)
	mux.HandleFunc("POST /form/clear/{field}", h.clear)
	mux.HandleFunc("POST /form/city", h.city)
	mux.HandleFunc("POST /form/city/popup", h.cityPopup)
	mux.HandleFunc("POST /form/product", h.product)
	mux.HandleFunc("POST /form/product/popup", h.productPopup)
	mux.HandleFunc("POST /form/tnc", h.tnc)
	mux.HandleFunc("POST /form/submit", h.submit)
	return mux
}

// ── Pages ────────────────────────────────────────────────────────────────────

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Mount(r.Context(), h.sessionFor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Page(templates.View{
		Config:    h.svc.Config(),
		State:     state,
		CSRFToken: nosurf.Token(r),
	}))
}

func (h *Handler) outcome(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Outcome(r.Context(), h.sessionFor(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.OutcomePage(h.svc.Config(), out))
}

func (h *Handler) summaryPDF(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Outcome(r.Context(), h.sessionFor(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if out == nil {
		http.Error(w, "nothing submitted yet", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := pdf.GenerateSummary(h.svc.Config(), out, &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("application_summary_%s.pdf", out.CreatedAt.Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// ── Form interactions ────────────────────────────────────────────────────────

// focus answers out of band so the focused input is never replaced.
func (h *Handler) focus(w http.ResponseWriter, r *http.Request) {
	field, err := fieldParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	state, err := h.svc.Dispatch(r.Context(), h.sessionFor(r), form.Focus{Field: field})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.FocusFeedback(state, field))
}

func (h *Handler) blur(w http.ResponseWriter, r *http.Request) {
	field, err := fieldParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.dispatch(w, r, form.Blur{Field: field, Value: r.FormValue(field.String())})
}

// input receives the full candidate text of the field.
func (h *Handler) input(w http.ResponseWriter, r *http.Request) {
	field, err := fieldParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.dispatch(w, r, form.Input{Field: field, Value: r.FormValue(field.String())})
}

func (h *Handler) tab(w http.ResponseWriter, r *http.Request) {
	field, err := fieldParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.dispatch(w, r, form.TabSelect{Field: field, Value: r.FormValue("value")})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	field, err := fieldParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.dispatch(w, r, form.Clear{Field: field})
}

func (h *Handler) city(w http.ResponseWriter, r *http.Request) {
	pos, _ := strconv.Atoi(r.FormValue("position"))
	h.dispatch(w, r, form.CitySelect{City: r.FormValue("city"), Position: pos})
}

func (h *Handler) cityPopup(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, form.CityPopupToggle{})
}

func (h *Handler) product(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, form.ProductSelect{Label: r.FormValue("label")})
}

func (h *Handler) productPopup(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, form.ProductPopupToggle{})
}

func (h *Handler) tnc(w http.ResponseWriter, r *http.Request) {
	checked := r.FormValue(h.svc.Config().TncName) != ""
	h.dispatch(w, r, form.TncToggle{Checked: checked})
}

// submit re-renders the form with its errors when the gate blocks, and sends
// the browser to the outcome page once a verification was attempted.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	ctaText := r.FormValue("ctaText")
	if ctaText == "" {
		ctaText = h.svc.Config().SubmitCtaText
	}
	state, res, err := h.svc.Submit(r.Context(), h.sessionFor(r), ctaText)
	if err != nil && res.Outcome == nil {
		h.fail(w, r, err)
		return
	}
	if res.Blocked {
		if trigger, err := json.Marshal(map[string]string{"scroll-to": res.ScrollTo}); err == nil {
			w.Header().Set("HX-Trigger", string(trigger))
		}
		h.renderForm(w, r, state)
		return
	}
	w.Header().Set("HX-Redirect", "/form/outcome")
	h.renderForm(w, r, state)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, ev form.Event) {
	state, err := h.svc.Dispatch(r.Context(), h.sessionFor(r), ev)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderForm(w, r, state)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, state domain.FormState) {
	render(w, r, templates.Form(templates.View{Config: h.svc.Config(), State: state}))
}

// ── Health ───────────────────────────────────────────────────────────────────

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := map[string]string{}, http.StatusOK
	for name, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			status[name] = err.Error()
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// fail maps service errors to a status code. Only unexpected errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errors.ErrCodeInvalidField) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.log.WithError(err).Error("request failed", map[string]interface{}{
		"method": r.Method,
		"uri":    r.URL.RequestURI(),
		"code":   string(errors.CodeOf(err)),
	})
	http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
}

func fieldParam(r *http.Request) (domain.FieldKind, error) {
	name := r.PathValue("field")
	k, err := domain.ParseFieldKind(name)
	if err != nil {
		return 0, errors.NewInvalidFieldError(name)
	}
	return k, nil
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}
