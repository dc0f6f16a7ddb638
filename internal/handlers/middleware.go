package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/justinas/nosurf"

	"github.com/csg33k/fpr-form/internal/common/metrics"
	"github.com/csg33k/fpr-form/internal/form"
)

const (
	sessionIDKey = "sessionID"
	mobileNoKey  = "mobileNo"
)

// The mobile number arrives from the login hand-off as ?mobileNo= on the
// first page load.
var mobileNoPattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// identify gives every visitor a session id and remembers the mobile number
// the consent log is keyed by.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.session.Exists(r, sessionIDKey) {
			h.session.Put(r, sessionIDKey, uuid.NewString())
		}
		if r.Method == http.MethodGet {
			if m := r.URL.Query().Get(mobileNoKey); mobileNoPattern.MatchString(m) {
				h.session.Put(r, mobileNoKey, m)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) sessionFor(r *http.Request) form.Session {
	return form.Session{
		ID:       h.session.GetString(r, sessionIDKey),
		MobileNo: h.session.GetString(r, mobileNoKey),
	}
}

// csrf rejects unsafe requests lacking the token rendered into the page.
func (h *Handler) csrf(next http.Handler) http.Handler {
	c := nosurf.New(next)
	c.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.Warn("csrf check failed", map[string]interface{}{
			"uri":       r.URL.RequestURI(),
			"remote_ip": r.RemoteAddr,
			"reason":    errString(nosurf.Reason(r)),
		})
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	}))
	return c
}

// logRequests logs details about incoming HTTP requests.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		h.log.Info("received request", map[string]interface{}{
			"remote_ip":   r.RemoteAddr,
			"proto":       r.Proto,
			"method":      r.Method,
			"uri":         r.URL.RequestURI(),
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
