package form

import (
	"context"
	"sync"
	"time"

	"github.com/csg33k/fpr-form/internal/common/errors"
	"github.com/csg33k/fpr-form/internal/common/logger"
	"github.com/csg33k/fpr-form/internal/common/metrics"
	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/ports"
)

// Session identifies the visitor a form belongs to.
type Session struct {
	ID       string
	MobileNo string
}

// Deps are the collaborators of a Service.
type Deps struct {
	States    ports.FormStateStore
	Outcomes  ports.OutcomeStore
	Details   ports.CustomerDetailsSource
	Pincodes  ports.PincodeLookup
	Verifier  ports.Verifier
	Consent   ports.ConsentLogger
	Analytics ports.AnalyticsSink
	Logger    logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service loads, reduces and saves per-session form state and runs the
// effects the reducer asks for. Updates to one session are serialised;
// network calls run outside that critical section.
type Service struct {
	reducer *Reducer
	deps    Deps
	log     logger.Logger
	locks   *keyedMutex
	// background tracks fire-and-forget consent inserts.
	background sync.WaitGroup
}

func NewService(cfg *domain.FormConfig, deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	return &Service{
		reducer: NewReducer(cfg, deps.Now),
		deps:    deps,
		log:     deps.Logger,
		locks:   newKeyedMutex(),
	}
}

// Config returns the field configuration the form renders.
func (s *Service) Config() *domain.FormConfig { return s.reducer.Config() }

// Mount restores the session's snapshot, or starts a fresh form seeded from
// previously verified details when no snapshot exists.
func (s *Service) Mount(ctx context.Context, sess Session) (domain.FormState, error) {
	unlock := s.locks.Lock(sess.ID)
	defer unlock()

	persisted, err := s.deps.States.LoadState(ctx, sess.ID)
	if err != nil {
		return domain.FormState{}, errors.NewStateLoadFailedError(sess.ID, err)
	}
	state, _ := s.reducer.Apply(domain.FormState{}, Mount{Persisted: persisted})
	if persisted != nil {
		return state, nil
	}

	if s.deps.Details != nil && sess.MobileNo != "" {
		details, err := s.deps.Details.CustomerDetails(ctx, sess.MobileNo)
		if err != nil {
			s.log.Warn("customer details unavailable", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		} else if details != nil {
			state, _ = s.reducer.Apply(state, Prefill{Details: *details})
		}
	}
	if err := s.save(ctx, sess.ID, state); err != nil {
		return domain.FormState{}, err
	}
	return state, nil
}

// Dispatch applies ev to the session's state and performs the resulting
// effects. A pincode lookup is awaited so the returned state includes it.
func (s *Service) Dispatch(ctx context.Context, sess Session, ev Event) (domain.FormState, error) {
	state, effects, err := s.update(ctx, sess.ID, func(st domain.FormState) (domain.FormState, []Effect) {
		return s.reducer.Apply(st, ev)
	})
	if err != nil {
		return domain.FormState{}, err
	}

	for _, eff := range effects {
		switch e := eff.(type) {
		case Track:
			s.track(ctx, e.Event)
		case LookupPincode:
			state, err = s.resolvePincode(ctx, sess, e)
			if err != nil {
				return domain.FormState{}, err
			}
		}
	}
	return state, nil
}

func (s *Service) resolvePincode(ctx context.Context, sess Session, e LookupPincode) (domain.FormState, error) {
	resolved := PincodeResolved{Generation: e.Generation}
	result, err := s.deps.Pincodes.LookupPincode(ctx, e.PinCode)
	switch {
	case err != nil:
		resolved.Failed = true
		metrics.PincodeLookups.WithLabelValues("error").Inc()
		s.log.WithError(errors.NewPincodeLookupFailedError(e.PinCode, err)).Error("pincode lookup failed", map[string]interface{}{
			"session_id": sess.ID,
		})
	case result.Resolved():
		resolved.Result = result
		metrics.PincodeLookups.WithLabelValues("resolved").Inc()
	default:
		resolved.Result = result
		metrics.PincodeLookups.WithLabelValues("unresolved").Inc()
	}

	state, _, err := s.update(ctx, sess.ID, func(st domain.FormState) (domain.FormState, []Effect) {
		return s.reducer.Apply(st, resolved)
	})
	return state, err
}

// SubmitResult reports what a submit attempt did.
type SubmitResult struct {
	Submission
	// Outcome is set when the verification call was made.
	Outcome *domain.VerificationOutcome
}

// Submit runs the submission gate and, when it passes, verifies the details,
// records the outcome and logs consent in the background.
func (s *Service) Submit(ctx context.Context, sess Session, ctaText string) (domain.FormState, SubmitResult, error) {
	var sub Submission
	state, _, err := s.update(ctx, sess.ID, func(st domain.FormState) (domain.FormState, []Effect) {
		var next domain.FormState
		next, sub = s.reducer.Gate(st, ctaText)
		return next, nil
	})
	if err != nil {
		return domain.FormState{}, SubmitResult{}, err
	}

	s.track(ctx, sub.Analytics)
	if s.deps.Analytics != nil {
		s.deps.Analytics.LogAttributes(ctx, sub.Snapshot)
	}
	res := SubmitResult{Submission: sub}
	if sub.Blocked {
		metrics.Submissions.WithLabelValues("blocked").Inc()
		return state, res, nil
	}

	resp, verr := s.deps.Verifier.Verify(ctx, *sub.Request)
	if verr != nil {
		verr = errors.NewVerifyDetailsFailedError(verr)
		s.log.WithError(verr).Error("verification failed", map[string]interface{}{"session_id": sess.ID})
		resp = nil
	}
	outcome := HandleResponse(sess, *sub.Request, resp, s.deps.Now())
	res.Outcome = outcome
	if outcome.Success {
		metrics.Submissions.WithLabelValues("verified").Inc()
	} else {
		metrics.Submissions.WithLabelValues("rejected").Inc()
	}

	// the verification already happened; recording it must outlive the request
	done := context.WithoutCancel(ctx)
	if err := s.deps.Outcomes.SaveOutcome(done, outcome); err != nil {
		s.log.Error("failed to record verification outcome", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}

	state, _, err = s.update(done, sess.ID, func(st domain.FormState) (domain.FormState, []Effect) {
		st.Loading = false
		return st, nil
	})
	if err != nil {
		return domain.FormState{}, res, err
	}

	s.logConsent(ctx, sess)
	return state, res, verr
}

// Outcome returns the last verification result of the session, if any.
func (s *Service) Outcome(ctx context.Context, sessionID string) (*domain.VerificationOutcome, error) {
	return s.deps.Outcomes.LatestOutcome(ctx, sessionID)
}

// Wait blocks until background consent inserts have finished.
func (s *Service) Wait() { s.background.Wait() }

func (s *Service) logConsent(ctx context.Context, sess Session) {
	if s.deps.Consent == nil || sess.MobileNo == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if err := s.deps.Consent.InsertConsent(ctx, sess.MobileNo, ConsentIDs, ConsentStatusGiven); err != nil {
			s.log.WithError(errors.NewConsentInsertFailedError(err)).Warn("consent insert failed", map[string]interface{}{
				"session_id": sess.ID,
			})
		}
	}()
}

func (s *Service) track(ctx context.Context, ev domain.AnalyticsEvent) {
	if s.deps.Analytics != nil {
		s.deps.Analytics.Track(ctx, ev)
	}
}

// update runs fn on the session's current state under the session lock and
// persists the result.
func (s *Service) update(ctx context.Context, sessionID string, fn func(domain.FormState) (domain.FormState, []Effect)) (domain.FormState, []Effect, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	current, err := s.deps.States.LoadState(ctx, sessionID)
	if err != nil {
		return domain.FormState{}, nil, errors.NewStateLoadFailedError(sessionID, err)
	}
	var state domain.FormState
	if current != nil {
		state = *current
	} else {
		state = s.reducer.Initial()
	}

	next, effects := fn(state)
	if err := s.save(ctx, sessionID, next); err != nil {
		return domain.FormState{}, nil, err
	}
	return next, effects, nil
}

func (s *Service) save(ctx context.Context, sessionID string, state domain.FormState) error {
	if err := s.deps.States.SaveState(ctx, sessionID, state); err != nil {
		return errors.NewStateSaveFailedError(sessionID, err)
	}
	return nil
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
