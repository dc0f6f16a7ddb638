package ports

import (
	"context"

	"github.com/csg33k/fpr-form/internal/domain"
)

// FormStateStore persists one form snapshot per session.
type FormStateStore interface {
	// LoadState returns nil, nil when the session has no snapshot yet.
	LoadState(ctx context.Context, sessionID string) (*domain.FormState, error)
	SaveState(ctx context.Context, sessionID string, s domain.FormState) error
	DeleteState(ctx context.Context, sessionID string) error
}

// OutcomeStore keeps the verification result shared with the screens after the form.
type OutcomeStore interface {
	SaveOutcome(ctx context.Context, o *domain.VerificationOutcome) error
	// LatestOutcome returns nil, nil when nothing was submitted yet.
	LatestOutcome(ctx context.Context, sessionID string) (*domain.VerificationOutcome, error)
}

// CustomerDetailsSource supplies previously verified details for prefill.
type CustomerDetailsSource interface {
	// CustomerDetails returns nil, nil when the customer is unknown.
	CustomerDetails(ctx context.Context, mobileNo string) (*domain.CustomerDetails, error)
}

// PincodeLookup resolves a pincode to its city.
type PincodeLookup interface {
	LookupPincode(ctx context.Context, pincode string) (domain.PincodeResult, error)
}

// Verifier submits the collected details for verification.
type Verifier interface {
	Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResponse, error)
}

// ConsentLogger records the consents given with a submission.
type ConsentLogger interface {
	InsertConsent(ctx context.Context, mobileNo string, consentIDs []string, status string) error
}

// AnalyticsSink receives data-layer events and attribute logs.
type AnalyticsSink interface {
	Track(ctx context.Context, ev domain.AnalyticsEvent)
	LogAttributes(ctx context.Context, log domain.AttributeLog)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
