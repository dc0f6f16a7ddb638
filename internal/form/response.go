package form

import (
	"time"

	"github.com/csg33k/fpr-form/internal/domain"
)

// ConsentIDs are recorded against the customer after every submission.
var ConsentIDs = []string{"TnC-CPR", "EXPERIAN-CPR"}

// ConsentStatusGiven marks consents as accepted.
const ConsentStatusGiven = "Y"

// HandleResponse classifies a verification reply. A nil resp is a transport
// failure and is recorded with status code 0.
func HandleResponse(sess Session, req domain.VerifyRequest, resp *domain.VerifyResponse, now time.Time) *domain.VerificationOutcome {
	out := &domain.VerificationOutcome{
		SessionID: sess.ID,
		MobileNo:  sess.MobileNo,
		Request:   req,
		Response:  resp,
		CreatedAt: now.UTC(),
	}
	if resp != nil {
		out.StatusCode = resp.StatusCode
	}
	if resp != nil && resp.StatusCode == domain.StatusSuccess {
		out.Success = true
		return out
	}
	out.ErrorType = domain.ErrorTypeVerifyDetails
	return out
}
