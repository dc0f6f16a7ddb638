package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/csg33k/fpr-form/internal/domain"
)

// ── Pincode lookup ────────────────────────────────────────────────────────────

type PincodeClient struct {
	c       *Client
	baseURL string
}

func NewPincodeClient(c *Client, baseURL string) *PincodeClient {
	return &PincodeClient{c: c, baseURL: baseURL}
}

type pincodeReply struct {
	StatusCode int `json:"statusCode"`
	Data       struct {
		CityName string `json:"cityName"`
	} `json:"data"`
}

// LookupPincode asks for the city of pincode. A non-90 status is returned as
// a result, not an error.
func (p *PincodeClient) LookupPincode(ctx context.Context, pincode string) (domain.PincodeResult, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return domain.PincodeResult{}, fmt.Errorf("pincode: bad url: %w", err)
	}
	q := u.Query()
	q.Set("pincode", pincode)
	u.RawQuery = q.Encode()

	var reply pincodeReply
	if err := p.c.do(ctx, "pincode.lookup", http.MethodGet, u.String(), nil, &reply); err != nil {
		return domain.PincodeResult{}, err
	}
	return domain.PincodeResult{StatusCode: reply.StatusCode, CityName: reply.Data.CityName}, nil
}

// ── Verification ──────────────────────────────────────────────────────────────

type VerifyClient struct {
	c   *Client
	url string
}

func NewVerifyClient(c *Client, url string) *VerifyClient {
	return &VerifyClient{c: c, url: url}
}

func (v *VerifyClient) Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResponse, error) {
	var resp domain.VerifyResponse
	if err := v.c.do(ctx, "details.verify", http.MethodPost, v.url, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── Consent ───────────────────────────────────────────────────────────────────

type ConsentClient struct {
	c   *Client
	url string
}

func NewConsentClient(c *Client, url string) *ConsentClient {
	return &ConsentClient{c: c, url: url}
}

type consentRequest struct {
	MobileNo      string   `json:"mobileNo"`
	ConsentIDList []string `json:"consentIdList"`
	ConsentStatus string   `json:"consentStatus"`
}

type consentReply struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (c *ConsentClient) InsertConsent(ctx context.Context, mobileNo string, consentIDs []string, status string) error {
	var reply consentReply
	err := c.c.do(ctx, "consent.insert", http.MethodPost, c.url, consentRequest{
		MobileNo:      mobileNo,
		ConsentIDList: consentIDs,
		ConsentStatus: status,
	}, &reply)
	if err != nil {
		return err
	}
	if reply.StatusCode != domain.StatusSuccess {
		return fmt.Errorf("consent.insert: status %d: %s", reply.StatusCode, reply.Message)
	}
	return nil
}
