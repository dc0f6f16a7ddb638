// Package httpapi holds the JSON clients for the services the form talks to:
// pincode lookup, details verification and consent logging.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/csg33k/fpr-form/internal/common/metrics"
)

const tracerName = "github.com/csg33k/fpr-form/internal/adapters/httpapi"

// maxBody bounds how much of a reply is read.
const maxBody = 1 << 20

// Client is a timeout-bounded JSON HTTP client shared by the service clients.
type Client struct {
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewClient(timeout time.Duration) *Client {
	return NewClientWith(&http.Client{Timeout: timeout})
}

// NewClientWith wraps an existing *http.Client.
func NewClientWith(hc *http.Client) *Client {
	return &Client{httpClient: hc, tracer: otel.Tracer(tracerName)}
}

// StatusError is returned for non-2xx replies.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected http status %d: %s", e.Service, e.Status, e.Body)
}

// do sends one request with an optional JSON body and decodes a JSON reply
// into out.
func (c *Client) do(ctx context.Context, service, method, url string, in, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, service,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", url),
		),
	)
	start := time.Now()
	status := 0
	defer func() {
		metrics.OutboundDuration.WithLabelValues(service, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", service, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", service, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", service, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", service, err)
	}
	if status < 200 || status > 299 {
		return &StatusError{Service: service, Status: status, Body: string(bytes.TrimSpace(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", service, err)
	}
	return nil
}
