package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
)

const (
	// DefaultTimeout is the hard wall-clock budget for a single attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts bounds the retry loop (total attempts, not retries).
	DefaultMaxAttempts = 2

	// DefaultBaseDelay seeds the linear backoff: delay = base * attemptNumber.
	DefaultBaseDelay = 500 * time.Millisecond
)

// Client kirim DispatchPayload ke analysis engine lewat HTTP POST.
// Implements domain.WebhookSender.
type Client struct {
	Endpoint    string
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

func New(endpoint string) *Client {
	return &Client{
		Endpoint:    endpoint,
		HTTPClient:  &http.Client{},
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// Send serializes the payload and posts it, retrying only network-level
// failures. An HTTP response of any status, and a timeout, both end the loop:
// the engine may already have accepted the job, and re-posting verbatim
// risks a duplicate remote submission. The returned error is reserved for
// programmer errors; delivery failures live in the outcome.
func (c *Client) Send(ctx context.Context, p *domain.DispatchPayload) (domain.DispatchOutcome, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return domain.DispatchOutcome{}, fmt.Errorf("marshal payload: %w", err)
	}

	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var out domain.DispatchOutcome
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out = c.attempt(ctx, body)
		if !out.Retryable() || attempt == maxAttempts {
			break
		}
		// linear backoff sebelum attempt berikutnya
		delay := c.baseDelay() * time.Duration(attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return out, nil
		}
	}
	return out, nil
}

// attempt melakukan satu kali POST dengan timeout sendiri
func (c *Client) attempt(ctx context.Context, body []byte) domain.DispatchOutcome {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.DispatchOutcome{Kind: domain.OutcomeNetworkError, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.DispatchOutcome{Kind: domain.OutcomeTimeout, Cause: err}
		}
		return domain.DispatchOutcome{Kind: domain.OutcomeNetworkError, Cause: err}
	}
	defer resp.Body.Close()

	// body dibaca best-effort; kalau gagal tetap report outcome tanpa body
	var text string
	if b, rerr := io.ReadAll(resp.Body); rerr == nil {
		text = string(b)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return domain.DispatchOutcome{Kind: domain.OutcomeSuccess, StatusCode: resp.StatusCode, Body: text}
	}
	return domain.DispatchOutcome{Kind: domain.OutcomeHTTPError, StatusCode: resp.StatusCode, Body: text}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) baseDelay() time.Duration {
	if c.BaseDelay > 0 {
		return c.BaseDelay
	}
	return DefaultBaseDelay
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
