package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thedefenders/honeytrap/internal/reliability"
)

var ErrNoCallbackURL = errors.New("final callback URL not configured")

// Dispatcher delivers final reports to the configured callback endpoint,
// retrying per policy. It never runs on the message-intake path.
type Dispatcher struct {
	url    string
	client *http.Client
	policy reliability.Policy
}

// DefaultPolicy mirrors the dispatch contract: three attempts with linear
// 600ms backoff.
var DefaultPolicy = reliability.Policy{
	MaxAttempts: 3,
	BaseDelay:   600 * time.Millisecond,
}

func NewDispatcher(url string, policy reliability.Policy) *Dispatcher {
	return &Dispatcher{
		url: strings.TrimSpace(url),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		policy: policy,
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("callback http status %d: %s", e.code, e.body)
}

// Dispatch posts the report, retrying transient failures. Non-retryable
// statuses abort the sequence; exhaustion returns the last error and the
// caller treats it as terminal for the session.
func (d *Dispatcher) Dispatch(ctx context.Context, rep Report) error {
	if d.url == "" {
		return ErrNoCallbackURL
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	attempts := d.policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = d.send(ctx, payload)
		if lastErr == nil {
			return nil
		}
		var se *statusError
		if errors.As(lastErr, &se) && !reliability.IsRetryableHTTPStatus(se.code) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(d.policy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func (d *Dispatcher) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return &statusError{code: res.StatusCode, body: string(snippet)}
	}
	return nil
}
