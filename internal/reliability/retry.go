package reliability

import (
	"context"
	"time"
)

// Policy describes a bounded retry sequence. The same shape is reused by the
// classifier, the reply generator, and the report dispatcher.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Exponential bool
}

// Delay computes the pause before the next attempt. attempt is 1-based:
// Delay(1) is the pause after the first failure. Linear policies grow as
// base*attempt, exponential ones double; both are capped at MaxDelay when set.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay
	if p.Exponential {
		for i := 1; i < attempt; i++ {
			d *= 2
			if p.MaxDelay > 0 && d >= p.MaxDelay {
				return p.MaxDelay
			}
		}
	} else {
		d = p.BaseDelay * time.Duration(attempt)
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Retry runs fn until it succeeds or the policy is exhausted. Once started,
// a sequence runs to completion; only ctx cancellation cuts it short. The
// last error is returned on exhaustion.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// IsRetryableHTTPStatus classifies status codes worth another attempt.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
