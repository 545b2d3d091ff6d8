package reliability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDelayLinear(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{0, 100 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := p.Delay(tc.attempt); got != tc.want {
			t.Fatalf("Delay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestDelayExponentialCapped(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Exponential: true}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{4, 300 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := p.Delay(tc.attempt); got != tc.want {
			t.Fatalf("Delay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestRetrySucceedsMidSequence(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0
	err := Retry(context.Background(), p, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry err = %v, want nil", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	wantErr := errors.New("still down")
	calls := 0
	err := Retry(context.Background(), p, func(context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("retry err = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Retry(ctx, p, func(context.Context) error {
		calls++
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("retry err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), Policy{}, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Fatalf("err = %v calls = %d, want nil and 1", err, calls)
	}
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		if !IsRetryableHTTPStatus(code) {
			t.Fatalf("IsRetryableHTTPStatus(%d) = false, want true", code)
		}
	}
	for _, code := range []int{200, 201, 400, 401, 404, 422} {
		if IsRetryableHTTPStatus(code) {
			t.Fatalf("IsRetryableHTTPStatus(%d) = true, want false", code)
		}
	}
}
