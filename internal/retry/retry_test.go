package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	boom := errors.New("still failing")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return boom
	}, WithMaxRetries(2), WithInitialDelay(time.Millisecond))

	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped original error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", calls)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	fatal := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return fatal
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond), WithRetryIf(func(err error) bool {
		return !errors.Is(err, fatal)
	}))

	if !errors.Is(err, fatal) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retries, got %d calls", calls)
	}
}

func TestDoRespectsContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func() error {
		calls++
		return errors.New("transient")
	}, WithMaxRetries(3), WithInitialDelay(time.Minute))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestDelayForGrowthAndCap(t *testing.T) {
	cfg := defaultConfig()
	cfg.initialDelay = time.Second
	cfg.maxDelay = 5 * time.Second
	cfg.multiplier = 2.0

	if d := delayFor(1, cfg); d != time.Second {
		t.Fatalf("attempt 1: expected 1s, got %v", d)
	}
	if d := delayFor(2, cfg); d != 2*time.Second {
		t.Fatalf("attempt 2: expected 2s, got %v", d)
	}
	if d := delayFor(10, cfg); d != 5*time.Second {
		t.Fatalf("attempt 10: expected cap of 5s, got %v", d)
	}
}
