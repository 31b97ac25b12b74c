// Package retry provides a capped exponential backoff helper for external
// API calls. The schedule defaults are tunable, not a contract.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Config holds the backoff schedule and the retry predicate.
type Config struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	retryIf      func(error) bool
}

// Option configures a single Do call.
type Option func(*Config)

// WithMaxRetries sets how many times the call is retried after the first
// attempt.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithRetryIf limits retries to errors matching the predicate. Errors that
// do not match are returned immediately.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *Config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		maxRetries:   3,
		initialDelay: 2 * time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
		retryIf:      func(error) bool { return true },
	}
}

// Do runs fn, retrying failed attempts with exponential backoff. It stops on
// success, on a non-retryable error, when attempts are exhausted, or when
// ctx is cancelled (including during a backoff sleep).
func Do(ctx context.Context, fn func() error, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !cfg.retryIf(lastErr) {
			return lastErr
		}

		if attempt >= cfg.maxRetries {
			break
		}

		timer := time.NewTimer(delayFor(attempt+1, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempt+1, cfg.maxRetries, ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("retry failed after %d attempts: %w", cfg.maxRetries+1, lastErr)
}

// delayFor returns initialDelay * multiplier^(attempt-1), capped at maxDelay.
func delayFor(attempt int, cfg *Config) time.Duration {
	delay := float64(cfg.initialDelay) * math.Pow(cfg.multiplier, float64(attempt-1))
	if time.Duration(delay) > cfg.maxDelay {
		return cfg.maxDelay
	}
	return time.Duration(delay)
}
