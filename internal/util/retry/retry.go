// Package retry reruns provider calls that fail transiently, backing off
// exponentially between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy controls how often and how quickly an operation is rerun.
type Policy struct {
	// MaxAttempts bounds the total number of tries, including the first.
	MaxAttempts int
	// InitialDelay is the pause after the first failure. Every further
	// failure multiplies it by Multiplier, capped at MaxDelay.
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Retryable decides whether a failure is worth another attempt. When
	// nil, everything except errors marked with Fatal is retried.
	Retryable func(error) bool
}

// Option adjusts the policy.
type Option func(*Policy)

// WithMaxAttempts bounds the total number of tries.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		p.MaxAttempts = n
	}
}

// WithInitialDelay sets the pause after the first failure.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.InitialDelay = d
	}
}

// WithMaxDelay caps the pause between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.MaxDelay = d
	}
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(m float64) Option {
	return func(p *Policy) {
		p.Multiplier = m
	}
}

// WithRetryable installs the predicate deciding which failures are rerun.
func WithRetryable(f func(error) bool) Option {
	return func(p *Policy) {
		p.Retryable = f
	}
}

// Do runs op until it succeeds, the policy stops retrying, or ctx is done.
// The last failure is always wrapped in the returned error.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	p := Policy{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	delay := p.InitialDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if IsFatal(err) || (p.Retryable != nil && !p.Retryable(err)) {
			return fmt.Errorf("not retrying after attempt %d: %w", attempt, err)
		}
		if attempt >= p.MaxAttempts {
			return fmt.Errorf("giving up after %d attempts: %w", p.MaxAttempts, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * p.Multiplier)
			if delay > p.MaxDelay {
				delay = p.MaxDelay
			}
		}
	}
}

// FatalError wraps an error to mark it as non-retryable regardless of the
// policy's Retryable predicate.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as non-retryable.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether the error was marked with Fatal.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
