package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return nil
	})
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got: %d", attempts)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithInitialDelay(10*time.Millisecond))
	if err != nil {
		t.Errorf("expected no error after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return errors.New("persistent error")
	}, WithMaxAttempts(3), WithInitialDelay(time.Millisecond))
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_RetryablePredicateStopsEarly(t *testing.T) {
	t.Parallel()
	base := errors.New("access denied")
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return base
	},
		WithInitialDelay(time.Millisecond),
		WithRetryable(func(err error) bool { return false }),
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("non-retryable errors must fail on the first attempt, got %d", attempts)
	}
	if !errors.Is(err, base) {
		t.Errorf("expected wrapped base error, got: %v", err)
	}
}

func TestDo_FatalOverridesRetryable(t *testing.T) {
	t.Parallel()
	base := errors.New("bad input")
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return Fatal(base)
	},
		WithInitialDelay(time.Millisecond),
		WithRetryable(func(err error) bool { return true }),
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("fatal errors must not be retried, got %d attempts", attempts)
	}
	if !errors.Is(err, base) {
		t.Errorf("expected wrapped base error, got: %v", err)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, func() error {
		attempts++
		return errors.New("keep going")
	}, WithInitialDelay(time.Second))
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestFatal_NilPassthrough(t *testing.T) {
	t.Parallel()
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) must be nil")
	}
	if IsFatal(errors.New("plain")) {
		t.Error("plain error must not be fatal")
	}
}
