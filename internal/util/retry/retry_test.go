package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := WithExponentialBackoff(context.Background(), operation)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("throttled")
		}
		return nil
	}

	err := WithExponentialBackoff(context.Background(), operation, WithInitialDelay(10*time.Millisecond))

	if err != nil {
		t.Errorf("Expected no error after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("persistent error")
	}

	maxRetries := 3
	err := WithExponentialBackoff(context.Background(), operation,
		WithMaxRetries(maxRetries),
		WithInitialDelay(10*time.Millisecond))

	if err == nil {
		t.Error("Expected error after max retries, got nil")
	}
	// MaxRetries counts retries after the first attempt.
	if attempts != maxRetries+1 {
		t.Errorf("Expected %d attempts (1 + %d retries), got: %d", maxRetries+1, maxRetries, attempts)
	}
}

func TestWithExponentialBackoff_ContextCancellation(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithExponentialBackoff(ctx, operation, WithInitialDelay(10*time.Millisecond))

	if err == nil {
		t.Error("Expected error due to context cancellation, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before context check, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_ContextTimeout(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := WithExponentialBackoff(ctx, operation,
		WithInitialDelay(100*time.Millisecond),
		WithMaxRetries(10))

	if err == nil {
		t.Error("Expected error due to context timeout, got nil")
	}
	if attempts > 2 {
		t.Errorf("Expected at most 2 attempts before timeout, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_PermanentError(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return Permanent(errors.New("instance type not offered"))
	}

	err := WithExponentialBackoff(context.Background(), operation, WithInitialDelay(10*time.Millisecond))

	if err == nil {
		t.Error("Expected permanent error, got nil")
	}
	if !IsPermanent(err) {
		t.Errorf("Expected permanent error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt (no retries for permanent error), got: %d", attempts)
	}
}

func TestWithExponentialBackoff_DelayCappedAtMax(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration
	lastTime := time.Now()

	operation := func() error {
		attempts++
		now := time.Now()
		if attempts > 1 {
			delays = append(delays, now.Sub(lastTime))
		}
		lastTime = now
		if attempts < 5 {
			return errors.New("error")
		}
		return nil
	}

	_ = WithExponentialBackoff(context.Background(), operation,
		WithInitialDelay(10*time.Millisecond),
		WithMaxDelay(20*time.Millisecond))

	maxDelay := 20 * time.Millisecond
	tolerance := 15 * time.Millisecond
	for i, delay := range delays {
		if delay > maxDelay+tolerance {
			t.Errorf("Delay %d exceeded max: %v > %v", i+1, delay, maxDelay)
		}
	}
}

func TestPermanent(t *testing.T) {
	t.Parallel()
	t.Run("Nil error", func(t *testing.T) {
		t.Parallel()
		if err := Permanent(nil); err != nil {
			t.Errorf("Expected nil, got: %v", err)
		}
	})

	t.Run("Non-nil error", func(t *testing.T) {
		t.Parallel()
		originalErr := errors.New("test error")
		err := Permanent(originalErr)

		if err == nil {
			t.Fatal("Expected non-nil error")
		}
		if !IsPermanent(err) {
			t.Error("Expected error to be permanent")
		}
		if err.Error() != originalErr.Error() {
			t.Errorf("Expected error message %q, got %q", originalErr.Error(), err.Error())
		}
	})
}

func TestIsPermanent(t *testing.T) {
	t.Parallel()
	t.Run("Transient error", func(t *testing.T) {
		t.Parallel()
		if IsPermanent(errors.New("regular error")) {
			t.Error("Expected transient error")
		}
	})

	t.Run("Permanent error", func(t *testing.T) {
		t.Parallel()
		if !IsPermanent(Permanent(errors.New("bad request"))) {
			t.Error("Expected permanent error")
		}
	})

	t.Run("Wrapped permanent error", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("quota exceeded")
		wrapped := fmt.Errorf("launching instance: %w", Permanent(sentinel))

		if !IsPermanent(wrapped) {
			t.Error("IsPermanent should detect PermanentError through fmt.Errorf wrapping")
		}
		if !errors.Is(wrapped, sentinel) {
			t.Error("errors.Is should find sentinel through PermanentError.Unwrap()")
		}
	})
}
