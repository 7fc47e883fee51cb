package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a remote backend cannot be reached.
var ErrNetwork = errors.New("network error")

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. It returns nil for a nil err, so a
// call result can be passed straight through.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries transient failures, doubling Delay after each attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// retryDelay is the first interval of the backoff used by backends.
var retryDelay = time.Second

// Do calls fn until it succeeds, returns an error not marked [Retryable],
// or runs out of attempts. The last error is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

// RetryWithBackoff runs fn with three attempts starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Backoff{Attempts: 3, Delay: retryDelay}.Do(ctx, fn)
}
