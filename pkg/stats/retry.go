package stats

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds repeated attempts against a single source.
//
// The defaults are deliberately minimal: most source failures here come
// from inherent access restriction rather than transient load, so rapid
// retry burns latency budget without improving the odds.
type RetryPolicy struct {
	MaxRetries int           // retries after the first attempt
	Backoff    time.Duration // fixed delay between attempts

	// Sleep waits for d or until ctx is done. Nil uses a real timer;
	// tests inject a fake to avoid wall-clock delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns the production policy: one retry after a
// short fixed backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 1,
		Backoff:    500 * time.Millisecond,
	}
}

// permanentError marks a failure that retrying cannot fix, such as an
// empty upstream result or an open circuit breaker.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn up to 1+MaxRetries times, sleeping Backoff between attempts.
// It returns nil on the first success, the last error otherwise. Context
// cancellation and Permanent errors cut the loop short.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.Backoff); err != nil {
				return lastErr
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
