package httputil

import (
	"context"
	"errors"
	"time"

	tmerrors "github.com/matzehuels/trackermeta/pkg/errors"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 30 * time.Second
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Policy decides how often a failed request is re-issued.
//
// A bounded policy makes at most Attempts calls. An infinite policy keeps
// going until the call succeeds, fails with a non-retryable error, or the
// context is cancelled. The delay starts at BaseDelay and doubles after
// every failure, capped at MaxDelay.
type Policy struct {
	Attempts  int           // Maximum calls for bounded policies (values < 1 mean 1)
	Infinite  bool          // Retry until success, fatal error or cancellation
	BaseDelay time.Duration // First wait between attempts (0 = no wait)
	MaxDelay  time.Duration // Backoff cap (0 = 30s for infinite, uncapped otherwise)
}

// Bounded returns a policy making at most n attempts with default backoff.
func Bounded(n int) Policy {
	return Policy{Attempts: n, BaseDelay: defaultBaseDelay, MaxDelay: defaultMaxDelay}
}

// Unbounded returns the "infinity retry" policy with default backoff.
func Unbounded() Policy {
	return Policy{Infinite: true, BaseDelay: defaultBaseDelay, MaxDelay: defaultMaxDelay}
}

// DefaultPolicy is 3 attempts with 1 second initial delay (doubling each retry).
func DefaultPolicy() Policy { return Bounded(defaultAttempts) }

func (p Policy) attempts() int {
	return max(p.Attempts, 1)
}

func (p Policy) next(delay time.Duration) time.Duration {
	delay *= 2
	limit := p.MaxDelay
	if limit == 0 && p.Infinite {
		limit = defaultMaxDelay
	}
	if limit > 0 && delay > limit {
		return limit
	}
	return delay
}

// Retry executes fn according to p with exponential backoff.
// It only retries errors wrapped with [RetryableError] that do not carry a
// fatal code; other errors are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	return RetryNotify(ctx, p, fn, nil)
}

// Notify is called after a failed attempt that will be retried, with the
// 1-based attempt number and the wait before the next one.
type Notify func(attempt int, delay time.Duration, err error)

// RetryNotify is [Retry] with a callback before every backoff wait.
func RetryNotify(ctx context.Context, p Policy, fn func() error, notify Notify) error {
	delay := p.BaseDelay
	var lastErr error

	for i := 0; p.Infinite || i < p.attempts(); i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if !p.Infinite && i == p.attempts()-1 {
			break
		}
		if notify != nil {
			notify(i+1, delay, lastErr)
		}
		if err := wait(ctx, delay); err != nil {
			return err
		}
		delay = p.next(delay)
	}
	return lastErr
}

// IsRetryable reports whether err was marked transient and is not one of
// the codes that must never be retried.
func IsRetryable(err error) bool {
	if tmerrors.IsFatal(err) {
		return false
	}
	return errors.As(err, new(*RetryableError))
}

func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
