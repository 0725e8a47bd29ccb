// Package httputil provides the retry machinery used by the archive
// transport.
//
// # Retry
//
// [Retry] re-issues a request according to a [Policy]:
//
//   - [Bounded]: at most N attempts, then the last error is returned
//   - [Unbounded]: "infinity retry", loops until success
//
// Only transient failures are retried. The transport marks those by wrapping
// them in [RetryableError]:
//
//   - Network errors and timeouts
//   - 5xx server errors
//   - 429 rate limit responses
//
// Errors with a fatal code from pkg/errors (invalid API key, bad request,
// not found, document structure errors) are returned after the first
// attempt even under an unbounded policy.
//
// Backoff doubles from BaseDelay and is capped at MaxDelay. Every wait
// observes the context, so an unbounded loop is stopped by cancelling it:
//
//	ctx, cancel := context.WithTimeout(ctx, time.Minute)
//	defer cancel()
//	err := httputil.Retry(ctx, httputil.Unbounded(), func() error {
//	    return fetch(ctx)
//	})
//
// # Configuration
//
// Default settings:
//
//   - Max attempts: 3
//   - Base backoff: 1 second
//   - Backoff cap: 30 seconds
package httputil
