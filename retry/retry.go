// Package retry wraps cenkalti/backoff for the few calls that are retried
// before an error reaches the user.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const DefaultInitialInterval = 300 * time.Millisecond

// Policy runs op, retrying transient failures.
type Policy func(ctx context.Context, op func() error) error

// Once runs op and retries it a single time after a backoff pause.
func Once(ctx context.Context, op func() error) error {
	return Do(ctx, 1, DefaultInitialInterval, op)
}

// Do runs op with up to retries extra attempts, starting at initial and
// growing exponentially. Errors wrapped with Permanent are not retried.
func Do(ctx context.Context, retries uint64, initial time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxElapsedTime = 0
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx))
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// OnceWith returns a Policy retrying once after initial. Tests use a tiny interval.
func OnceWith(initial time.Duration) Policy {
	return func(ctx context.Context, op func() error) error {
		return Do(ctx, 1, initial, op)
	}
}
