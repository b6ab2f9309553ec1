package resilience

import (
	"context"
	"time"
)

// Retry calls fn up to policy.Attempts times, sleeping policy.Delay between attempts.
// It stops early when fn succeeds, when retryable reports false, or when ctx is done.
// The last error is returned together with the number of attempts made.
func Retry(ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func(context.Context) error) (int, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return attempt, nil
		}
		if attempt == attempts || (retryable != nil && !retryable(err)) {
			return attempt, err
		}
		if policy.Delay <= 0 {
			continue
		}

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}
	return attempts, err
}
