package queue

import (
	"context"
	"fmt"
	"time"
)

// retryBaseDelay is multiplied by the attempt number between attempts.
var retryBaseDelay = 500 * time.Millisecond

// retry calls fn up to attempts times with linear backoff, stopping early if ctx ends.
func retry[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(retryBaseDelay * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
