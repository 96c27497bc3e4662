package utils

import (
	"context"
	"errors"
	"time"
)

// RetryIf runs fn up to attempts times with exponential backoff capped at max,
// giving up as soon as retryable reports false for an error.
func RetryIf(ctx context.Context, attempts int, initial, max time.Duration, retryable func(error) bool, fn func() error) error {
	if attempts <= 1 {
		return fn()
	}
	d := initial
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
			if d < max {
				d *= 2
				if d > max {
					d = max
				}
			}
		}
		err := fn()
		if err == nil {
			return nil
		}
		if i == attempts-1 || !retryable(err) {
			return err
		}
	}
	return errors.New("retry: exhausted")
}
