// Copyright (c) StackSpot. All rights reserved.

package stackspot

import (
	"context"
	"time"
)

// RetryConfig bounds the retry behavior for transient failures: HTTP 5xx,
// transport errors, and per-call timeouts. Definitive rejections (non-401
// 4xx, expired presigned forms) are never retried.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries int
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration
	// MaxInterval caps the exponential backoff delay.
	MaxInterval time.Duration
}

// DefaultRetryConfig returns sensible defaults for platform API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// next returns the backoff delay following the given one.
func (rc RetryConfig) next(d time.Duration) time.Duration {
	d *= 2
	if d > rc.MaxInterval {
		d = rc.MaxInterval
	}
	return d
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
