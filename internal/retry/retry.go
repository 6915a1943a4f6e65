// Package retry wraps fallible remote operations with bounded attempts and
// exponential backoff.
//
// Two exhaustion behaviors exist on purpose and must not be unified: Do
// propagates the final error (used for agent-config creation, where the
// caller reports it and keeps its interactive loop alive), while DoFallback
// swallows it and returns a fixed fallback string (used for turn execution,
// where the user should see something rather than a stack of errors).
package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Policy bounds the retry loop.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; it doubles for each
	// attempt after that. No jitter.
	BaseDelay time.Duration
}

// DefaultPolicy matches the demo defaults: three attempts starting at one
// second.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// delayBefore returns the wait preceding attempt n (n >= 2).
func (p Policy) delayBefore(n int) time.Duration {
	return p.BaseDelay << (n - 2)
}

// Do runs fn up to p.MaxAttempts times. On success it returns fn's value;
// once attempts are exhausted it returns the last error.
func Do[T any](ctx context.Context, logger *zap.Logger, p Policy, label string, fn func(ctx context.Context) (T, error)) (T, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var zero T
	var lastErr error

	attempts := p.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := p.delayBefore(attempt)
			logger.Warn("retrying after failure",
				zap.String("operation", label),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return zero, lastErr
		}
	}

	logger.Error("attempts exhausted",
		zap.String("operation", label),
		zap.Int("attempts", attempts),
		zap.Error(lastErr))
	return zero, lastErr
}

// DoFallback runs fn like Do, but once attempts are exhausted it returns the
// fallback string with a nil error instead of propagating the failure.
func DoFallback(ctx context.Context, logger *zap.Logger, p Policy, label, fallback string, fn func(ctx context.Context) (string, error)) (string, error) {
	v, err := Do(ctx, logger, p, label, fn)
	if err != nil {
		if ctx.Err() != nil {
			// Caller-initiated cancellation is not "service unavailable".
			return "", err
		}
		return fallback, nil
	}
	return v, nil
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
