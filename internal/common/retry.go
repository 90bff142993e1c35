package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pulse/internal/service"
)

var (
	// ErrRateLimit marks a quota response from the spreadsheet API.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError lets a backend say whether a failure is worth another try.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func retryDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Operation == "" {
		opts.Operation = "operation"
	}
	return opts
}

// WithRetry runs operation until it succeeds, fails permanently or runs out of
// attempts. Only use it for calls that are safe to repeat: a write that timed
// out may still have landed.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = retryDefaults(opts)
	delay := opts.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return err
		}

		if attempt >= opts.MaxAttempts {
			if opts.MaxAttempts == 1 {
				return err
			}
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
		}

		// Quota windows are long; backing off gently just burns attempts.
		if errors.Is(err, ErrRateLimit) {
			delay = opts.MaxDelay
		}

		opts.Logger.Warn("retrying",
			"operation", opts.Operation,
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(time.Duration(float64(delay)*opts.Multiplier), opts.MaxDelay)
	}
}

func shouldRetry(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) && !retryable.Retryable {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
