package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/pulse/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("flaky")
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := WithRetry(context.Background(), func() error {
			calls++
			return boom
		}, opts)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("bad request"), Retryable: false}
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context is not retried", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return context.Canceled
		}, opts)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("rate limit waits the max delay", func(t *testing.T) {
		calls := 0
		start := time.Now()
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls == 1 {
				return ErrRateLimit
			}
			return nil
		}, service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 20 * time.Millisecond})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("stops waiting when context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		err := WithRetry(ctx, func() error {
			cancel()
			return errors.New("flaky")
		}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("single attempt returns raw error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithRetry(context.Background(), func() error { return boom }, service.RetryOptions{MaxAttempts: 1})
		assert.Same(t, boom, err)
	})
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := NewValidationError("client", "client name is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "client: client name is required", err.Error())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "client", vErr.Field)
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("verbose")
	assert.Error(t, err)

	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", lvl.String())
}
