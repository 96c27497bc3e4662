package utils

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func always(error) bool { return true }

func TestRetry_SingleAttemptCallsOnce(t *testing.T) {
	calls := 0
	err := RetryIf(context.Background(), 1, time.Millisecond, time.Millisecond, always, func() error {
		calls++
		return errTransient
	})
	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := RetryIf(context.Background(), 3, time.Millisecond, 2*time.Millisecond, always, func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryIf_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := RetryIf(context.Background(), 5, time.Millisecond, time.Millisecond,
		func(err error) bool { return !errors.Is(err, permanent) },
		func() error {
			calls++
			return permanent
		})
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryIf(ctx, 3, time.Hour, time.Hour, always, func() error {
		calls++
		cancel()
		return errTransient
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...(truncated)", Truncate("abcdef", 2))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	// "€" is three bytes; a cut at 2 or 3 must drop it rather than split it
	assert.Equal(t, "a...(truncated)", Truncate("a€b", 2))
	assert.Equal(t, "a...(truncated)", Truncate("a€b", 3))
	assert.Equal(t, "a€...(truncated)", Truncate("a€b", 4))
	assert.True(t, utf8.ValidString(Truncate("28 m² rooms", 4)))
}

func TestSHA256Hex_SeparatesParts(t *testing.T) {
	assert.NotEqual(t, SHA256Hex("ab", "c"), SHA256Hex("a", "bc"))
	assert.Len(t, SHA256Hex("x"), 64)
}
