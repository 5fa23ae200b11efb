package sheetstore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"go-repair-ledger/internal/store"
)

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(&googleapi.Error{Code: 429, Message: "Too many requests"}))
	assert.True(t, isRateLimited(&googleapi.Error{Code: 403, Message: "Rate Limit Exceeded"}))
	assert.True(t, isRateLimited(&googleapi.Error{Code: 403, Message: "Quota exceeded for quota metric"}))

	// A plain 403 is a permission problem, not a throttle.
	assert.False(t, isRateLimited(&googleapi.Error{Code: 403, Message: "The caller does not have permission"}))
	assert.False(t, isRateLimited(&googleapi.Error{Code: 404, Message: "Requested entity was not found"}))
	assert.False(t, isRateLimited(errors.New("connection reset")))

	// Wrapped API errors still classify.
	wrapped := &googleapi.Error{Code: 429}
	assert.True(t, isRateLimited(errorsJoin(wrapped)))
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("outer"), err)
}

func TestWithRetryBacksOffOnRateLimit(t *testing.T) {
	var delays []time.Duration
	s := &Store{sleep: func(d time.Duration) { delays = append(delays, d) }}

	calls := 0
	err := s.withRetry("ledger", "read", func() error {
		calls++
		if calls < 3 {
			return &googleapi.Error{Code: 429}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, delays)
}

func TestWithRetryExhaustionIsTransient(t *testing.T) {
	var delays []time.Duration
	s := &Store{sleep: func(d time.Duration) { delays = append(delays, d) }}

	calls := 0
	err := s.withRetry("ledger", "write", func() error {
		calls++
		return &googleapi.Error{Code: 429}
	})
	assert.Error(t, err)
	assert.True(t, store.IsTransient(err))
	assert.Equal(t, maxAttempts, calls)
	// Doubling from 500ms, capped at 8s; no sleep after the final attempt.
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
	}, delays)
}

func TestWithRetryFailsFastOnOtherErrors(t *testing.T) {
	s := &Store{sleep: func(time.Duration) { t.Fatal("should not sleep") }}

	calls := 0
	err := s.withRetry("ledger", "read", func() error {
		calls++
		return &googleapi.Error{Code: 404, Message: "sheet not found"}
	})
	assert.Error(t, err)
	assert.False(t, store.IsTransient(err))
	assert.Equal(t, 1, calls)
}

func TestHeaderForPutsIDFirst(t *testing.T) {
	rows := []store.Row{
		{"name": "Fuse", "id": "1", "quantity": "3"},
		{"id": "2", "cost_price": "10"},
	}
	assert.Equal(t, []string{"id", "cost_price", "name", "quantity"}, headerFor(rows))

	assert.Equal(t, []string{"id"}, headerFor(nil))
}
