package engine

import (
	"context"
	"time"

	"go-repair-ledger/internal/store"
)

// newTestEngine pins the clock so dates and invoice years are stable.
func newTestEngine(at string) *Engine {
	e := New(store.NewMemStore())
	when, err := time.Parse("2006-01-02 15:04:05", at)
	if err != nil {
		panic(err)
	}
	e.Now = func() time.Time { return when }
	return e
}

func ctx() context.Context { return context.Background() }
