// Package engine is the ledger & inventory core: repair jobs, stock,
// customer/employee ledgers and sales invoices over one tabular store.
// The presentation layer (HTTP handlers, AI assistant) calls it in-process
// and contains no business rules of its own.
package engine

import (
	"sync"
	"time"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"
)

// Engine owns the shared mutable state. Every public operation serializes
// behind one mutex: the store has no transactions spanning collections, so a
// single-writer policy is what keeps read-modify-write sequences from
// interleaving. This protects in-process callers only; two processes
// pointed at the same spreadsheet can still lose updates.
type Engine struct {
	mu    sync.Mutex
	store store.Store

	// Now is the clock for start dates, lateness checks and invoice years.
	// Tests pin it; production leaves it as time.Now.
	Now func() time.Time
}

// New returns an engine over the given store backend.
func New(s store.Store) *Engine {
	return &Engine{store: s, Now: time.Now}
}

func (e *Engine) today() string {
	return e.Now().Format(models.DateLayout)
}

func (e *Engine) timestamp() string {
	return e.Now().Format(models.TimestampLayout)
}

func (e *Engine) month() string {
	return e.Now().Format("2006-01")
}
