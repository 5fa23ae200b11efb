package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Collection names used by the engine. Every backend persists these as
// independent tables/worksheets.
const (
	Repairs        = "repairs"
	Inventory      = "inventory"
	Sales          = "sales"
	Ledger         = "ledger"
	EmployeeLedger = "employee_ledger"
	Customers      = "customers"
	Employees      = "employees"
	Expenses       = "expenses"
	Users          = "users"
)

// Row is one record of a collection. Cells are strings because the lowest
// common denominator backend is a spreadsheet; typed access goes through the
// model codecs in internal/models.
type Row map[string]string

// Int reads a cell as an integer. Unparseable or missing cells read as zero,
// matching how the spreadsheet backend tolerates hand-edited data.
func (r Row) Int(key string) int {
	n, _ := strconv.Atoi(r[key])
	return n
}

// Float reads a cell as a float64, zero on failure.
func (r Row) Float(key string) float64 {
	f, _ := strconv.ParseFloat(r[key], 64)
	return f
}

// Bool reads a cell as a boolean. "1", "true" and "TRUE" count as true.
func (r Row) Bool(key string) bool {
	switch r[key] {
	case "1", "true", "TRUE", "True":
		return true
	}
	return false
}

// Clone returns a copy that shares no state with the receiver.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store is the tabular storage contract shared by every backend. Rows come
// back in stable insertion order. WriteAll replaces the whole collection;
// NextID returns max(existing ids)+1, or 1 for an empty collection.
type Store interface {
	ReadAll(ctx context.Context, collection string) ([]Row, error)
	WriteAll(ctx context.Context, collection string, rows []Row) error
	NextID(ctx context.Context, collection string) (int, error)
}

// errTransient marks backend failures worth retrying (rate limits,
// connectivity blips). Everything else is fatal and propagates immediately.
var errTransient = errors.New("transient backend error")

// Transient wraps err so IsTransient reports true for it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errTransient, err)
}

// IsTransient reports whether err is a retryable backend failure.
func IsTransient(err error) bool {
	return errors.Is(err, errTransient)
}
