package engine

import "errors"

// Error taxonomy surfaced to callers. Validation failures are always checked
// before the first store mutation; NotFound is only an error where the caller
// asked for a specific record (sales, invoice lookups); job and ledger
// updates against a missing id are silent no-ops instead.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
)
