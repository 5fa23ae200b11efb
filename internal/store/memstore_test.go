package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	rows, err := s.ReadAll(ctx, Inventory)
	assert.NoError(t, err)
	assert.Empty(t, rows)

	err = s.WriteAll(ctx, Inventory, []Row{
		{"id": "1", "name": "Fuse", "quantity": "3"},
		{"id": "2", "name": "Belt", "quantity": "7"},
	})
	assert.NoError(t, err)

	rows, err = s.ReadAll(ctx, Inventory)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Fuse", rows[0]["name"])

	// Collections are independent.
	other, _ := s.ReadAll(ctx, Ledger)
	assert.Empty(t, other)
}

func TestMemStoreReturnsCopies(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	src := []Row{{"id": "1", "name": "Fuse"}}
	assert.NoError(t, s.WriteAll(ctx, Inventory, src))

	// Mutating the slice we wrote, or the rows we read back, must not leak
	// into the store.
	src[0]["name"] = "changed"
	rows, _ := s.ReadAll(ctx, Inventory)
	assert.Equal(t, "Fuse", rows[0]["name"])

	rows[0]["name"] = "changed again"
	rows, _ = s.ReadAll(ctx, Inventory)
	assert.Equal(t, "Fuse", rows[0]["name"])
}

func TestMemStoreNextID(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	id, err := s.NextID(ctx, Repairs)
	assert.NoError(t, err)
	assert.Equal(t, 1, id)

	s.WriteAll(ctx, Repairs, []Row{
		{"id": "4"},
		{"id": "2"},
		{"id": "not-a-number"},
	})
	id, _ = s.NextID(ctx, Repairs)
	assert.Equal(t, 5, id)
}

func TestRowAccessors(t *testing.T) {
	r := Row{
		"qty":    "12",
		"price":  "99.5",
		"flag":   "true",
		"flag2":  "1",
		"broken": "abc",
	}
	assert.Equal(t, 12, r.Int("qty"))
	assert.Equal(t, 0, r.Int("broken"))
	assert.Equal(t, 0, r.Int("missing"))
	assert.Equal(t, 99.5, r.Float("price"))
	assert.Equal(t, 0.0, r.Float("broken"))
	assert.True(t, r.Bool("flag"))
	assert.True(t, r.Bool("flag2"))
	assert.False(t, r.Bool("broken"))
}

func TestTransientClassification(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	assert.False(t, IsTransient(base))
	assert.True(t, IsTransient(Transient(base)))
	assert.Nil(t, Transient(nil))
}
