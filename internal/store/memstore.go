package store

import (
	"context"
	"sync"
)

// MemStore keeps every collection in memory. It backs the package tests and
// the STORE_BACKEND=memory dev mode; data is gone when the process exits.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]Row
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]Row)}
}

// ReadAll returns copies of the collection's rows in insertion order.
func (m *MemStore) ReadAll(_ context.Context, collection string) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.data[collection]
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

// WriteAll replaces the collection with copies of the given rows.
func (m *MemStore) WriteAll(_ context.Context, collection string, rows []Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]Row, 0, len(rows))
	for _, r := range rows {
		stored = append(stored, r.Clone())
	}
	m.data[collection] = stored
	return nil
}

// NextID scans the "id" cells and returns max+1 (1 for an empty collection).
func (m *MemStore) NextID(_ context.Context, collection string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	max := 0
	for _, r := range m.data[collection] {
		if id := r.Int("id"); id > max {
			max = id
		}
	}
	return max + 1, nil
}
