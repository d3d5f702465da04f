package kv

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]Slot
}

func NewMemory() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Slot)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := m.slots[key]

	return Slot{Value: clone(slot.Value), Version: slot.Version}, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.slots[key]
	if current.Version != expectedVersion {
		return 0, ErrVersionConflict
	}

	next := Slot{Value: clone(value), Version: current.Version + 1}
	m.slots[key] = next

	return next.Version, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out
}
