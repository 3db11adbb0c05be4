// internal/app/store/kv/memory.go
package kv

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory Store keeping keys in sorted order. It backs the
// test fixtures and the "memory" store_backend config value; production
// deployments use the Mongo backend.
type Memory struct {
	mu     sync.RWMutex
	keys   []string // sorted encoded keys
	values map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key.Encode()]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(ctx context.Context, key Key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	enc := key.Encode()
	if _, exists := m.values[enc]; !exists {
		i := sort.SearchStrings(m.keys, enc)
		m.keys = append(m.keys, "")
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = enc
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[enc] = stored
	return nil
}

func (m *Memory) Delete(ctx context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	enc := key.Encode()
	if _, exists := m.values[enc]; !exists {
		return nil
	}
	delete(m.values, enc)
	i := sort.SearchStrings(m.keys, enc)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	return nil
}

func (m *Memory) Scan(ctx context.Context, prefix Key) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	low, high := scanBounds(prefix)
	start := sort.SearchStrings(m.keys, low)
	end := sort.SearchStrings(m.keys, high)

	entries := make([]Entry, 0, end-start)
	for _, enc := range m.keys[start:end] {
		v := m.values[enc]
		out := make([]byte, len(v))
		copy(out, v)
		entries = append(entries, Entry{Key: decodeKey(enc), Value: out})
	}
	return entries, nil
}

// Len reports the number of stored entries. Used by tests asserting that a
// cascade left nothing behind.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}
