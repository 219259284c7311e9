// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package localstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory [Store] for tests and ephemeral sessions.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value, or (nil, nil) when absent.
func (store *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	value, exists := store.data[key]
	if !exists {
		return nil, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

// Set stores a copy of the value under key.
func (store *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	copied := make([]byte, len(value))
	copy(copied, value)
	store.data[key] = copied
	return nil
}

// Delete removes the key if present.
func (store *MemoryStore) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.data, key)
	return nil
}
