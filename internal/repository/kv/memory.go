package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps profile data in process memory. Data does not survive a restart.
type MemoryStore struct {
	profiles map[string]map[string]string
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]map[string]string),
	}
}

// Get retrieves the value stored for a profile key.
func (m *MemoryStore) Get(_ context.Context, profileID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if values, exists := m.profiles[profileID]; exists {
		if value, ok := values[key]; ok {
			return value, nil
		}
	}
	return "", ErrNotFound
}

// Set overwrites the value for a profile key.
func (m *MemoryStore) Set(_ context.Context, profileID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, exists := m.profiles[profileID]
	if !exists {
		values = make(map[string]string)
		m.profiles[profileID] = values
	}
	values[key] = value
	return nil
}

// Delete removes keys for a profile. Missing keys are ignored.
func (m *MemoryStore) Delete(_ context.Context, profileID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, exists := m.profiles[profileID]
	if !exists {
		return nil
	}
	for _, key := range keys {
		delete(values, key)
	}
	if len(values) == 0 {
		delete(m.profiles, profileID)
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
