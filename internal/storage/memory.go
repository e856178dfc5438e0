package storage

import (
	"sort"
	"sync"
)

// MemoryStorage keeps values in process memory. It is used by tests and by
// callers that do not need evidence to outlive the process.
type MemoryStorage struct {
	mu    sync.RWMutex
	store map[Key]string
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		store: make(map[Key]string),
	}
}

func (m *MemoryStorage) Save(key Key, content string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = content
	return nil
}

func (m *MemoryStorage) Get(key Key) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store[key], nil
}

func (m *MemoryStorage) Delete(key Key) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

func (m *MemoryStorage) Keys() ([]Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]Key, 0, len(m.store))
	for key := range m.store {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}
