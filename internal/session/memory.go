package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a store that lives only as long as the process.
func NewMemory() Store {
	return &memoryStore{}
}

func (m *memoryStore) Get(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *memoryStore) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
