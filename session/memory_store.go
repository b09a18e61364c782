package session

import (
	"context"
	"sync"
)

// MemoryStore keeps credentials for the life of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	creds *Credentials
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, creds Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := creds
	m.creds = &c
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil, nil
	}
	c := *m.creds
	return &c, nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}
