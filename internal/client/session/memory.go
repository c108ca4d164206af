package session

import (
	"context"
	"sync"
)

// MemoryBackend keeps the token for the lifetime of the process only.
type MemoryBackend struct {
	mu  sync.Mutex
	tok Token
	ok  bool
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

var _ Backend = (*MemoryBackend)(nil)

func (m *MemoryBackend) Load(context.Context) (Token, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok, m.ok, nil
}

func (m *MemoryBackend) Save(_ context.Context, tok Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok, m.ok = tok, true
	return nil
}

func (m *MemoryBackend) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok, m.ok = "", false
	return nil
}
