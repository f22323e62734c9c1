package state

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]T
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{sessions: make(map[int64]T)}
}

// Load returns the session for chatID or ErrNotFound.
func (m *MemoryStore[T]) Load(_ context.Context, chatID int64) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.sessions[chatID]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

// Save replaces the session for chatID.
func (m *MemoryStore[T]) Save(_ context.Context, chatID int64, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = v
	return nil
}

// Delete drops the session for chatID.
func (m *MemoryStore[T]) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
