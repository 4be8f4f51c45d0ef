package clientRepo

import (
	"context"
	"sync"
	"time"
)

// MemoryClientStorage keeps client storage in process memory. It is meant for
// development and tests; state does not survive a restart.
type MemoryClientStorage struct {
	mu    sync.Mutex
	data  map[string]map[string]string
	locks map[string]time.Time
	now   func() time.Time
}

// NewMemoryClientStorage creates an empty in-memory ClientStorage.
func NewMemoryClientStorage() *MemoryClientStorage {
	return &MemoryClientStorage{
		data:  make(map[string]map[string]string),
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (m *MemoryClientStorage) Get(_ context.Context, clientID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[clientID][key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *MemoryClientStorage) SetMany(_ context.Context, clientID string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.data[clientID]
	if !ok {
		bucket = make(map[string]string, len(values))
		m.data[clientID] = bucket
	}
	for k, v := range values {
		bucket[k] = v
	}
	return nil
}

func (m *MemoryClientStorage) Delete(_ context.Context, clientID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data[clientID], k)
	}
	return nil
}

func (m *MemoryClientStorage) Pop(_ context.Context, clientID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[clientID][key]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.data[clientID], key)
	return val, nil
}

func (m *MemoryClientStorage) Acquire(_ context.Context, clientID, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := clientID + ":" + name
	if until, held := m.locks[k]; held && m.now().Before(until) {
		return false, nil
	}
	m.locks[k] = m.now().Add(ttl)
	return true, nil
}

func (m *MemoryClientStorage) Release(_ context.Context, clientID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, clientID+":"+name)
	return nil
}

// Snapshot returns a copy of a client's stored values.
func (m *MemoryClientStorage) Snapshot(clientID string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data[clientID]))
	for k, v := range m.data[clientID] {
		out[k] = v
	}
	return out
}
