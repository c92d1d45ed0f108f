package store

import "sync"

// MemoryKV implements KV with in-memory storage. State does not survive the
// process; used by tests and ephemeral runs.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
