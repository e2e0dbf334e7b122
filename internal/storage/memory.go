package storage

import (
	"encoding/json"
	"sync"
)

// Memory is an in-memory Store used in tests. Values round-trip through
// JSON so it behaves like the durable implementation.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Seed stores raw bytes under key, bypassing encoding. Useful for
// exercising corrupt-data handling.
func (m *Memory) Seed(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
}

// Raw returns the stored bytes for key, or nil.
func (m *Memory) Raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

func (m *Memory) Load(key string, dest interface{}) bool {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false
	}

	return json.Unmarshal(raw, dest) == nil
}

func (m *Memory) Save(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}
