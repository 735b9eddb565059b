// Package settings persists the user's translator settings behind a small
// key-value capability with memory, JSON-file and SQLite backends.
package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// KV is a flat string store. SetMany writes all pairs or none.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
}

// OpenKV returns the backend named by backend. path is ignored for memory.
func OpenKV(backend, path string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryKV(), nil
	case BackendJSON:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("json settings backend requires a path")
		}
		return NewJSONFileKV(path), nil
	case BackendSQLite:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("sqlite settings backend requires a path")
		}
		return OpenSQLiteKV(path)
	default:
		return nil, fmt.Errorf("unknown settings backend %q", backend)
	}
}

type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range values {
		m.values[key] = value
	}
	return nil
}
