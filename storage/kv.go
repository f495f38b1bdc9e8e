package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Aashish23092/ocr-phone-extractor/config"
)

// KVStore is the string key-value persistence used for session state.
type KVStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// NewKVStore opens the backend named in cfg.
func NewKVStore(cfg config.StorageConfig) (KVStore, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryKV(), nil
	case "sqlite":
		return OpenSQLiteKV(cfg.SQLitePath)
	case "redis":
		return NewRedisKV(cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// MemoryKV keeps values in a map. State is lost when the process exits.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Close() error { return nil }
