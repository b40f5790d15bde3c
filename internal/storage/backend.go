// Package storage provides the key-value backends that hold the persisted link
// collection. Each backend stores opaque byte payloads under string keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/axellelanca/shortlinks/internal/config"
)

// ErrKeyNotFound is returned by Get when nothing has been stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Backend is a persistent key-value slot store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names accepted in configuration.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Open creates the backend selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryBackend(), nil
	case DriverSQLite:
		return OpenGormBackend(cfg.SQLitePath)
	case DriverRedis:
		return NewRedisBackend(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// MemoryBackend keeps payloads in process memory. Nothing survives a restart.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = append([]byte(nil), value...)
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
