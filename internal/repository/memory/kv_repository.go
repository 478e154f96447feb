package memory

import (
	"context"
	"fmt"
	"sync"
)

// KVRepository is an in-process, thread-safe key-value store. It matches the
// source system's per-instance storage: nothing survives a restart and
// nothing is shared across instances.
type KVRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKVRepository() *KVRepository {
	return &KVRepository{data: make(map[string][]byte)}
}

// Get returns nil, nil when the key is absent. The returned slice is a copy,
// callers may mutate it freely.
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	val, ok := r.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = stored
	return nil
}

// Len reports the number of stored keys. Intended for tests.
func (r *KVRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.data)
}
