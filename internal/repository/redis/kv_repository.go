package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every stored aggregate so the service can share a
// redis database with other tenants.
const keyPrefix = "engagepulse:"

type KVRepository struct {
	client *redis.Client
}

func NewKVRepository(client *redis.Client) *KVRepository {
	return &KVRepository{client: client}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key from Redis: %w", err)
	}

	return val, nil
}

func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	// aggregates live forever, no TTL
	if err := r.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store key in Redis: %w", err)
	}

	return nil
}
