package clientRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homefix/utils"

	"github.com/go-redis/redis/v8"
)

// RedisClientStorage implements ClientStorage with one Redis hash per client.
type RedisClientStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClientStorage creates a ClientStorage backed by Redis. Every write
// pushes the hash's expiry ttl into the future.
func NewRedisClientStorage(client *redis.Client, ttl time.Duration) ClientStorage {
	return &RedisClientStorage{client: client, ttl: ttl}
}

func hashKey(clientID string) string {
	return utils.ClientStoragePrefix + clientID
}

func lockKey(clientID, name string) string {
	return utils.ClientStoragePrefix + clientID + ":" + name
}

func (r *RedisClientStorage) Get(ctx context.Context, clientID, key string) (string, error) {
	val, err := r.client.HGet(ctx, hashKey(clientID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return val, nil
}

func (r *RedisClientStorage) SetMany(ctx context.Context, clientID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	key := hashKey(clientID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write client storage: %w", err)
	}
	return nil
}

func (r *RedisClientStorage) Delete(ctx context.Context, clientID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, hashKey(clientID), keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete from client storage: %w", err)
	}
	return nil
}

func (r *RedisClientStorage) Pop(ctx context.Context, clientID, key string) (string, error) {
	var get *redis.StringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, hashKey(clientID), key)
		pipe.HDel(ctx, hashKey(clientID), key)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to pop %q: %w", key, err)
	}
	return get.Val(), nil
}

func (r *RedisClientStorage) Acquire(ctx context.Context, clientID, name string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey(clientID, name), time.Now().UnixNano(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire %s lock: %w", name, err)
	}
	return ok, nil
}

func (r *RedisClientStorage) Release(ctx context.Context, clientID, name string) error {
	return r.client.Del(ctx, lockKey(clientID, name)).Err()
}
