// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"homefix/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// SessionCacheClient backs the per-client persisted storage (token, user, flash).
	SessionCacheClient *redis.Client
	// ChatCacheClient backs the chat transcripts.
	ChatCacheClient *redis.Client
)

// NewRedisClient connects to the configured Redis server on the given DB and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// InitRedis initializes both Redis clients.
func InitRedis() {
	var err error
	SessionCacheClient, err = NewRedisClient(config.AppConfig.RedisSessionDB)
	if err != nil {
		GetLogger().Fatal("InitRedis: session cache", zap.Error(err))
	}
	ChatCacheClient, err = NewRedisClient(config.AppConfig.RedisChatDB)
	if err != nil {
		GetLogger().Fatal("InitRedis: chat cache", zap.Error(err))
	}
}

// GetSessionCacheClient returns the Redis client for client storage.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitRedis()
	}
	return SessionCacheClient
}

// GetChatCacheClient returns the Redis client for chat transcripts.
func GetChatCacheClient() *redis.Client {
	if ChatCacheClient == nil {
		InitRedis()
	}
	return ChatCacheClient
}

// CloseRedis closes whichever clients were opened.
func CloseRedis() {
	for _, c := range []*redis.Client{SessionCacheClient, ChatCacheClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
