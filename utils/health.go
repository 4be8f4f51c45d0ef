package utils

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of the services the front server depends on.
type HealthStatus struct {
	Redis     []bool    `json:"redis"`
	Backend   bool      `json:"backend"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every Redis client and issues a HEAD request to the backend origin.
func CheckHealth(ctx context.Context, redisClients []*redis.Client, backendURL string, httpClient *http.Client) HealthStatus {
	var redisHealth []bool
	for _, client := range redisClients {
		err := client.Ping(ctx).Err()
		redisHealth = append(redisHealth, err == nil)
	}

	backendHealthy := false
	if req, err := http.NewRequestWithContext(ctx, http.MethodHead, backendURL, nil); err == nil {
		if resp, err := httpClient.Do(req); err == nil {
			resp.Body.Close()
			backendHealthy = resp.StatusCode < http.StatusInternalServerError
		}
	}

	status := HealthStatus{
		Redis:     redisHealth,
		Backend:   backendHealthy,
		CheckedAt: time.Now(),
	}
	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done. The
// backend is probed with httpClient, normally the API client's own transport.
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, backendURL string, httpClient *http.Client) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		CheckHealth(ctx, redisClients, backendURL, httpClient)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, redisClients, backendURL, httpClient)
			}
		}
	}()
}
