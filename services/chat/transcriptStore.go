package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const transcriptPrefix = "chat:transcript:"

// TranscriptStore keeps each client's transcript between page loads.
// Get returns an empty transcript, not an error, when nothing is stored.
type TranscriptStore interface {
	Get(ctx context.Context, clientID string) (*Transcript, error)
	Set(ctx context.Context, clientID string, t *Transcript) error
	Clear(ctx context.Context, clientID string) error
}

type RedisTranscriptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTranscriptStore(client *redis.Client, ttl time.Duration) *RedisTranscriptStore {
	return &RedisTranscriptStore{client: client, ttl: ttl}
}

func (s *RedisTranscriptStore) Get(ctx context.Context, clientID string) (*Transcript, error) {
	data, err := s.client.Get(ctx, transcriptPrefix+clientID).Result()
	if err == redis.Nil {
		return &Transcript{}, nil
	}
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *RedisTranscriptStore) Set(ctx context.Context, clientID string, t *Transcript) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, transcriptPrefix+clientID, b, s.ttl).Err()
}

func (s *RedisTranscriptStore) Clear(ctx context.Context, clientID string) error {
	return s.client.Del(ctx, transcriptPrefix+clientID).Err()
}

// MemoryTranscriptStore is the single-process store used with the memory storage driver.
type MemoryTranscriptStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryTranscriptStore() *MemoryTranscriptStore {
	return &MemoryTranscriptStore{data: make(map[string][]byte)}
}

func (s *MemoryTranscriptStore) Get(_ context.Context, clientID string) (*Transcript, error) {
	s.mu.Lock()
	raw, ok := s.data[clientID]
	s.mu.Unlock()
	if !ok {
		return &Transcript{}, nil
	}
	var t Transcript
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MemoryTranscriptStore) Set(_ context.Context, clientID string, t *Transcript) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[clientID] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryTranscriptStore) Clear(_ context.Context, clientID string) error {
	s.mu.Lock()
	delete(s.data, clientID)
	s.mu.Unlock()
	return nil
}
