package clientRepo

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent from a client's storage.
var ErrNotFound = errors.New("client storage: key not found")

// ClientStorage is the per-browser persisted storage: a small string map keyed
// by the client id from the hf_client cookie. It holds the bearer token, the
// cached user, the pending flash and the auth lock.
type ClientStorage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, clientID, key string) (string, error)
	// SetMany writes all values in one atomic step and refreshes the TTL.
	SetMany(ctx context.Context, clientID string, values map[string]string) error
	// Delete removes the given keys; absent keys are not an error.
	Delete(ctx context.Context, clientID string, keys ...string) error
	// Pop returns and removes the value under key, or ErrNotFound.
	Pop(ctx context.Context, clientID, key string) (string, error)
	// Acquire takes a named lock for ttl; it reports false if the lock is held.
	Acquire(ctx context.Context, clientID, name string, ttl time.Duration) (bool, error)
	// Release drops a named lock.
	Release(ctx context.Context, clientID, name string) error
}
