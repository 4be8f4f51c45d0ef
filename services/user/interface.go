package user

import (
	"context"
	"sync"
	"time"

	clientRepo "homefix/database/repository/client"
	"homefix/models"
	"homefix/services/api"
	"homefix/utils"

	"go.uber.org/zap"
)

// SessionService hands out the session handle of one browser client.
type SessionService interface {
	ForClient(clientID string) *SessionStore
}

// DefaultSessionService is the production implementation.
type DefaultSessionService struct {
	Storage clientRepo.ClientStorage
	API     *api.Client
	Logger  *zap.Logger
}

// ForClient builds a fresh SessionStore for clientID. Stores are cheap and
// meant to live for one request; all durable state is in Storage.
func (s *DefaultSessionService) ForClient(clientID string) *SessionStore {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &SessionStore{
		clientID: clientID,
		storage:  s.Storage,
		logger:   logger.With(zap.String("client", shortID(clientID))),
		now:      time.Now,
		current:  models.Session{Status: models.SessionLoading},
	}
	store.api = s.API.WithTokenSource(store.Token)
	return store
}

// SessionStore is the single source of truth for who is logged in on one
// browser client, and the only writer of that client's persisted token.
type SessionStore struct {
	clientID string
	storage  clientRepo.ClientStorage
	api      *api.Client
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	current models.Session
	loading bool
}

// ClientID returns the browser client this store belongs to.
func (s *SessionStore) ClientID() string {
	return s.clientID
}

// API returns the backend client authenticated with this client's token.
func (s *SessionStore) API() *api.Client {
	return s.api
}

// Current returns the last computed session. It is Loading until CheckAuth,
// Login or Register has run.
func (s *SessionStore) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Loading reports whether a login or registration call is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Snapshot is the JSON-safe view of the session.
func (s *SessionStore) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionSnapshot{
		Status:  s.current.Status.String(),
		User:    s.current.User,
		Loading: s.loading,
	}
}

func (s *SessionStore) set(sess models.Session) models.Session {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func anonymous() models.Session {
	return models.Session{Status: models.SessionAnonymous}
}

// Token reads the persisted bearer token. A missing token is not an error.
// It is the api.TokenSource of this store's client.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	tok, err := s.storage.Get(ctx, s.clientID, utils.StorageKeyToken)
	if err == clientRepo.ErrNotFound {
		return "", nil
	}
	return tok, err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
