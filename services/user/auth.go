package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"homefix/models"
	"homefix/services/api"
	"homefix/utils"

	"go.uber.org/zap"
)

// CheckAuth resolves the session from the persisted token. It never fails:
// any problem degrades to Anonymous. A token the backend rejects, or one whose
// exp has passed, is removed from storage; a token is kept when the backend is
// merely unreachable.
func (s *SessionStore) CheckAuth(ctx context.Context) models.Session {
	token, err := s.Token(ctx)
	if err != nil {
		s.logger.Warn("CheckAuth: failed to read token", zap.Error(err))
		return s.set(anonymous())
	}
	if token == "" {
		return s.set(anonymous())
	}
	if utils.IsTokenExpired(token, s.now()) {
		s.logger.Info("CheckAuth: token expired", zap.String("token", utils.TokenFingerprint(token)))
		s.clearCredentials(ctx)
		return s.set(anonymous())
	}

	var resp models.UserResponse
	err = s.api.Get(ctx, "/user/is-auth", &resp)
	sess, err := s.resolveIdentity(ctx, token, resp, err, "CheckAuth")
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		// Token kept; this request is served anonymously.
		return s.set(anonymous())
	}
	return sess
}

// RefreshProfile re-reads the user from GET /user/me. Only a rejected token
// (ErrSessionExpired) ends the session; on any other failure the current
// session is left as it was and the error is returned.
func (s *SessionStore) RefreshProfile(ctx context.Context) (models.Session, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return s.Current(), fmt.Errorf("RefreshProfile: %w", err)
	}
	if token == "" {
		return s.set(anonymous()), fmt.Errorf("RefreshProfile: %w", ErrSessionExpired)
	}
	var resp models.UserResponse
	err = s.api.Get(ctx, "/user/me", &resp)
	sess, err := s.resolveIdentity(ctx, token, resp, err, "RefreshProfile")
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		return s.Current(), err
	}
	return sess, err
}

// resolveIdentity applies an identity response. A rejected token clears the
// stored credentials and yields ErrSessionExpired; a transport or server
// failure is returned as is and leaves the session untouched.
func (s *SessionStore) resolveIdentity(ctx context.Context, token string, resp models.UserResponse, err error, op string) (models.Session, error) {
	switch {
	case err == nil && resp.User != nil:
		if blob, mErr := json.Marshal(resp.User); mErr == nil {
			if wErr := s.storage.SetMany(ctx, s.clientID, map[string]string{utils.StorageKeyUser: string(blob)}); wErr != nil {
				s.logger.Warn(op+": failed to cache user", zap.Error(wErr))
			}
		}
		return s.set(models.Session{Status: models.SessionAuthenticated, User: resp.User, Token: token}), nil

	case err == nil, errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrRejected):
		s.logger.Info(op+": token rejected", zap.String("token", utils.TokenFingerprint(token)), zap.Error(err))
		s.clearCredentials(ctx)
		return s.set(anonymous()), fmt.Errorf("%s: %w", op, ErrSessionExpired)

	default:
		s.logger.Warn(op+": identity check failed", zap.Error(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
}

// Logout forgets the token and the cached user. It is safe to call without a session.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.set(anonymous())
	if err := s.storage.Delete(ctx, s.clientID, utils.StorageKeyToken, utils.StorageKeyUser); err != nil {
		s.logger.Error("Logout: failed to clear storage", zap.Error(err))
		return err
	}
	return nil
}

func (s *SessionStore) clearCredentials(ctx context.Context) {
	if err := s.storage.Delete(ctx, s.clientID, utils.StorageKeyToken, utils.StorageKeyUser); err != nil {
		s.logger.Error("failed to clear credentials", zap.Error(err))
	}
}

// SetFlash queues a notification for the next rendered page.
func (s *SessionStore) SetFlash(ctx context.Context, kind, message string) {
	blob, err := json.Marshal(models.Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	if err := s.storage.SetMany(ctx, s.clientID, map[string]string{utils.StorageKeyFlash: string(blob)}); err != nil {
		s.logger.Warn("SetFlash: failed to store notification", zap.Error(err))
	}
}

// PopFlash returns and clears the pending notification, if any.
func (s *SessionStore) PopFlash(ctx context.Context) *models.Flash {
	raw, err := s.storage.Pop(ctx, s.clientID, utils.StorageKeyFlash)
	if err != nil {
		return nil
	}
	var f models.Flash
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil
	}
	return &f
}
