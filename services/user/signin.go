package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"homefix/models"
	"homefix/services/api"
	"homefix/utils"

	"go.uber.org/zap"
)

// Login authenticates against POST /user/login. On success the token and the
// user are persisted together and the session becomes Authenticated; on any
// failure the session and storage are left exactly as they were.
func (s *SessionStore) Login(ctx context.Context, email, password string) (models.Session, error) {
	req := models.LoginRequest{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	return s.authenticate(ctx, "/user/login", req, classifyLoginError)
}

func classifyLoginError(err error) *AuthError {
	switch {
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrRejected),
		errors.Is(err, api.ErrNotFound), errors.Is(err, api.ErrValidation):
		return &AuthError{Kind: ErrInvalidCredentials, Message: api.Message(err, "Incorrect email and password combination"), Err: err}
	default:
		return &AuthError{Kind: ErrServiceUnavailable, Message: api.Message(err, "Login failed"), Err: err}
	}
}

// authenticate runs one login-like call under the client's in-flight guard.
func (s *SessionStore) authenticate(ctx context.Context, path string, body interface{}, classify func(error) *AuthError) (models.Session, error) {
	acquired, err := s.storage.Acquire(ctx, s.clientID, utils.StorageKeyAuthLock, utils.AuthLockTTL)
	if err != nil {
		return s.Current(), &AuthError{Kind: ErrServiceUnavailable, Message: "Please try again", Err: err}
	}
	if !acquired {
		return s.Current(), &AuthError{Kind: ErrAuthInProgress, Message: "Please wait, your previous request is still being processed"}
	}
	defer func() {
		if err := s.storage.Release(context.WithoutCancel(ctx), s.clientID, utils.StorageKeyAuthLock); err != nil {
			s.logger.Warn("failed to release auth lock", zap.Error(err))
		}
	}()

	s.setLoading(true)
	defer s.setLoading(false)

	var resp models.AuthResponse
	// The anonymous client: a stale token must not ride along on a login.
	if err := s.api.WithTokenSource(nil).Post(ctx, path, body, &resp); err != nil {
		s.logger.Info("authentication failed", zap.String("path", path), zap.Error(err))
		return s.Current(), classify(err)
	}
	if resp.Token == "" || resp.User == nil {
		err := fmt.Errorf("%s: response missing token or user", path)
		s.logger.Warn("authentication response incomplete", zap.Error(err))
		return s.Current(), &AuthError{Kind: ErrServiceUnavailable, Message: "Unexpected response from server", Err: err}
	}

	blob, err := json.Marshal(resp.User)
	if err != nil {
		return s.Current(), &AuthError{Kind: ErrServiceUnavailable, Message: "Unexpected response from server", Err: err}
	}
	if err := s.storage.SetMany(ctx, s.clientID, map[string]string{
		utils.StorageKeyToken: resp.Token,
		utils.StorageKeyUser:  string(blob),
	}); err != nil {
		s.logger.Error("failed to persist credentials", zap.Error(err))
		return s.Current(), &AuthError{Kind: ErrServiceUnavailable, Message: "Could not save your session, please try again", Err: err}
	}

	s.logger.Info("authenticated",
		zap.String("path", path),
		zap.String("user", resp.User.ID),
		zap.String("token", utils.TokenFingerprint(resp.Token)),
	)
	return s.set(models.Session{Status: models.SessionAuthenticated, User: resp.User, Token: resp.Token}), nil
}
