package user

import (
	"context"
	"errors"
	"strings"

	"homefix/models"
	"homefix/services/api"
)

// Register creates an account through POST /user/register and, like Login,
// persists the returned credentials atomically. Callers validate the form
// with ValidateRegistration first; Register itself performs no local checks.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	req := models.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	return s.authenticate(ctx, "/user/register", req, classifyRegisterError)
}

func classifyRegisterError(err error) *AuthError {
	msg := api.Message(err, "")
	switch {
	case errors.Is(err, api.ErrConflict), mentionsExistingAccount(msg):
		return &AuthError{Kind: ErrAccountExists, Message: orDefault(msg, "An account with this email already exists"), Err: err}
	case errors.Is(err, api.ErrValidation), errors.Is(err, api.ErrRejected):
		return &AuthError{Kind: ErrRegistrationRejected, Message: orDefault(msg, "Registration failed"), Err: err}
	default:
		return &AuthError{Kind: ErrServiceUnavailable, Message: orDefault(msg, "Registration failed"), Err: err}
	}
}

func mentionsExistingAccount(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "already exists") || strings.Contains(m, "already registered")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
