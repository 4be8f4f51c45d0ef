package user

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthInProgress is returned when a login or registration is already pending for the client.
	ErrAuthInProgress = errors.New("a sign-in is already in progress")
	// ErrInvalidCredentials means the backend refused the email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountExists means registration hit an existing account.
	ErrAccountExists = errors.New("an account with this email already exists")
	// ErrRegistrationRejected means the backend refused the registration data.
	ErrRegistrationRejected = errors.New("registration details were rejected")
	// ErrServiceUnavailable means the backend could not be reached or failed.
	ErrServiceUnavailable = errors.New("service unavailable, please try again")
	// ErrSessionExpired means the backend no longer accepts the stored token;
	// the token and cached user have been cleared.
	ErrSessionExpired = errors.New("session expired")
)

// AuthError is a failed login or registration. Kind is one of the sentinels
// above; Message is what the user should see.
type AuthError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
