// models/user.go
package models

import "encoding/json"

// User is the account as the backend reports it. The front server only displays it.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts both "_id" and "id" for the identifier.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.MongoID
	if u.ID == "" {
		u.ID = raw.ID
	}
	u.Name = raw.Name
	u.Email = raw.Email
	return nil
}

// FirstName is what the navbar greets the user with.
func (u *User) FirstName() string {
	if u == nil {
		return ""
	}
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /user/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what /user/login and /user/register return.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// UserResponse is what /user/me and /user/is-auth return.
type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user"`
}
