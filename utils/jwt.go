package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenExpiry reads the exp claim of a bearer token without verifying its
// signature; the front server never holds the backend's signing key.
// ok is false when the token is not a JWT or carries no exp claim.
func TokenExpiry(tokenString string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}

	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(n, 0), true
	}
	return time.Time{}, false
}

// IsTokenExpired reports whether the token's exp claim is at or before now.
// Tokens without a readable exp are left for the backend to judge.
func IsTokenExpired(tokenString string, now time.Time) bool {
	exp, ok := TokenExpiry(tokenString)
	return ok && !now.Before(exp)
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenFingerprint is a short, log-safe identifier for a token.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	return HashToken(token)[:12]
}
