// File: utils/constants.go
package utils

import "time"

// Keys inside a client's persisted storage: the bearer token, the cached user
// JSON, the one-shot flash and the in-flight login/registration lock.
const (
	StorageKeyToken    = "token"
	StorageKeyUser     = "user"
	StorageKeyFlash    = "flash"
	StorageKeyAuthLock = "auth-lock"
)

// ClientStoragePrefix is the prefix used for Redis client storage keys.
const ClientStoragePrefix = "client:"

// AuthLockTTL bounds how long a pending login or registration blocks another one.
const AuthLockTTL = 30 * time.Second

// ContextClientID is the gin context key holding the browser's client id.
const ContextClientID = "clientID"

// ContextSession is the gin context key holding the request's session handle.
const ContextSession = "session"

// ContextDegraded is set to true when a page that prefers a user is served to an anonymous client.
const ContextDegraded = "degraded"
