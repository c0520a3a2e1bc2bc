// Package common contains shared constants and small helpers used across
// the ridehail client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the session token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)

// Persisted session keys. Only these two entries survive a restart.
const (
	TokenKey = "token"
	UserKey  = "user"
)
