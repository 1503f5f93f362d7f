package shared

import "fmt"

var (
	// Configuration errors
	ErrConfig             = fmt.Errorf("configuration error")
	ErrMissingCredentials = fmt.Errorf("%w: missing spotify client credentials", ErrConfig)
	ErrInvalidConfig      = fmt.Errorf("%w: invalid configuration", ErrConfig)

	// Authentication errors
	ErrAuthExchange   = fmt.Errorf("authorization code exchange failed")
	ErrAuth           = fmt.Errorf("access token rejected")
	ErrNoRefreshToken = fmt.Errorf("%w: no refresh token available", ErrAuth)
	ErrRefreshFailed  = fmt.Errorf("%w: token refresh failed", ErrAuth)
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API and service errors
	ErrUpstream = fmt.Errorf("upstream request failed")

	// Session errors
	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrInvalidSession  = fmt.Errorf("invalid session cookie")
)
