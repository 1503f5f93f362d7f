// package services defines the OAuth coordinator and Spotify API client
package services

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ExpirySkew is how long before its reported expiry an access token is treated as expired.
const ExpirySkew = 60 * time.Second

// DefaultHTTPTimeout bounds every outbound call when no client is supplied.
const DefaultHTTPTimeout = 15 * time.Second

// NewHTTPClient returns an [http.Client] with the given timeout, or [DefaultHTTPTimeout] when timeout is zero.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// withHTTPClient makes the oauth2 package use client for token endpoint calls.
func withHTTPClient(ctx context.Context, client *http.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}
