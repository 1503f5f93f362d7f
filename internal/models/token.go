package models

import (
	"slices"
	"strings"
	"time"
)

// TokenSet is the OAuth token pair cached for one session.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is expired, or will be within skew, at now.
// A zero ExpiresAt is treated as expired since the provider always reports a lifetime.
func (t *TokenSet) Expired(now time.Time, skew time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return true
	}
	return !now.Add(skew).Before(t.ExpiresAt)
}

// Scopes returns the granted scopes.
func (t *TokenSet) Scopes() []string {
	return strings.Fields(t.Scope)
}

// Covers reports whether every scope in requested was granted.
func (t *TokenSet) Covers(requested []string) bool {
	granted := t.Scopes()
	for _, s := range requested {
		if !slices.Contains(granted, s) {
			return false
		}
	}
	return true
}

// CanRefresh reports whether a refresh token is available.
func (t *TokenSet) CanRefresh() bool {
	return t.RefreshToken != ""
}

// PlaylistSummary is the name and public URL of one playlist.
type PlaylistSummary struct {
	Name        string `json:"name"`
	ExternalURL string `json:"external_url"`
}
