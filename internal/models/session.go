package models

import (
	"fmt"
	"time"
)

// Session is one browser session. It holds at most one [TokenSet].
type Session struct {
	id        string
	token     *TokenSet
	createdAt time.Time
	updatedAt time.Time
	expiresAt time.Time
}

var _ Model = (*Session)(nil)

// NewSession creates a session that expires ttl from now. The ID is assigned by the store.
func NewSession(ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		createdAt: now,
		updatedAt: now,
		expiresAt: now.Add(ttl),
	}
}

// RestoreSession rebuilds a session loaded from storage.
func RestoreSession(id string, token *TokenSet, createdAt, updatedAt, expiresAt time.Time) *Session {
	return &Session{
		id:        id,
		token:     token,
		createdAt: createdAt,
		updatedAt: updatedAt,
		expiresAt: expiresAt,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

func (s *Session) SetID(id string)          { s.id = id }
func (s *Session) SetUpdatedAt(t time.Time) { s.updatedAt = t }
func (s *Session) SetExpiresAt(t time.Time) { s.expiresAt = t }

// Token returns the cached token set, or nil when the session has not been authorized.
func (s *Session) Token() *TokenSet { return s.token }

// SetToken replaces the cached token set.
func (s *Session) SetToken(t *TokenSet) { s.token = t }

// ClearToken drops the cached token set.
func (s *Session) ClearToken() { s.token = nil }

// Authorized reports whether a token set is cached. It says nothing about validity.
func (s *Session) Authorized() bool { return s.token != nil }

// Expired reports whether the session itself has outlived its TTL.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// Validate checks that the session can be persisted.
func (s *Session) Validate() error {
	if s.id == "" {
		return fmt.Errorf("session id is required")
	}
	if s.expiresAt.IsZero() {
		return fmt.Errorf("session expiry is required")
	}
	if s.token != nil && s.token.AccessToken == "" {
		return fmt.Errorf("token set requires an access token")
	}
	return nil
}
