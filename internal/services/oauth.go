package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/spotlists/internal/models"
	"github.com/desertthunder/spotlists/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
)

// Coordinator runs the OAuth2 authorization-code flow against the Spotify accounts service.
type Coordinator struct {
	config     *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

// NewCoordinator creates a [Coordinator] from the Spotify settings.
//
// AuthURL and TokenURL override the public accounts endpoints when set.
// A nil httpClient falls back to [NewHTTPClient] with the default timeout.
func NewCoordinator(cfg shared.SpotifyConfig, httpClient *http.Client) *Coordinator {
	endpoint := spotify.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInHeader

	scopes := cfg.Scopes()
	if len(scopes) == 0 {
		scopes = []string{spotifyauth.ScopePlaylistReadPrivate}
	}

	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}

	return &Coordinator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Scopes returns the requested scopes.
func (c *Coordinator) Scopes() []string {
	return c.config.Scopes
}

// BuildAuthorizationURL returns the provider consent URL.
func (c *Coordinator) BuildAuthorizationURL() string {
	return c.config.AuthCodeURL("", spotifyauth.ShowDialog)
}

// AuthorizationURLWithState returns the consent URL carrying state, for callback servers that check it.
func (c *Coordinator) AuthorizationURLWithState(state string) string {
	return c.config.AuthCodeURL(state, spotifyauth.ShowDialog)
}

// ExchangeCode trades an authorization code for a token set.
func (c *Coordinator) ExchangeCode(ctx context.Context, code string) (*models.TokenSet, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", shared.ErrAuthExchange)
	}

	token, err := c.config.Exchange(withHTTPClient(ctx, c.httpClient), code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthExchange, err)
	}

	return c.tokenSet(token, strings.Join(c.config.Scopes, " ")), nil
}

// Validate reports whether t can be used as is: present, unexpired with [ExpirySkew], and covering every
// requested scope. It never refreshes.
func (c *Coordinator) Validate(t *models.TokenSet) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	if t.Expired(c.now(), ExpirySkew) {
		return false
	}
	return t.Covers(c.config.Scopes)
}

// RefreshIfNeeded exchanges the refresh token of an expired t for a new token set.
//
// An unexpired or nil t is returned unchanged with refreshed false. An expired t without a refresh token
// yields [shared.ErrNoRefreshToken]. When the provider omits a new refresh token the previous one is kept.
func (c *Coordinator) RefreshIfNeeded(ctx context.Context, t *models.TokenSet) (*models.TokenSet, bool, error) {
	if t == nil || !t.Expired(c.now(), ExpirySkew) {
		return t, false, nil
	}
	if !t.CanRefresh() {
		return nil, false, shared.ErrNoRefreshToken
	}
	if err := c.checkCredentials(); err != nil {
		return nil, false, err
	}

	// Without an access token oauth2 treats the token as invalid and always issues the refresh grant.
	src := c.config.TokenSource(withHTTPClient(ctx, c.httpClient), &oauth2.Token{RefreshToken: t.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	refreshed := c.tokenSet(token, t.Scope)
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = t.RefreshToken
	}
	return refreshed, true, nil
}

func (c *Coordinator) checkCredentials() error {
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return shared.ErrMissingCredentials
	}
	return nil
}

// tokenSet converts an [oauth2.Token]. Scope falls back to fallback when the provider omits it.
func (c *Coordinator) tokenSet(token *oauth2.Token, fallback string) *models.TokenSet {
	scope, _ := token.Extra("scope").(string)
	if scope == "" {
		scope = fallback
	}

	return &models.TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.Type(),
		Scope:        scope,
		ExpiresAt:    token.Expiry.UTC(),
	}
}

// oauthToken converts t back into an [oauth2.Token] for request signing.
func oauthToken(t *models.TokenSet) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.ExpiresAt,
	}
}
