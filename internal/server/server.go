// package server contains middleware & handlers for the playlist web front-end
package server

import (
	"context"
	"net/http"

	"github.com/desertthunder/spotlists/internal/models"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, panic recovery and session loading.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the web front-end.
// Implementations handle a group of endpoints.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	Patterns() []string                               // Patterns lists the registered route patterns
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Authorizer runs the OAuth authorization-code flow.
type Authorizer interface {
	BuildAuthorizationURL() string
	ExchangeCode(ctx context.Context, code string) (*models.TokenSet, error)
	Validate(token *models.TokenSet) bool
	RefreshIfNeeded(ctx context.Context, token *models.TokenSet) (*models.TokenSet, bool, error)
}

// PlaylistFetcher reads the token holder's playlists.
type PlaylistFetcher interface {
	FetchCurrentUserPlaylists(ctx context.Context, token *models.TokenSet) ([]models.PlaylistSummary, error)
}

// SessionStore persists browser sessions and the token set cached in each.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	SaveToken(ctx context.Context, id string, token *models.TokenSet) error
	ClearToken(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
