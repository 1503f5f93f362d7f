package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotlists/internal/formatter"
	"github.com/desertthunder/spotlists/internal/models"
	"github.com/desertthunder/spotlists/internal/shared"
)

const (
	PathHome      = "/"
	PathCallback  = "/callback"
	PathPlaylists = "/get_playlists"
	PathLogout    = "/logout"
	PathHealth    = "/healthz"
)

// PlaylistHandler serves the authorization flow and the playlist listing.
// It expects [SessionMiddleware] to have loaded a session.
type PlaylistHandler struct {
	auth      Authorizer
	playlists PlaylistFetcher
	sessions  SessionStore
	cookies   *CookieCodec
	logger    *log.Logger
}

// NewPlaylistHandler creates a new [PlaylistHandler].
func NewPlaylistHandler(auth Authorizer, playlists PlaylistFetcher, sessions SessionStore, cookies *CookieCodec, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		auth:      auth,
		playlists: playlists,
		sessions:  sessions,
		cookies:   cookies,
		logger:    logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"GET /{$}",
		"GET " + PathCallback,
		"GET " + PathPlaylists,
		"GET " + PathLogout,
	}
}

// ServeHTTP dispatches to the route handlers.
func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		h.logger.Error("no session in request context", "path", r.URL.Path)
		writeFailure(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	switch r.URL.Path {
	case PathHome:
		h.Home(w, r, s)
	case PathCallback:
		h.Callback(w, r, s)
	case PathPlaylists:
		h.Playlists(w, r, s)
	case PathLogout:
		h.Logout(w, r, s)
	default:
		http.NotFound(w, r)
	}
}

// Home redirects to the playlists when the session holds a usable token and to the consent page otherwise.
func (h *PlaylistHandler) Home(w http.ResponseWriter, r *http.Request, s *models.Session) {
	token, err := h.currentToken(r.Context(), s)
	if err != nil {
		h.logger.Error("failed to load token", "session", s.ID(), "error", err)
		writeFailure(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	if !h.auth.Validate(token) {
		http.Redirect(w, r, h.auth.BuildAuthorizationURL(), http.StatusFound)
		return
	}

	http.Redirect(w, r, PathPlaylists, http.StatusFound)
}

// Callback exchanges the authorization code and stores the token set in the session.
//
// A provider error, a missing code, or a rejected code renders a 400 page. It never redirects back to the
// provider, which would loop on a persistent failure.
func (h *PlaylistHandler) Callback(w http.ResponseWriter, r *http.Request, s *models.Session) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		h.logger.Warn("provider denied authorization", "session", s.ID(), "error", providerErr)
		writeFailure(w, http.StatusBadRequest, "Authorization failed: "+providerErr)
		return
	}

	token, err := h.auth.ExchangeCode(r.Context(), q.Get("code"))
	switch {
	case errors.Is(err, shared.ErrConfig):
		h.logger.Error("cannot exchange code", "error", err)
		writeFailure(w, http.StatusInternalServerError, "The server is missing its Spotify credentials.")
		return
	case err != nil:
		h.logger.Warn("code exchange failed", "session", s.ID(), "error", err)
		writeFailure(w, http.StatusBadRequest, "Authorization failed: the authorization code was rejected.")
		return
	}

	if err := h.sessions.SaveToken(r.Context(), s.ID(), token); err != nil {
		h.logger.Error("failed to save token", "session", s.ID(), "error", err)
		writeFailure(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	http.Redirect(w, r, PathPlaylists, http.StatusFound)
}

// Playlists renders one "<name>: <url>" line per playlist.
func (h *PlaylistHandler) Playlists(w http.ResponseWriter, r *http.Request, s *models.Session) {
	ctx := r.Context()

	token, err := h.currentToken(ctx, s)
	if err != nil {
		h.logger.Error("failed to load token", "session", s.ID(), "error", err)
		writeFailure(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	if !h.auth.Validate(token) {
		http.Redirect(w, r, h.auth.BuildAuthorizationURL(), http.StatusFound)
		return
	}

	playlists, err := h.playlists.FetchCurrentUserPlaylists(ctx, token)
	switch {
	case errors.Is(err, shared.ErrAuth):
		h.logger.Info("access token rejected, restarting authorization", "session", s.ID())
		if err := h.sessions.ClearToken(ctx, s.ID()); err != nil {
			h.logger.Error("failed to clear token", "session", s.ID(), "error", err)
		}
		http.Redirect(w, r, h.auth.BuildAuthorizationURL(), http.StatusFound)
		return
	case err != nil:
		h.logger.Error("failed to fetch playlists", "session", s.ID(), "error", err)
		writeFailure(w, http.StatusBadGateway, "Spotify could not be reached. Try again later.")
		return
	}

	writeText(w, http.StatusOK, formatter.RenderText(playlists))
}

// Logout deletes the session with its cached token set and expires the cookie.
func (h *PlaylistHandler) Logout(w http.ResponseWriter, r *http.Request, s *models.Session) {
	if err := h.sessions.Delete(r.Context(), s.ID()); err != nil {
		h.logger.Error("failed to delete session", "session", s.ID(), "error", err)
	}

	http.SetCookie(w, h.cookies.Expire())
	http.Redirect(w, r, PathHome, http.StatusFound)
}

// currentToken returns the session's token set, refreshed when it has expired.
//
// An auth failure during refresh clears the cached token and yields nil, which sends the user back to consent.
func (h *PlaylistHandler) currentToken(ctx context.Context, s *models.Session) (*models.TokenSet, error) {
	token, refreshed, err := h.auth.RefreshIfNeeded(ctx, s.Token())
	if errors.Is(err, shared.ErrAuth) {
		h.logger.Info("cached token unusable", "session", s.ID(), "reason", err)
		if err := h.sessions.ClearToken(ctx, s.ID()); err != nil {
			return nil, err
		}
		s.ClearToken()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if refreshed {
		if err := h.sessions.SaveToken(ctx, s.ID(), token); err != nil {
			return nil, fmt.Errorf("failed to save refreshed token: %w", err)
		}
		s.SetToken(token)
		h.logger.Debug("refreshed access token", "session", s.ID())
	}

	return token, nil
}

// HealthHandler answers liveness probes.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Cache-Control", "no-store")
	writeText(w, status, message+"\n")
}
