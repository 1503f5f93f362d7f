package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/spotlists/internal/models"
	"github.com/desertthunder/spotlists/internal/shared"
)

const (
	FakeClientID     = "test_client_id"
	FakeClientSecret = "test_client_secret"
	FakeValidCode    = "VALID"
	FakeScope        = "playlist-read-private"
)

// FakeSpotify stands in for the Spotify accounts service and Web API.
//
// The token endpoint accepts [FakeValidCode] and any refresh token it has issued.
// The playlists endpoint accepts any access token it has issued and not revoked.
type FakeSpotify struct {
	Server *httptest.Server

	mu               sync.Mutex
	playlists        []models.PlaylistSummary
	accessTokens     map[string]bool
	refreshTokens    map[string]bool
	issued           int
	refreshes        int
	expiresIn        int
	scope            string
	omitRefreshToken bool
	playlistStatus   int
	malformed        bool
}

// NewFakeSpotify starts a fake serving playlists. The server is closed when the test ends.
func NewFakeSpotify(t *testing.T, playlists ...models.PlaylistSummary) *FakeSpotify {
	t.Helper()

	f := &FakeSpotify{
		playlists:     playlists,
		accessTokens:  make(map[string]bool),
		refreshTokens: make(map[string]bool),
		expiresIn:     3600,
		scope:         FakeScope,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", f.handleToken)
	mux.HandleFunc("GET /v1/me/playlists", f.handlePlaylists)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// Config returns Spotify settings pointing at the fake.
func (f *FakeSpotify) Config() shared.SpotifyConfig {
	return shared.SpotifyConfig{
		ClientID:     FakeClientID,
		ClientSecret: FakeClientSecret,
		RedirectURI:  "http://localhost:5000/callback",
		Scope:        FakeScope,
		AuthURL:      f.Server.URL + "/authorize",
		TokenURL:     f.Server.URL + "/api/token",
		APIURL:       f.Server.URL + "/v1/",
	}
}

// SetExpiresIn changes the lifetime reported for newly issued tokens.
func (f *FakeSpotify) SetExpiresIn(seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expiresIn = seconds
}

// SetScope changes the scope reported for newly issued tokens.
func (f *FakeSpotify) SetScope(scope string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scope = scope
}

// OmitRefreshToken makes refresh responses leave out the refresh token.
func (f *FakeSpotify) OmitRefreshToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.omitRefreshToken = true
}

// FailPlaylists makes the playlists endpoint answer with status.
func (f *FakeSpotify) FailPlaylists(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playlistStatus = status
}

// MalformedPlaylists makes the playlists endpoint return an unparsable body.
func (f *FakeSpotify) MalformedPlaylists() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.malformed = true
}

// RevokeAll invalidates every issued access token.
func (f *FakeSpotify) RevokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.accessTokens)
}

// Issue mints a token pair directly, as if a code exchange had happened.
func (f *FakeSpotify) Issue() (access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issue()
}

// Refreshes returns how many refresh grants were served.
func (f *FakeSpotify) Refreshes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *FakeSpotify) issue() (string, string) {
	f.issued++
	access := fmt.Sprintf("access-%d", f.issued)
	refresh := fmt.Sprintf("refresh-%d", f.issued)
	f.accessTokens[access] = true
	f.refreshTokens[refresh] = true
	return access, refresh
}

func (f *FakeSpotify) handleToken(w http.ResponseWriter, r *http.Request) {
	id, secret, ok := r.BasicAuth()
	if !ok || id != FakeClientID || secret != FakeClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	body := map[string]any{
		"token_type": "Bearer",
		"expires_in": f.expiresIn,
		"scope":      f.scope,
	}

	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		if r.PostForm.Get("code") != FakeValidCode {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid authorization code",
			})
			return
		}
		body["access_token"], body["refresh_token"] = f.issue()
	case "refresh_token":
		if !f.refreshTokens[r.PostForm.Get("refresh_token")] {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid refresh token",
			})
			return
		}
		f.refreshes++
		access, refresh := f.issue()
		body["access_token"] = access
		if !f.omitRefreshToken {
			body["refresh_token"] = refresh
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}

	writeJSON(w, http.StatusOK, body)
}

func (f *FakeSpotify) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !f.accessTokens[token] {
		writeAPIError(w, http.StatusUnauthorized, "The access token expired")
		return
	}

	if f.playlistStatus != 0 {
		writeAPIError(w, f.playlistStatus, http.StatusText(f.playlistStatus))
		return
	}

	if f.malformed {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"items": [`))
		return
	}

	items := make([]map[string]any, 0, len(f.playlists))
	for i, p := range f.playlists {
		items = append(items, map[string]any{
			"id":            fmt.Sprintf("pl%d", i),
			"name":          p.Name,
			"external_urls": map[string]string{"spotify": p.ExternalURL},
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"href":   r.URL.String(),
		"items":  items,
		"limit":  20,
		"offset": 0,
		"total":  len(items),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"status": status, "message": message},
	})
}
