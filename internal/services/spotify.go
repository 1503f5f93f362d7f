// Spotify Web API client for the current user's playlists
//
// Response types come from github.com/zmb3/spotify/v2, see https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/spotlists/internal/models"
	"github.com/desertthunder/spotlists/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// PlaylistClient fetches playlist summaries on behalf of a token holder.
type PlaylistClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPlaylistClient creates a [PlaylistClient].
//
// An empty baseURL uses the public Web API. A nil httpClient falls back to [NewHTTPClient] with the default timeout.
func NewPlaylistClient(baseURL string, httpClient *http.Client) *PlaylistClient {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &PlaylistClient{baseURL: baseURL, httpClient: httpClient}
}

// statusRecorder remembers the status code of the last response it carried.
type statusRecorder struct {
	next   http.RoundTripper
	status int
}

func (s *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := s.next.RoundTrip(req)
	if resp != nil {
		s.status = resp.StatusCode
	}
	return resp, err
}

// client builds a zmb3 client authorized with t only. The token is never refreshed here.
// Responses pass through rec so callers can classify failures by status code.
func (p *PlaylistClient) client(ctx context.Context, t *models.TokenSet, rec *statusRecorder) *spotify.Client {
	rec.next = p.httpClient.Transport
	if rec.next == nil {
		rec.next = http.DefaultTransport
	}
	base := &http.Client{Transport: rec, Timeout: p.httpClient.Timeout}

	src := oauth2.StaticTokenSource(oauthToken(t))
	httpClient := oauth2.NewClient(withHTTPClient(ctx, base), src)
	httpClient.Timeout = p.httpClient.Timeout

	opts := []spotify.ClientOption{spotify.WithRetry(false)}
	if p.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(p.baseURL))
	}
	return spotify.New(httpClient, opts...)
}

// FetchCurrentUserPlaylists returns the first page of the token holder's playlists.
//
// A 401 from the API yields [shared.ErrAuth] whatever its body, and the caller must send the user back through consent.
// Every other failure yields [shared.ErrUpstream].
func (p *PlaylistClient) FetchCurrentUserPlaylists(ctx context.Context, t *models.TokenSet) ([]models.PlaylistSummary, error) {
	if t == nil || t.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", shared.ErrAuth)
	}

	rec := &statusRecorder{}
	page, err := p.client(ctx, t, rec).CurrentUsersPlaylists(ctx)
	if err != nil {
		if rec.status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", shared.ErrAuth, err)
		}
		return nil, classifyAPIError(err)
	}

	summaries := make([]models.PlaylistSummary, 0, len(page.Playlists))
	for _, pl := range page.Playlists {
		summaries = append(summaries, models.PlaylistSummary{
			Name:        pl.Name,
			ExternalURL: pl.ExternalURLs["spotify"],
		})
	}
	return summaries, nil
}

func classifyAPIError(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return statusError(apiErr)
	}

	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return statusError(*apiErrPtr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", shared.ErrUpstream, shared.ErrTimeout)
	}
	return fmt.Errorf("%w: %w", shared.ErrUpstream, err)
}

func statusError(e spotify.Error) error {
	if e.Status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", shared.ErrAuth, e.Message)
	}
	return fmt.Errorf("%w: status %d: %s", shared.ErrUpstream, e.Status, e.Message)
}
