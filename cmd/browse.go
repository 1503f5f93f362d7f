package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotlists/internal/models"
	"github.com/desertthunder/spotlists/internal/server"
	"github.com/desertthunder/spotlists/internal/services"
	"github.com/desertthunder/spotlists/internal/shared"
	"github.com/desertthunder/spotlists/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse signs in through the browser, then shows the playlists in the terminal UI.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	coordinator, playlists, token, err := r.signIn(ctx, config)
	if err != nil {
		return err
	}

	restore, err := r.redirectLogs(cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer restore()

	model := ui.NewModel(ctx, r.playlistFetcher(coordinator, playlists, token), r.openBrowser)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// signIn builds the coordinator and playlist client for config and runs the browser authorization flow.
func (r *Runner) signIn(ctx context.Context, config *shared.Config) (*services.Coordinator, *services.PlaylistClient, *models.TokenSet, error) {
	client := r.client(config)
	sp := config.Credentials.Spotify
	coordinator := services.NewCoordinator(sp, client)
	playlists := services.NewPlaylistClient(sp.APIURL, client)

	token, err := r.authorize(ctx, coordinator, sp.RedirectURI)
	if err != nil {
		return nil, nil, nil, err
	}

	r.writeStatus("✓ Signed in to Spotify\n")
	return coordinator, playlists, token, nil
}

// playlistFetcher returns a [ui.FetchFunc] that refreshes token when it expires between reloads.
func (r *Runner) playlistFetcher(coordinator *services.Coordinator, playlists *services.PlaylistClient, token *models.TokenSet) ui.FetchFunc {
	return func(ctx context.Context) ([]models.PlaylistSummary, error) {
		refreshed, ok, err := coordinator.RefreshIfNeeded(ctx, token)
		if err != nil {
			return nil, err
		}
		if ok {
			r.logger.Debug("refreshed access token")
			token = refreshed
		}
		return playlists.FetchCurrentUserPlaylists(ctx, token)
	}
}

// authorize runs a one-shot callback server on the redirect URI, sends the user to the consent page,
// and waits for the callback.
func (r *Runner) authorize(ctx context.Context, coordinator *services.Coordinator, redirectURI string) (*models.TokenSet, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	callback, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}
	path := callback.Path
	if path == "" {
		path = "/"
	}

	oauthHandler := server.NewOAuthHandler(coordinator, state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handle(http.MethodGet, path, oauthHandler)

	ln, err := net.Listen("tcp", callback.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", callback.Host, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := coordinator.AuthorizationURLWithState(state)

	r.writeStatus("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writeStatus("\n⚠ Could not open browser automatically.\n")
		r.writeStatus("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writeStatus("→ Waiting for authorization (%v timeout)...\n", r.authTimeout)

	timeout := time.NewTimer(r.authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, r.authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthExchange)
	}

	return result.Token, nil
}

// redirectLogs points the logger away from the terminal while the TUI owns it.
// An empty path discards logs. The returned func restores stderr.
func (r *Runner) redirectLogs(path string) (func(), error) {
	if path == "" {
		r.logger.SetOutput(io.Discard)
		return func() { r.logger.SetOutput(os.Stderr) }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	r.logger.SetOutput(f)
	return func() {
		r.logger.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
