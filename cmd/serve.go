package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotlists/internal/repositories"
	"github.com/desertthunder/spotlists/internal/server"
	"github.com/desertthunder/spotlists/internal/services"
	"github.com/desertthunder/spotlists/internal/shared"
	"github.com/urfave/cli/v3"
)

// sessionSecretSize is the length in bytes of the per-process cookie signing key.
const sessionSecretSize = 64

// Serve runs the web front-end until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("debug") {
		r.logger.SetLevel(log.DebugLevel)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	addr := config.Server.Addr()
	if override := cmd.String("addr"); override != "" {
		addr = override
	}

	handler, cleanup, err := r.buildWebApp(config)
	if err != nil {
		return err
	}
	defer cleanup()

	r.logger.Info("redirect uri", "uri", config.Credentials.Spotify.RedirectURI)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, addr, handler, r.logger)
}

// buildWebApp wires the session store, OAuth coordinator, and playlist client into the router.
// The returned cleanup closes the session database.
func (r *Runner) buildWebApp(config *shared.Config) (http.Handler, func(), error) {
	db, err := shared.NewSessionDatabase()
	if err != nil {
		return nil, nil, err
	}

	secret, err := shared.GenerateSecret(sessionSecretSize)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to generate session secret: %w", err)
	}

	client := r.client(config)
	sp := config.Credentials.Spotify
	ttl := config.Server.SessionTTL.Duration

	handler := server.New(server.Options{
		Auth:       services.NewCoordinator(sp, client),
		Playlists:  services.NewPlaylistClient(sp.APIURL, client),
		Sessions:   repositories.NewSessionRepository(db),
		Cookies:    server.NewCookieCodec(config.Server.CookieName, secret, ttl, config.Server.SecureCookie),
		SessionTTL: ttl,
		Logger:     r.logger,
	})

	return handler, func() { db.Close() }, nil
}
