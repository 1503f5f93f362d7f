package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const shutdownTimeout = 5 * time.Second

// Options wires the web front-end.
type Options struct {
	Auth       Authorizer
	Playlists  PlaylistFetcher
	Sessions   SessionStore
	Cookies    *CookieCodec
	SessionTTL time.Duration
	Logger     *log.Logger
}

// New builds the router for the web front-end.
//
// The health check is registered ahead of [SessionMiddleware] so probes never create sessions.
func New(opts Options) *BasicRouter {
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(opts.Logger), RecoveryMiddleware(opts.Logger))
	router.Handle(http.MethodGet, PathHealth, HealthHandler())

	router.Use(SessionMiddleware(opts.Sessions, opts.Cookies, opts.SessionTTL, opts.Logger))
	router.Handler(NewPlaylistHandler(opts.Auth, opts.Playlists, opts.Sessions, opts.Cookies, opts.Logger))

	opts.Logger.Debug("routes mounted", "patterns", router.Patterns())
	return router
}

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeListener(ctx, ln, handler, logger)
}

// ServeListener runs handler on ln until ctx is cancelled.
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler, logger *log.Logger) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infof("listening on http://%s", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
