package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotlists/internal/models"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session loaded by [SessionMiddleware].
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*models.Session)
	return s, ok && s != nil
}

// SessionMiddleware loads the session named by the request cookie into the request context.
//
// A missing, forged, or expired cookie, or one naming a session the store no longer has, starts a new
// session and sets a fresh cookie.
func SessionMiddleware(store SessionStore, cookies *CookieCodec, ttl time.Duration, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id, err := cookies.Decode(r); err == nil {
				if s, err := store.Get(ctx, id); err == nil {
					next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))
					return
				}
				logger.Debug("session cookie names unknown session", "session", id)
			}

			s := models.NewSession(ttl)
			if err := store.Create(ctx, s); err != nil {
				logger.Error("failed to create session", "error", err)
				writeFailure(w, http.StatusInternalServerError, "Could not start a session.")
				return
			}

			cookie, err := cookies.Encode(s.ID())
			if err != nil {
				logger.Error("failed to encode session cookie", "error", err)
				writeFailure(w, http.StatusInternalServerError, "Could not start a session.")
				return
			}
			http.SetCookie(w, cookie)

			logger.Debug("started session", "session", s.ID())
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status and duration of every request.
//
// The query string is left out since the callback carries the authorization code.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// RecoveryMiddleware turns a handler panic into a 500 response.
func RecoveryMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
					writeFailure(w, http.StatusInternalServerError, "Something went wrong.")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
