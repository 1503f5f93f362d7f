package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/spotlists/internal/models"
	"github.com/desertthunder/spotlists/internal/shared"
)

// setupTestDB creates the in-memory session database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewSessionDatabase()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testToken() *models.TokenSet {
	return &models.TokenSet{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		TokenType:    "Bearer",
		Scope:        "playlist-read-private",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)

		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if session.ID() == "" {
			t.Error("session ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		retrieved, err := repo.Get(ctx, session.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}

		if retrieved.ID() != session.ID() {
			t.Errorf("expected ID %s, got %s", session.ID(), retrieved.ID())
		}
		if retrieved.Authorized() {
			t.Error("new session should not carry a token")
		}
		if !retrieved.ExpiresAt().Equal(session.ExpiresAt().Truncate(time.Second)) {
			t.Errorf("expected expiry %v, got %v", session.ExpiresAt(), retrieved.ExpiresAt())
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		_, err := repo.Get(ctx, "nope")
		if !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("GetExpired", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		repo.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := repo.Get(ctx, session.ID())
		if !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound for expired session, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		later := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
		session.SetExpiresAt(later)
		if err := repo.Update(ctx, session); err != nil {
			t.Fatalf("failed to update session: %v", err)
		}

		retrieved, err := repo.Get(ctx, session.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if !retrieved.ExpiresAt().Equal(later) {
			t.Errorf("expected expiry %v, got %v", later, retrieved.ExpiresAt())
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.RestoreSession("ghost", nil, time.Now(), time.Now(), time.Now().Add(time.Hour))

		if err := repo.Update(ctx, session); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if err := repo.Delete(ctx, session.ID()); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}

		if _, err := repo.Get(ctx, session.ID()); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}

		if err := repo.Delete(ctx, session.ID()); err != nil {
			t.Errorf("deleting a missing session should not fail: %v", err)
		}
	})
}

// tokenOf loads the token set cached for session id.
func tokenOf(ctx context.Context, repo *SessionRepository, id string) (*models.TokenSet, error) {
	s, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Token(), nil
}

func TestSessionRepositoryTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveToken", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		want := testToken()
		if err := repo.SaveToken(ctx, session.ID(), want); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		got, err := tokenOf(ctx, repo, session.ID())
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if got == nil {
			t.Fatal("expected token to be stored")
		}
		if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
			t.Errorf("expected %+v, got %+v", want, got)
		}
		if got.Scope != want.Scope || got.TokenType != want.TokenType {
			t.Errorf("expected scope %q type %q, got %q %q", want.Scope, want.TokenType, got.Scope, got.TokenType)
		}
		if !got.ExpiresAt.Equal(want.ExpiresAt) {
			t.Errorf("expected token expiry %v, got %v", want.ExpiresAt, got.ExpiresAt)
		}
	})

	t.Run("SaveTokenOverwrites", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		first := testToken()
		second := testToken()
		second.AccessToken = "access-789"

		if err := repo.SaveToken(ctx, session.ID(), first); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
		if err := repo.SaveToken(ctx, session.ID(), second); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		got, err := tokenOf(ctx, repo, session.ID())
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if got.AccessToken != "access-789" {
			t.Errorf("expected overwritten access token, got %q", got.AccessToken)
		}
	})

	t.Run("SaveTokenRejectsEmpty", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if err := repo.SaveToken(ctx, session.ID(), &models.TokenSet{}); err == nil {
			t.Error("expected error for empty access token")
		}
		if err := repo.SaveToken(ctx, session.ID(), nil); err == nil {
			t.Error("expected error for nil token")
		}
	})

	t.Run("SaveTokenMissingSession", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.SaveToken(ctx, "ghost", testToken()); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("ClearToken", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := models.NewSession(time.Hour)
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if err := repo.SaveToken(ctx, session.ID(), testToken()); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		if err := repo.ClearToken(ctx, session.ID()); err != nil {
			t.Fatalf("failed to clear token: %v", err)
		}

		got, err := tokenOf(ctx, repo, session.ID())
		if err != nil {
			t.Fatalf("session should survive a cleared token: %v", err)
		}
		if got != nil {
			t.Errorf("expected no token after clear, got %+v", got)
		}
	})

	t.Run("ClearTokenMissingSession", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.ClearToken(ctx, "ghost"); err != nil {
			t.Errorf("clearing a missing session should not fail: %v", err)
		}
	})
}

func TestSessionRepositoryPrune(t *testing.T) {
	ctx := context.Background()

	t.Run("PruneExpired", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		short := models.NewSession(time.Minute)
		long := models.NewSession(24 * time.Hour)
		for _, s := range []*models.Session{short, long} {
			if err := repo.Create(ctx, s); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		repo.now = func() time.Time { return time.Now().Add(time.Hour) }

		n, err := repo.PruneExpired(ctx)
		if err != nil {
			t.Fatalf("failed to prune sessions: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 pruned session, got %d", n)
		}

		if _, err := repo.Get(ctx, long.ID()); err != nil {
			t.Errorf("live session should survive pruning: %v", err)
		}
	})

	t.Run("CreatePrunes", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)

		if err := repo.Create(ctx, models.NewSession(time.Minute)); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		repo.now = func() time.Time { return time.Now().Add(time.Hour) }
		if err := repo.Create(ctx, models.NewSession(24*time.Hour)); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
			t.Fatalf("failed to count sessions: %v", err)
		}
		if count != 1 {
			t.Errorf("expected expired session to be pruned on create, got %d rows", count)
		}
	})
}
