package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotlists/internal/models"
	"github.com/desertthunder/spotlists/internal/shared"
)

const sessionColumns = `id, access_token, refresh_token, token_type, scope, token_expires_at, created_at, updated_at, expires_at`

// SessionRepository implements [models.Repository] for [models.Session] persistence.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ models.Repository[*models.Session] = (*SessionRepository)(nil)

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Create prunes expired sessions, then inserts s with a generated ID.
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	if _, err := r.PruneExpired(ctx); err != nil {
		return err
	}

	s.SetID(shared.GenerateID())

	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	access, refresh, tokenType, scope, tokenExpiry := tokenColumns(s.Token())
	_, err := r.db.ExecContext(ctx, query,
		s.ID(), access, refresh, tokenType, scope, tokenExpiry,
		unix(s.CreatedAt()), unix(s.UpdatedAt()), unix(s.ExpiresAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a live session by ID.
// Unknown and expired sessions both yield [shared.ErrSessionNotFound].
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND expires_at > ?`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id, unix(r.now())))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return s, nil
}

// Update writes the token set and expiry of s.
func (r *SessionRepository) Update(ctx context.Context, s *models.Session) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := r.now().UTC()
	s.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET access_token = ?, refresh_token = ?, token_type = ?, scope = ?, token_expires_at = ?,
			updated_at = ?, expires_at = ?
		WHERE id = ?
	`

	access, refresh, tokenType, scope, tokenExpiry := tokenColumns(s.Token())
	res, err := r.db.ExecContext(ctx, query,
		access, refresh, tokenType, scope, tokenExpiry,
		unix(now), unix(s.ExpiresAt()), s.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, s.ID())
	}

	return nil
}

// Delete removes a session by ID. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SaveToken overwrites the token set cached for session id.
func (r *SessionRepository) SaveToken(ctx context.Context, id string, token *models.TokenSet) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("token set requires an access token")
	}

	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	s.SetToken(token)
	return r.Update(ctx, s)
}

// ClearToken drops the token set cached for session id.
// It succeeds whether or not the session exists.
func (r *SessionRepository) ClearToken(ctx context.Context, id string) error {
	query := `
		UPDATE sessions
		SET access_token = NULL, refresh_token = NULL, token_type = NULL, scope = NULL, token_expires_at = NULL,
			updated_at = ?
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, unix(r.now()), id); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// PruneExpired deletes sessions past their expiry and returns how many were removed.
func (r *SessionRepository) PruneExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, unix(r.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	n, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	var (
		id                          string
		access, refresh             sql.NullString
		tokenType, scope            sql.NullString
		tokenExpiry                 sql.NullInt64
		createdAt, updatedAt, expAt int64
	)

	if err := row.Scan(&id, &access, &refresh, &tokenType, &scope, &tokenExpiry, &createdAt, &updatedAt, &expAt); err != nil {
		return nil, err
	}

	var token *models.TokenSet
	if access.Valid {
		token = &models.TokenSet{
			AccessToken:  access.String,
			RefreshToken: refresh.String,
			TokenType:    tokenType.String,
			Scope:        scope.String,
		}
		if tokenExpiry.Valid {
			token.ExpiresAt = fromUnix(tokenExpiry.Int64)
		}
	}

	return models.RestoreSession(id, token, fromUnix(createdAt), fromUnix(updatedAt), fromUnix(expAt)), nil
}

// tokenColumns flattens t into nullable column values.
func tokenColumns(t *models.TokenSet) (access, refresh, tokenType, scope sql.NullString, expiry sql.NullInt64) {
	if t == nil {
		return
	}
	access = nullString(t.AccessToken)
	refresh = nullString(t.RefreshToken)
	tokenType = nullString(t.TokenType)
	scope = nullString(t.Scope)
	if !t.ExpiresAt.IsZero() {
		expiry = sql.NullInt64{Int64: unix(t.ExpiresAt), Valid: true}
	}
	return
}
