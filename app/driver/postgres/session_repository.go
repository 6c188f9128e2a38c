package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"postboard/app/domain"
	"postboard/app/port"
)

// SessionRepository implements port.SessionRepository for PostgreSQL.
// It holds the server-side mirror of client sessions: one row per
// session token, written on every forwarded auth event so that
// server-rendered requests see the same session the client store holds.
type SessionRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db DatabaseIface, logger *slog.Logger) port.SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger.With("component", "session_repository"),
	}
}

// Upsert inserts the mirrored session or refreshes the existing row for
// the same token
func (r *SessionRepository) Upsert(ctx context.Context, session *domain.MirroredSession) error {
	query := `
		INSERT INTO mirrored_sessions (
			id, user_id, user_email, token, active,
			created_at, expires_at, updated_at, last_activity_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token) DO UPDATE SET
			active = EXCLUDED.active,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at,
			last_activity_at = EXCLUDED.last_activity_at`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.UserEmail,
		session.Token,
		session.Active,
		session.CreatedAt,
		session.ExpiresAt,
		session.UpdatedAt,
		session.LastActivityAt,
	)
	if err != nil {
		r.logger.Error("failed to upsert mirrored session", "session_id", session.ID, "error", err)
		return fmt.Errorf("failed to upsert mirrored session: %w", err)
	}

	r.logger.Info("mirrored session upserted", "session_id", session.ID, "user_id", session.UserID)
	return nil
}

// GetByToken returns the mirrored session for a token or
// domain.ErrSessionNotFound
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.MirroredSession, error) {
	query := `
		SELECT id, user_id, user_email, token, active,
		       created_at, expires_at, updated_at, last_activity_at
		FROM mirrored_sessions
		WHERE token = $1`

	session := &domain.MirroredSession{}
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.UserEmail,
		&session.Token,
		&session.Active,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.UpdatedAt,
		&session.LastActivityAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		r.logger.Error("failed to get mirrored session", "error", err)
		return nil, fmt.Errorf("failed to get mirrored session: %w", err)
	}

	return session, nil
}

// Deactivate marks the mirrored session for a token as inactive
func (r *SessionRepository) Deactivate(ctx context.Context, token string) error {
	query := `
		UPDATE mirrored_sessions
		SET active = false, updated_at = NOW()
		WHERE token = $1`

	tag, err := r.db.Exec(ctx, query, token)
	if err != nil {
		r.logger.Error("failed to deactivate mirrored session", "error", err)
		return fmt.Errorf("failed to deactivate mirrored session: %w", err)
	}

	r.logger.Info("mirrored session deactivated", "rows_affected", tag.RowsAffected())
	return nil
}

// TouchActivity updates the last activity timestamp for a token
func (r *SessionRepository) TouchActivity(ctx context.Context, token string) error {
	query := `
		UPDATE mirrored_sessions
		SET last_activity_at = NOW(), updated_at = NOW()
		WHERE token = $1 AND active = true`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		r.logger.Error("failed to touch mirrored session", "error", err)
		return fmt.Errorf("failed to touch mirrored session: %w", err)
	}

	return nil
}

// DeleteExpired removes mirrored sessions past their expiry
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM mirrored_sessions
		WHERE expires_at < NOW()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		r.logger.Error("failed to delete expired sessions", "error", err)
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.logger.Info("expired sessions deleted", "count", tag.RowsAffected())
	}
	return tag.RowsAffected(), nil
}
