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

// CSRFRepository implements port.CSRFRepository for PostgreSQL
type CSRFRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewCSRFRepository creates a new PostgreSQL CSRF token repository
func NewCSRFRepository(db DatabaseIface, logger *slog.Logger) port.CSRFRepository {
	return &CSRFRepository{
		db:     db,
		logger: logger.With("component", "csrf_repository"),
	}
}

// Store persists a CSRF token
func (r *CSRFRepository) Store(ctx context.Context, token *domain.CSRFToken) error {
	query := `
		INSERT INTO csrf_tokens (token, client_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		token.Token,
		token.ClientID,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		r.logger.Error("failed to store CSRF token", "error", err)
		return fmt.Errorf("failed to store CSRF token: %w", err)
	}

	return nil
}

// Get retrieves a CSRF token or domain.ErrInvalidCSRFToken
func (r *CSRFRepository) Get(ctx context.Context, token string) (*domain.CSRFToken, error) {
	query := `
		SELECT token, client_id, created_at, expires_at
		FROM csrf_tokens
		WHERE token = $1`

	csrfToken := &domain.CSRFToken{}
	err := r.db.QueryRow(ctx, query, token).Scan(
		&csrfToken.Token,
		&csrfToken.ClientID,
		&csrfToken.CreatedAt,
		&csrfToken.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidCSRFToken
		}
		r.logger.Error("failed to get CSRF token", "error", err)
		return nil, fmt.Errorf("failed to get CSRF token: %w", err)
	}

	return csrfToken, nil
}

// Delete removes a CSRF token after its one-time use
func (r *CSRFRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM csrf_tokens WHERE token = $1`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		r.logger.Error("failed to delete CSRF token", "error", err)
		return fmt.Errorf("failed to delete CSRF token: %w", err)
	}

	return nil
}
