package port

//go:generate mockgen -source=session_port.go -destination=../mocks/mock_session_port.go

import (
	"context"

	"postboard/app/domain"
)

// SessionSyncUsecase mirrors client auth-state transitions into the
// server-side session store so future server-rendered requests observe
// the same session
type SessionSyncUsecase interface {
	ApplyEvent(ctx context.Context, event domain.AuthEvent) error
}

// SessionRepository defines data access for mirrored sessions
type SessionRepository interface {
	Upsert(ctx context.Context, session *domain.MirroredSession) error
	GetByToken(ctx context.Context, token string) (*domain.MirroredSession, error)
	Deactivate(ctx context.Context, token string) error
	TouchActivity(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// CSRFRepository defines data access for one-time CSRF tokens
type CSRFRepository interface {
	Store(ctx context.Context, token *domain.CSRFToken) error
	Get(ctx context.Context, token string) (*domain.CSRFToken, error)
	Delete(ctx context.Context, token string) error
}
