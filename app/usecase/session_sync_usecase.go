package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postboard/app/domain"
	"postboard/app/port"
)

// SessionSyncUsecase mirrors auth-state events into the server-side
// session store. Signed-in events upsert a mirrored session keyed by
// the bearer token; sign-out deactivates it.
type SessionSyncUsecase struct {
	sessionRepo    port.SessionRepository
	sessionTimeout time.Duration
	logger         *slog.Logger
}

// NewSessionSyncUsecase creates a new session sync usecase
func NewSessionSyncUsecase(
	sessionRepo port.SessionRepository,
	sessionTimeout time.Duration,
	logger *slog.Logger,
) port.SessionSyncUsecase {
	return &SessionSyncUsecase{
		sessionRepo:    sessionRepo,
		sessionTimeout: sessionTimeout,
		logger:         logger.With("component", "session_sync_usecase"),
	}
}

// ApplyEvent applies one auth-state transition to the server-side mirror
func (u *SessionSyncUsecase) ApplyEvent(ctx context.Context, event domain.AuthEvent) error {
	if !event.Type.Valid() {
		return fmt.Errorf("%w: unknown auth event %q", domain.ErrInvalidInput, event.Type)
	}

	if event.Type.SignedIn() {
		if event.Session == nil || event.Session.Token == "" {
			return fmt.Errorf("%w: %s event without a session", domain.ErrInvalidInput, event.Type)
		}

		mirrored, err := domain.NewMirroredSession(event.Session, u.sessionTimeout)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}

		if err := u.sessionRepo.Upsert(ctx, mirrored); err != nil {
			return err
		}

		u.logger.Info("mirrored session upserted",
			"event", event.Type,
			"user_id", mirrored.UserID)
		return nil
	}

	// SIGNED_OUT: deactivate the mirror when the event still carries a
	// token; without one there is nothing to address.
	if event.Session == nil || event.Session.Token == "" {
		u.logger.Debug("sign-out event without a token, nothing to deactivate")
		return nil
	}

	if err := u.sessionRepo.Deactivate(ctx, event.Session.Token); err != nil {
		return err
	}

	u.logger.Info("mirrored session deactivated")
	return nil
}
