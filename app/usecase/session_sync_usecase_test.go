package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"postboard/app/domain"
	mock_port "postboard/app/mocks"
)

func TestSessionSyncUsecase_ApplyEvent_SignedIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := testSession(t)

	mockRepo := mock_port.NewMockSessionRepository(ctrl)
	mockRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mirrored *domain.MirroredSession) error {
			assert.Equal(t, session.Token, mirrored.Token)
			assert.Equal(t, session.User.ID, mirrored.UserID)
			assert.Equal(t, session.User.Email, mirrored.UserEmail)
			assert.True(t, mirrored.Active)
			return nil
		})

	u := NewSessionSyncUsecase(mockRepo, 24*time.Hour, testLogger(t))

	err := u.ApplyEvent(context.Background(), domain.AuthEvent{
		Type:    domain.EventSignedIn,
		Session: session,
	})
	require.NoError(t, err)
}

func TestSessionSyncUsecase_ApplyEvent_TokenRefreshedUpserts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mock_port.NewMockSessionRepository(ctrl)
	mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	u := NewSessionSyncUsecase(mockRepo, 24*time.Hour, testLogger(t))

	err := u.ApplyEvent(context.Background(), domain.AuthEvent{
		Type:    domain.EventTokenRefreshed,
		Session: testSession(t),
	})
	assert.NoError(t, err)
}

func TestSessionSyncUsecase_ApplyEvent_SignedOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := testSession(t)

	mockRepo := mock_port.NewMockSessionRepository(ctrl)
	mockRepo.EXPECT().Deactivate(gomock.Any(), session.Token).Return(nil)

	u := NewSessionSyncUsecase(mockRepo, 24*time.Hour, testLogger(t))

	err := u.ApplyEvent(context.Background(), domain.AuthEvent{
		Type:    domain.EventSignedOut,
		Session: session,
	})
	assert.NoError(t, err)
}

func TestSessionSyncUsecase_ApplyEvent_SignedOutWithoutToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no repository call expected
	mockRepo := mock_port.NewMockSessionRepository(ctrl)

	u := NewSessionSyncUsecase(mockRepo, 24*time.Hour, testLogger(t))

	err := u.ApplyEvent(context.Background(), domain.AuthEvent{Type: domain.EventSignedOut})
	assert.NoError(t, err)
}

func TestSessionSyncUsecase_ApplyEvent_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	u := NewSessionSyncUsecase(mock_port.NewMockSessionRepository(ctrl), 24*time.Hour, testLogger(t))

	tests := []struct {
		name  string
		event domain.AuthEvent
	}{
		{name: "unknown event type", event: domain.AuthEvent{Type: "BOGUS"}},
		{name: "signed-in without session", event: domain.AuthEvent{Type: domain.EventSignedIn}},
		{
			name: "signed-in without token",
			event: domain.AuthEvent{
				Type:    domain.EventSignedIn,
				Session: &domain.Session{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.ApplyEvent(context.Background(), tt.event)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
