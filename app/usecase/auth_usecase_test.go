package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"postboard/app/domain"
	mock_port "postboard/app/mocks"
	"postboard/app/utils/logger"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()

	l, err := logger.New("debug")
	require.NoError(t, err)
	return l
}

func testSession(t *testing.T) *domain.Session {
	t.Helper()

	user, err := domain.NewUser(uuid.New(), "test@example.com")
	require.NoError(t, err)

	return &domain.Session{
		Token:     "session-token-123",
		TokenType: "bearer",
		User:      user,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestAuthUsecase_ResolveSession(t *testing.T) {
	tests := []struct {
		name         string
		sessionToken string
		setupMocks   func(*mock_port.MockAuthGateway, *mock_port.MockSessionRepository)
		wantErr      error
	}{
		{
			name:         "valid session",
			sessionToken: "session-token-123",
			setupMocks: func(gateway *mock_port.MockAuthGateway, repo *mock_port.MockSessionRepository) {
				gateway.EXPECT().WhoAmI(gomock.Any(), "session-token-123").Return(testSession(t), nil)
				repo.EXPECT().GetByToken(gomock.Any(), "session-token-123").Return(nil, domain.ErrSessionNotFound)
				repo.EXPECT().TouchActivity(gomock.Any(), "session-token-123").Return(nil)
			},
		},
		{
			name:         "mirror deactivated by a sign-out event",
			sessionToken: "session-token-123",
			setupMocks: func(gateway *mock_port.MockAuthGateway, repo *mock_port.MockSessionRepository) {
				gateway.EXPECT().WhoAmI(gomock.Any(), "session-token-123").Return(testSession(t), nil)

				mirrored, err := domain.NewMirroredSession(testSession(t), time.Hour)
				require.NoError(t, err)
				mirrored.Deactivate()
				repo.EXPECT().GetByToken(gomock.Any(), "session-token-123").Return(mirrored, nil)
			},
			wantErr: domain.ErrSessionExpired,
		},
		{
			name:         "empty token",
			sessionToken: "",
			setupMocks:   func(*mock_port.MockAuthGateway, *mock_port.MockSessionRepository) {},
			wantErr:      domain.ErrSessionNotFound,
		},
		{
			name:         "gateway rejects token",
			sessionToken: "bad-token",
			setupMocks: func(gateway *mock_port.MockAuthGateway, repo *mock_port.MockSessionRepository) {
				gateway.EXPECT().WhoAmI(gomock.Any(), "bad-token").Return(nil, domain.ErrInvalidSession)
			},
			wantErr: domain.ErrInvalidSession,
		},
		{
			name:         "expired session",
			sessionToken: "expired-token",
			setupMocks: func(gateway *mock_port.MockAuthGateway, repo *mock_port.MockSessionRepository) {
				gateway.EXPECT().WhoAmI(gomock.Any(), "expired-token").Return(&domain.Session{
					Token:     "expired-token",
					ExpiresAt: time.Now().Add(-time.Minute),
				}, nil)
			},
			wantErr: domain.ErrSessionExpired,
		},
		{
			name:         "activity touch failure is not fatal",
			sessionToken: "session-token-123",
			setupMocks: func(gateway *mock_port.MockAuthGateway, repo *mock_port.MockSessionRepository) {
				gateway.EXPECT().WhoAmI(gomock.Any(), "session-token-123").Return(testSession(t), nil)
				repo.EXPECT().GetByToken(gomock.Any(), "session-token-123").Return(nil, domain.ErrSessionNotFound)
				repo.EXPECT().TouchActivity(gomock.Any(), "session-token-123").Return(assert.AnError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGateway := mock_port.NewMockAuthGateway(ctrl)
			mockSessions := mock_port.NewMockSessionRepository(ctrl)
			mockCSRF := mock_port.NewMockCSRFRepository(ctrl)
			tt.setupMocks(mockGateway, mockSessions)

			u := NewAuthUsecase(mockGateway, mockSessions, mockCSRF, 32, testLogger(t))

			session, err := u.ResolveSession(context.Background(), tt.sessionToken)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, session)
				assert.Equal(t, tt.sessionToken, session.Token)
			}
		})
	}
}

func TestAuthUsecase_SignOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGateway := mock_port.NewMockAuthGateway(ctrl)
	mockSessions := mock_port.NewMockSessionRepository(ctrl)
	mockCSRF := mock_port.NewMockCSRFRepository(ctrl)

	mockGateway.EXPECT().SignOut(gomock.Any(), "session-token-123").Return(nil)
	mockSessions.EXPECT().Deactivate(gomock.Any(), "session-token-123").Return(nil)

	u := NewAuthUsecase(mockGateway, mockSessions, mockCSRF, 32, testLogger(t))

	assert.NoError(t, u.SignOut(context.Background(), "session-token-123"))
}

func TestAuthUsecase_SignOut_EmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	u := NewAuthUsecase(
		mock_port.NewMockAuthGateway(ctrl),
		mock_port.NewMockSessionRepository(ctrl),
		mock_port.NewMockCSRFRepository(ctrl),
		32,
		testLogger(t),
	)

	assert.ErrorIs(t, u.SignOut(context.Background(), ""), domain.ErrSessionNotFound)
}

func TestAuthUsecase_GenerateCSRFToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCSRF := mock_port.NewMockCSRFRepository(ctrl)
	mockCSRF.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)

	u := NewAuthUsecase(
		mock_port.NewMockAuthGateway(ctrl),
		mock_port.NewMockSessionRepository(ctrl),
		mockCSRF,
		32,
		testLogger(t),
	)

	token, err := u.GenerateCSRFToken(context.Background(), "client-123")
	require.NoError(t, err)
	assert.Equal(t, "client-123", token.ClientID)
	assert.NotEmpty(t, token.Token)
}

func TestAuthUsecase_ValidateCSRFToken(t *testing.T) {
	stored, err := domain.NewCSRFToken("client-123", 32, 30*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		clientID   string
		setupMocks func(*mock_port.MockCSRFRepository)
		wantErr    bool
	}{
		{
			name:     "valid token is consumed",
			token:    stored.Token,
			clientID: "client-123",
			setupMocks: func(repo *mock_port.MockCSRFRepository) {
				repo.EXPECT().Get(gomock.Any(), stored.Token).Return(stored, nil)
				repo.EXPECT().Delete(gomock.Any(), stored.Token).Return(nil)
			},
		},
		{
			name:     "unknown token",
			token:    "unknown",
			clientID: "client-123",
			setupMocks: func(repo *mock_port.MockCSRFRepository) {
				repo.EXPECT().Get(gomock.Any(), "unknown").Return(nil, domain.ErrInvalidCSRFToken)
			},
			wantErr: true,
		},
		{
			name:     "wrong client context",
			token:    stored.Token,
			clientID: "client-456",
			setupMocks: func(repo *mock_port.MockCSRFRepository) {
				repo.EXPECT().Get(gomock.Any(), stored.Token).Return(stored, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCSRF := mock_port.NewMockCSRFRepository(ctrl)
			tt.setupMocks(mockCSRF)

			u := NewAuthUsecase(
				mock_port.NewMockAuthGateway(ctrl),
				mock_port.NewMockSessionRepository(ctrl),
				mockCSRF,
				32,
				testLogger(t),
			)

			err := u.ValidateCSRFToken(context.Background(), tt.token, tt.clientID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
