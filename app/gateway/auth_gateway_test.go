package gateway

import (
	"context"
	"errors"
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

func newTestGateway(t *testing.T, ctrl *gomock.Controller) (*AuthGateway, *mock_port.MockKratosClient) {
	t.Helper()

	testLogger, err := logger.New("debug")
	require.NoError(t, err)

	mockClient := mock_port.NewMockKratosClient(ctrl)

	return NewAuthGateway(mockClient, testLogger), mockClient
}

func gatewayTestSession(t *testing.T) *domain.Session {
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

func TestAuthGateway_SignIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw, mockClient := newTestGateway(t, ctrl)
	session := gatewayTestSession(t)

	mockClient.EXPECT().
		SubmitLoginFlow(gomock.Any(), "test@example.com", "secret").
		Return(session, nil)

	got, err := gw.SignIn(context.Background(), "test@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestAuthGateway_SignIn_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw, mockClient := newTestGateway(t, ctrl)

	mockClient.EXPECT().
		SubmitLoginFlow(gomock.Any(), "test@example.com", "wrong").
		Return(nil, domain.ErrInvalidCredentials)

	got, err := gw.SignIn(context.Background(), "test@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, got)
}

func TestAuthGateway_SignUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw, mockClient := newTestGateway(t, ctrl)
	session := gatewayTestSession(t)

	mockClient.EXPECT().
		SubmitRegistrationFlow(gomock.Any(), "new@example.com", "secret").
		Return(session, nil)

	got, err := gw.SignUp(context.Background(), "new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, got.User.ID)
}

func TestAuthGateway_ProviderSignInURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw, mockClient := newTestGateway(t, ctrl)

	mockClient.EXPECT().
		BrowserLoginURL("github", "/profile").
		Return("http://localhost:4433/self-service/login/browser?return_to=%2Fprofile&via=github")

	url, err := gw.ProviderSignInURL(context.Background(), "github")
	require.NoError(t, err)
	assert.Contains(t, url, "via=github")

	// an empty provider never reaches the client
	_, err = gw.ProviderSignInURL(context.Background(), "")
	assert.Error(t, err)
}

func TestAuthGateway_WhoAmI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw, mockClient := newTestGateway(t, ctrl)

	mockClient.EXPECT().
		WhoAmI(gomock.Any(), "dead-token").
		Return(nil, errors.New("401 Unauthorized"))

	session, err := gw.WhoAmI(context.Background(), "dead-token")
	require.Error(t, err)
	assert.Nil(t, session)
}

func TestAuthGateway_SignOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw, mockClient := newTestGateway(t, ctrl)

	mockClient.EXPECT().
		RevokeSession(gomock.Any(), "session-token-123").
		Return(nil)

	assert.NoError(t, gw.SignOut(context.Background(), "session-token-123"))
}

func TestAuthGateway_UpdatePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw, mockClient := newTestGateway(t, ctrl)
	session := gatewayTestSession(t)

	mockClient.EXPECT().
		SubmitSettingsPasswordFlow(gomock.Any(), session.Token, "newpass").
		Return(session.User, nil)

	user, err := gw.UpdatePassword(context.Background(), session.Token, "newpass")
	require.NoError(t, err)
	assert.Equal(t, session.User.Email, user.Email)
}
