package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"postboard/app/domain"
	mock_port "postboard/app/mocks"
)

func newCSRFTestContext(t *testing.T, method string, headers map[string]string, form string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()

	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, "/api/auth", strings.NewReader(form))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, "/api/auth", nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("client_id", "client-123")

	return c, rec
}

func TestCSRFMiddleware_SafeMethodsPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mw := NewCSRFMiddleware(mock_port.NewMockAuthUsecase(ctrl), newTestLogger(t))

	c, _ := newCSRFTestContext(t, http.MethodGet, nil, "")

	handlerCalled := false
	err := mw.RequireCSRF()(func(echo.Context) error {
		handlerCalled = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, handlerCalled)
}

func TestCSRFMiddleware_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mw := NewCSRFMiddleware(mock_port.NewMockAuthUsecase(ctrl), newTestLogger(t))

	c, _ := newCSRFTestContext(t, http.MethodPost, nil, "")

	err := mw.RequireCSRF()(func(echo.Context) error { return nil })(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestCSRFMiddleware_HeaderToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mock_port.NewMockAuthUsecase(ctrl)
	mockAuth.EXPECT().
		ValidateCSRFToken(gomock.Any(), "valid-token", "client-123").
		Return(nil)

	mw := NewCSRFMiddleware(mockAuth, newTestLogger(t))

	c, _ := newCSRFTestContext(t, http.MethodPost, map[string]string{"X-CSRF-Token": "valid-token"}, "")

	handlerCalled := false
	err := mw.RequireCSRF()(func(echo.Context) error {
		handlerCalled = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, handlerCalled)
}

func TestCSRFMiddleware_FormToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mock_port.NewMockAuthUsecase(ctrl)
	mockAuth.EXPECT().
		ValidateCSRFToken(gomock.Any(), "form-token", "client-123").
		Return(nil)

	mw := NewCSRFMiddleware(mockAuth, newTestLogger(t))

	c, _ := newCSRFTestContext(t, http.MethodPost, nil, "csrf_token=form-token")

	err := mw.RequireCSRF()(func(echo.Context) error { return nil })(c)
	assert.NoError(t, err)
}

func TestCSRFMiddleware_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mock_port.NewMockAuthUsecase(ctrl)
	mockAuth.EXPECT().
		ValidateCSRFToken(gomock.Any(), "stolen-token", "client-123").
		Return(domain.ErrInvalidCSRFToken)

	mw := NewCSRFMiddleware(mockAuth, newTestLogger(t))

	c, _ := newCSRFTestContext(t, http.MethodPost, map[string]string{"X-CSRF-Token": "stolen-token"}, "")

	err := mw.RequireCSRF()(func(echo.Context) error { return nil })(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestCSRFMiddleware_MissingClientContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mw := NewCSRFMiddleware(mock_port.NewMockAuthUsecase(ctrl), newTestLogger(t))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := mw.RequireCSRF()(func(echo.Context) error { return nil })(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}
