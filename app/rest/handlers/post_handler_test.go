package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"postboard/app/domain"
	mock_port "postboard/app/mocks"
	"postboard/app/usecase"
)

// newAuthenticatedState builds a request-scoped controller so message
// assertions can drain what the handler posted
func newAuthenticatedState(t *testing.T, ctrl *gomock.Controller) *usecase.AuthState {
	t.Helper()

	state := usecase.NewAuthState(
		mock_port.NewMockAuthUsecase(ctrl),
		mock_port.NewMockSessionSyncUsecase(ctrl),
		16,
		false,
		newTestLogger(t),
	)
	state.Start()
	t.Cleanup(state.Stop)

	return state
}

func newFormContext(t *testing.T, method, path string, form url.Values, state *usecase.AuthState, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if state != nil {
		c.Set("auth_state", state)
	}
	if user != nil {
		c.Set("user", user)
	}

	return c, rec
}

func drainTexts(state *usecase.AuthState) []string {
	messages := state.DrainMessages()
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Text)
	}
	return texts
}

func TestPostHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := newTestSession(t)
	state := newAuthenticatedState(t, ctrl)

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		Create(gomock.Any(), session.User, "New Post", "body").
		Return(&domain.Post{ID: 1, Title: "New Post"}, nil)

	handler := NewPostHandler(mockPosts, newTestLogger(t))

	form := url.Values{"title": {"New Post"}, "content": {"body"}}
	c, rec := newFormContext(t, http.MethodPost, "/post/create", form, state, session.User)

	err := handler.Create(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/posts", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Success : Create A Post"}, drainTexts(state))
}

func TestPostHandler_Create_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := newTestSession(t)
	state := newAuthenticatedState(t, ctrl)

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		Create(gomock.Any(), session.User, "", "body").
		Return(nil, domain.ErrInvalidInput)

	handler := NewPostHandler(mockPosts, newTestLogger(t))

	form := url.Values{"title": {""}, "content": {"body"}}
	c, rec := newFormContext(t, http.MethodPost, "/post/create", form, state, session.User)

	err := handler.Create(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// the creation page is not left on failure
	assert.Equal(t, "/post/create", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Error : Create A Post"}, drainTexts(state))
}

func TestPostHandler_Modify(t *testing.T) {
	tests := []struct {
		name        string
		usecaseErr  error
		wantMessage string
	}{
		{
			name:        "success",
			wantMessage: "Success : Modified A Post",
		},
		{
			name:        "foreign or missing post",
			usecaseErr:  domain.ErrPostNotFound,
			wantMessage: "Error : No post",
		},
		{
			name:        "backend failure",
			usecaseErr:  domain.ErrInvalidInput,
			wantMessage: "Error : Modified A Post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			session := newTestSession(t)
			state := newAuthenticatedState(t, ctrl)

			mockPosts := mock_port.NewMockPostUsecase(ctrl)
			mockPosts.EXPECT().
				Update(gomock.Any(), session.User, int64(7), "Edited", "new body").
				Return(tt.usecaseErr)

			handler := NewPostHandler(mockPosts, newTestLogger(t))

			form := url.Values{"title": {"Edited"}, "content": {"new body"}}
			c, rec := newFormContext(t, http.MethodPost, "/post/modify/7", form, state, session.User)
			c.SetParamNames("id")
			c.SetParamValues("7")

			err := handler.Modify(c)
			require.NoError(t, err)

			// the list page is the landing spot whatever the outcome
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/posts", rec.Header().Get("Location"))
			assert.Equal(t, []string{tt.wantMessage}, drainTexts(state))
		})
	}
}

func TestPostHandler_Delete(t *testing.T) {
	tests := []struct {
		name        string
		usecaseErr  error
		wantMessage string
	}{
		{
			name:        "success",
			wantMessage: "Success : Deleted A Post",
		},
		{
			name:        "foreign or missing post",
			usecaseErr:  domain.ErrPostNotFound,
			wantMessage: "Error : Delete A Post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			session := newTestSession(t)
			state := newAuthenticatedState(t, ctrl)

			mockPosts := mock_port.NewMockPostUsecase(ctrl)
			mockPosts.EXPECT().
				Delete(gomock.Any(), session.User, int64(9)).
				Return(tt.usecaseErr)

			handler := NewPostHandler(mockPosts, newTestLogger(t))

			c, rec := newFormContext(t, http.MethodPost, "/post/delete/9", nil, state, session.User)
			c.SetParamNames("id")
			c.SetParamValues("9")

			err := handler.Delete(c)
			require.NoError(t, err)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/posts", rec.Header().Get("Location"))
			assert.Equal(t, []string{tt.wantMessage}, drainTexts(state))
		})
	}
}

func TestPostHandler_Delete_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := newAuthenticatedState(t, ctrl)

	// no usecase expectation: a malformed id never reaches it
	handler := NewPostHandler(mock_port.NewMockPostUsecase(ctrl), newTestLogger(t))

	c, rec := newFormContext(t, http.MethodPost, "/post/delete/abc", nil, state, nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := handler.Delete(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/posts", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Error : Delete A Post"}, drainTexts(state))
}

func TestPostHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		Get(gomock.Any(), int64(42)).
		Return(&domain.Post{ID: 42, Title: "Found", InsertedAt: time.Now()}, nil)

	handler := NewPostHandler(mockPosts, newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/api/posts/42", nil, nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := handler.Get(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp PostData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Post)
	assert.Equal(t, int64(42), resp.Post.ID)
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		Get(gomock.Any(), int64(404)).
		Return(nil, domain.ErrPostNotFound)

	handler := NewPostHandler(mockPosts, newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/api/posts/404", nil, nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("404")

	err := handler.Get(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostHandler_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		Search(gomock.Any(), "kayak").
		Return([]*domain.Post{{ID: 3, Title: "kayaking trip"}}, nil)

	handler := NewPostHandler(mockPosts, newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/api/posts/search?title=kayak", nil, nil, nil)

	err := handler.Search(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp PostsData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "kayak", resp.Query)
}

func TestPostHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		List(gomock.Any()).
		Return([]*domain.Post{{ID: 1}, {ID: 2}}, nil)

	handler := NewPostHandler(mockPosts, newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/api/posts", nil, nil, nil)

	err := handler.List(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp PostsData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Posts, 2)
}
