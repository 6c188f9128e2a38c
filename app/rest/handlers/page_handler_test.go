package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"postboard/app/domain"
	mock_port "postboard/app/mocks"
	"postboard/app/usecase"
)

func TestPageHandler_Home(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewPageHandler(mock_port.NewMockPostUsecase(ctrl), newTestLogger(t))

	t.Run("authenticated lands on the post list", func(t *testing.T) {
		c, rec := newFormContext(t, http.MethodGet, "/", nil, nil, newTestSession(t).User)

		require.NoError(t, handler.Home(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/posts", rec.Header().Get("Location"))
	})

	t.Run("anonymous lands on the sign-in page", func(t *testing.T) {
		c, rec := newFormContext(t, http.MethodGet, "/", nil, nil, nil)

		require.NoError(t, handler.Home(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth", rec.Header().Get("Location"))
	})
}

func TestPageHandler_PostsPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := newTestSession(t)
	state := newAuthenticatedState(t, ctrl)
	state.Reconcile(session)
	state.PostMessage(domain.MessageSuccess, "Success : Create A Post")

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		List(gomock.Any()).
		Return([]*domain.Post{{ID: 1, Title: "first"}}, nil)

	handler := NewPageHandler(mockPosts, newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/posts", nil, state, session.User)

	require.NoError(t, handler.PostsPage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var props PageProps
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &props))
	assert.True(t, props.LoggedIn)
	assert.Equal(t, usecase.StatusAuthenticated, props.Status)
	require.Len(t, props.Messages, 1)
	assert.Equal(t, "Success : Create A Post", props.Messages[0].Text)

	// rendering consumed the feedback
	assert.Empty(t, state.DrainMessages())
}

func TestPageHandler_AuthPage_Anonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := newAuthenticatedState(t, ctrl)

	handler := NewPageHandler(mock_port.NewMockPostUsecase(ctrl), newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/auth", nil, state, nil)

	require.NoError(t, handler.AuthPage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var props PageProps
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &props))
	assert.False(t, props.LoggedIn)
	assert.Nil(t, props.User)
	assert.Equal(t, usecase.StatusAnonymous, props.Status)
}

func TestPageHandler_StandaloneAuthPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := newAuthenticatedState(t, ctrl)

	handler := NewPageHandler(mock_port.NewMockPostUsecase(ctrl), newTestLogger(t))

	pages := map[string]echo.HandlerFunc{
		"/login":  handler.LoginPage,
		"/signup": handler.SignupPage,
	}

	for path, render := range pages {
		c, rec := newFormContext(t, http.MethodGet, path, nil, state, nil)

		require.NoError(t, render(c))
		assert.Equal(t, http.StatusOK, rec.Code, path)

		var props PageProps
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &props))
		assert.False(t, props.LoggedIn, path)
		assert.Equal(t, usecase.StatusAnonymous, props.Status, path)
	}
}

func TestPageHandler_PostModifyPage_MissingPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := newTestSession(t)
	state := newAuthenticatedState(t, ctrl)

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		Get(gomock.Any(), int64(404)).
		Return(nil, domain.ErrPostNotFound)

	handler := NewPageHandler(mockPosts, newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/post/modify/404", nil, state, session.User)
	c.SetParamNames("id")
	c.SetParamValues("404")

	require.NoError(t, handler.PostModifyPage(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/posts", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Error : No post"}, drainTexts(state))
}

func TestPageHandler_PostSearchPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := newTestSession(t)
	state := newAuthenticatedState(t, ctrl)

	mockPosts := mock_port.NewMockPostUsecase(ctrl)
	mockPosts.EXPECT().
		Search(gomock.Any(), "kayak").
		Return([]*domain.Post{{ID: 3, Title: "kayaking trip"}}, nil)

	handler := NewPageHandler(mockPosts, newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/post/search?title=kayak", nil, state, session.User)

	require.NoError(t, handler.PostSearchPage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var props struct {
		PageProps
		Data PostsData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &props))
	assert.Equal(t, "kayak", props.Data.Query)
	require.Len(t, props.Data.Posts, 1)
}

func TestPageHandler_PostSearchPage_NoQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no Search expectation: a blank query runs nothing
	handler := NewPageHandler(mock_port.NewMockPostUsecase(ctrl), newTestLogger(t))

	c, rec := newFormContext(t, http.MethodGet, "/post/search", nil, nil, newTestSession(t).User)

	require.NoError(t, handler.PostSearchPage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
