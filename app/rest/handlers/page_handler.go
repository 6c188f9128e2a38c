package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"postboard/app/domain"
	"postboard/app/port"
	custommw "postboard/app/rest/middleware"
)

// PageHandler renders the JSON page props each route's view consumes.
// Every render snapshots the client's auth state and drains its message
// buffer, so feedback shows up on the next page the client lands on and
// never twice.
type PageHandler struct {
	postUsecase port.PostUsecase
	logger      *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(postUsecase port.PostUsecase, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		postUsecase: postUsecase,
		logger:      logger,
	}
}

// Home routes the client to the post list or the sign-in page
func (h *PageHandler) Home(c echo.Context) error {
	if custommw.UserFromContext(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/posts")
	}
	return c.Redirect(http.StatusSeeOther, "/auth")
}

// AuthPage renders the combined sign-in and sign-up page
func (h *PageHandler) AuthPage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.props(c, nil))
}

// LoginPage renders the standalone sign-in page
func (h *PageHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.props(c, nil))
}

// SignupPage renders the standalone sign-up page
func (h *PageHandler) SignupPage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.props(c, nil))
}

// ProfilePage renders the account page
func (h *PageHandler) ProfilePage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.props(c, nil))
}

// PostsPage renders the post list page
func (h *PageHandler) PostsPage(c echo.Context) error {
	posts, err := h.postUsecase.List(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		posts = nil
	}

	return c.JSON(http.StatusOK, h.props(c, PostsData{Posts: posts}))
}

// PostPage renders a single post page
func (h *PageHandler) PostPage(c echo.Context) error {
	post, ok := h.fetchPost(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/posts")
	}

	return c.JSON(http.StatusOK, h.props(c, PostData{Post: post}))
}

// PostCreatePage renders the post creation page
func (h *PageHandler) PostCreatePage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.props(c, nil))
}

// PostModifyPage renders the post editing page, preloaded with the post
func (h *PageHandler) PostModifyPage(c echo.Context) error {
	post, ok := h.fetchPost(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/posts")
	}

	return c.JSON(http.StatusOK, h.props(c, PostData{Post: post}))
}

// PostSearchPage renders the search page, running the query when one is
// present
func (h *PageHandler) PostSearchPage(c echo.Context) error {
	query := c.QueryParam("title")

	data := PostsData{Query: query}
	if query != "" {
		posts, err := h.postUsecase.Search(c.Request().Context(), query)
		if err != nil {
			h.logger.Error("post search failed", "query", query, "error", err)
			h.postMessage(c, domain.MessageError, "Error : Search Posts")
		} else {
			data.Posts = posts
		}
	}

	return c.JSON(http.StatusOK, h.props(c, data))
}

// fetchPost loads the post named by the id path parameter, buffering
// the not-found message and reporting failure to the caller
func (h *PageHandler) fetchPost(c echo.Context) (*domain.Post, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.postMessage(c, domain.MessageError, "Error : No post")
		return nil, false
	}

	post, err := h.postUsecase.Get(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrPostNotFound) {
			h.logger.Error("failed to fetch post", "post_id", id, "error", err)
		}
		h.postMessage(c, domain.MessageError, "Error : No post")
		return nil, false
	}

	return post, true
}

func (h *PageHandler) postMessage(c echo.Context, kind domain.MessageKind, text string) {
	if state := custommw.StateFromContext(c); state != nil {
		state.PostMessage(kind, text)
	}
}

// props assembles the page props from the request's auth state
func (h *PageHandler) props(c echo.Context, data interface{}) PageProps {
	props := PageProps{
		User: custommw.UserFromContext(c),
		Data: data,
	}
	props.LoggedIn = props.User != nil

	if state := custommw.StateFromContext(c); state != nil {
		snapshot := state.Snapshot()
		props.Status = snapshot.Status
		props.Messages = state.DrainMessages()
		if props.User == nil {
			props.User = snapshot.User
			props.LoggedIn = props.User != nil
		}
	}

	return props
}
