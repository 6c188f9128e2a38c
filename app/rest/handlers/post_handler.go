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

// PostHandler handles the post CRUD endpoints. Form posts buffer their
// outcome as a message and redirect; the JSON endpoints serve the
// search page and API clients.
type PostHandler struct {
	postUsecase port.PostUsecase
	logger      *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postUsecase port.PostUsecase, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postUsecase: postUsecase,
		logger:      logger,
	}
}

// postForm carries the create and modify form fields
type postForm struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

// Create handles the post creation form. The page is not left on
// failure; the outcome message renders on the next load.
func (h *PostHandler) Create(c echo.Context) error {
	var form postForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}

	user := custommw.UserFromContext(c)

	_, err := h.postUsecase.Create(c.Request().Context(), user, form.Title, form.Content)
	if err != nil {
		h.logger.Warn("post creation failed", "error", err)
		h.postMessage(c, domain.MessageError, "Error : Create A Post")
		return c.Redirect(http.StatusSeeOther, "/post/create")
	}

	h.postMessage(c, domain.MessageSuccess, "Success : Create A Post")
	return c.Redirect(http.StatusSeeOther, "/posts")
}

// Modify handles the post editing form. The list page is the landing
// spot whatever the outcome.
func (h *PostHandler) Modify(c echo.Context) error {
	var form postForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.postMessage(c, domain.MessageError, "Error : No post")
		return c.Redirect(http.StatusSeeOther, "/posts")
	}

	user := custommw.UserFromContext(c)

	if err := h.postUsecase.Update(c.Request().Context(), user, id, form.Title, form.Content); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			h.postMessage(c, domain.MessageError, "Error : No post")
		} else {
			h.logger.Warn("post update failed", "post_id", id, "error", err)
			h.postMessage(c, domain.MessageError, "Error : Modified A Post")
		}
		return c.Redirect(http.StatusSeeOther, "/posts")
	}

	h.postMessage(c, domain.MessageSuccess, "Success : Modified A Post")
	return c.Redirect(http.StatusSeeOther, "/posts")
}

// Delete handles the post deletion button
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.postMessage(c, domain.MessageError, "Error : Delete A Post")
		return c.Redirect(http.StatusSeeOther, "/posts")
	}

	user := custommw.UserFromContext(c)

	if err := h.postUsecase.Delete(c.Request().Context(), user, id); err != nil {
		h.logger.Warn("post deletion failed", "post_id", id, "error", err)
		h.postMessage(c, domain.MessageError, "Error : Delete A Post")
		return c.Redirect(http.StatusSeeOther, "/posts")
	}

	h.postMessage(c, domain.MessageSuccess, "Success : Deleted A Post")
	return c.Redirect(http.StatusSeeOther, "/posts")
}

// List returns every post as JSON
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.postUsecase.List(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list posts"})
	}

	return c.JSON(http.StatusOK, PostsData{Posts: posts})
}

// Get returns one post as JSON
func (h *PostHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid post id"})
	}

	post, err := h.postUsecase.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "post not found"})
		}
		h.logger.Error("failed to fetch post", "post_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch post"})
	}

	return c.JSON(http.StatusOK, PostData{Post: post})
}

// Search returns the posts whose title contains the query
func (h *PostHandler) Search(c echo.Context) error {
	query := c.QueryParam("title")

	posts, err := h.postUsecase.Search(c.Request().Context(), query)
	if err != nil {
		h.logger.Error("post search failed", "query", query, "error", err)
		h.postMessage(c, domain.MessageError, "Error : Search Posts")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to search posts"})
	}

	return c.JSON(http.StatusOK, PostsData{Posts: posts, Query: query})
}

func (h *PostHandler) postMessage(c echo.Context, kind domain.MessageKind, text string) {
	if state := custommw.StateFromContext(c); state != nil {
		state.PostMessage(kind, text)
	}
}
