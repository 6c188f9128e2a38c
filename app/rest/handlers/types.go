package handlers

import (
	"postboard/app/domain"
	"postboard/app/usecase"
)

// ErrorResponse is the JSON error envelope for API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PageProps is the server-rendered view state of one page: the resolved
// user, the client's auth status, and the feedback buffered since the
// last render. Draining the messages is part of rendering; each message
// is shown exactly once.
type PageProps struct {
	User     *domain.User       `json:"user"`
	LoggedIn bool               `json:"logged_in"`
	Status   usecase.AuthStatus `json:"status"`
	Messages []domain.Message   `json:"messages"`
	Data     interface{}        `json:"data,omitempty"`
}

// PostsData is the page data of the post list and search pages
type PostsData struct {
	Posts []*domain.Post `json:"posts"`
	Query string         `json:"query,omitempty"`
}

// PostData is the page data of the single-post pages
type PostData struct {
	Post *domain.Post `json:"post"`
}
