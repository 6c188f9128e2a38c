package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post is a short text entry owned by the user who created it. The
// owning user's email is denormalized into the row so lists can render
// authorship without a join against the auth backend.
type Post struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	InsertedAt time.Time `json:"inserted_at"`
}

// NewPost carries the fields of a post about to be inserted
type NewPost struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	UserEmail string    `json:"user_email" validate:"required,email"`
	Title     string    `json:"title" validate:"required"`
	Content   string    `json:"content"`
}

// Validate checks the invariants the posts relation expects
func (p *NewPost) Validate() error {
	if p.UserID == (uuid.UUID{}) {
		return fmt.Errorf("post owner is required")
	}

	if p.UserEmail == "" {
		return fmt.Errorf("post owner email is required")
	}

	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("post title is required")
	}

	return nil
}
