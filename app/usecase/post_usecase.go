package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"postboard/app/domain"
	"postboard/app/port"
)

// PostUsecase implements port.PostUsecase. Mutations take the acting
// user so ownership reaches the data boundary, where it is enforced.
type PostUsecase struct {
	postRepo port.PostRepository
	logger   *slog.Logger
}

// NewPostUsecase creates a new post usecase
func NewPostUsecase(postRepo port.PostRepository, logger *slog.Logger) port.PostUsecase {
	return &PostUsecase{
		postRepo: postRepo,
		logger:   logger.With("component", "post_usecase"),
	}
}

// List returns every post in ascending id order
func (u *PostUsecase) List(ctx context.Context) ([]*domain.Post, error) {
	return u.postRepo.List(ctx)
}

// Get returns one post or domain.ErrPostNotFound
func (u *PostUsecase) Get(ctx context.Context, id int64) (*domain.Post, error) {
	if id <= 0 {
		return nil, domain.ErrPostNotFound
	}
	return u.postRepo.GetByID(ctx, id)
}

// Create inserts a post owned by the acting user
func (u *PostUsecase) Create(ctx context.Context, user *domain.User, title, content string) (*domain.Post, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	newPost := &domain.NewPost{
		UserID:    user.ID,
		UserEmail: user.Email,
		Title:     strings.TrimSpace(title),
		Content:   content,
	}
	if err := newPost.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	post, err := u.postRepo.Insert(ctx, newPost)
	if err != nil {
		return nil, err
	}

	u.logger.Info("post created", "post_id", post.ID, "user_id", user.ID)
	return post, nil
}

// Update rewrites the title and content of a post the acting user owns.
// A zero-row update means the post does not exist or belongs to someone
// else; both come back as domain.ErrPostNotFound so the response does
// not reveal which.
func (u *PostUsecase) Update(ctx context.Context, user *domain.User, id int64, title, content string) error {
	if user == nil {
		return domain.ErrUnauthorized
	}

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: post title is required", domain.ErrInvalidInput)
	}

	affected, err := u.postRepo.Update(ctx, id, user.ID, strings.TrimSpace(title), content)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	u.logger.Info("post updated", "post_id", id, "user_id", user.ID)
	return nil
}

// Delete removes a post the acting user owns. Zero rows affected is
// reported as domain.ErrPostNotFound, same as Update.
func (u *PostUsecase) Delete(ctx context.Context, user *domain.User, id int64) error {
	if user == nil {
		return domain.ErrUnauthorized
	}

	affected, err := u.postRepo.Delete(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	u.logger.Info("post deleted", "post_id", id, "user_id", user.ID)
	return nil
}

// Search returns posts whose title contains the substring, case
// insensitively. A blank query matches everything.
func (u *PostUsecase) Search(ctx context.Context, titleSubstring string) ([]*domain.Post, error) {
	return u.postRepo.SearchByTitle(ctx, strings.TrimSpace(titleSubstring))
}
