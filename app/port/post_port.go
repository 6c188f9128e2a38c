package port

//go:generate mockgen -source=post_port.go -destination=../mocks/mock_post_port.go

import (
	"context"

	"postboard/app/domain"
	"github.com/google/uuid"
)

// PostUsecase defines the post CRUD operations pages invoke
type PostUsecase interface {
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Create(ctx context.Context, user *domain.User, title, content string) (*domain.Post, error)
	Update(ctx context.Context, user *domain.User, id int64, title, content string) error
	Delete(ctx context.Context, user *domain.User, id int64) error
	Search(ctx context.Context, titleSubstring string) ([]*domain.Post, error)
}

// PostRepository defines data access for the posts relation. Update and
// Delete filter on both id and owner so ownership is enforced at the
// data boundary, not only in the UI.
type PostRepository interface {
	Insert(ctx context.Context, post *domain.NewPost) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, id int64, userID uuid.UUID, title, content string) (int64, error)
	Delete(ctx context.Context, id int64, userID uuid.UUID) (int64, error)
	SearchByTitle(ctx context.Context, titleSubstring string) ([]*domain.Post, error)
}
