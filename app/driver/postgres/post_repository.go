package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"postboard/app/domain"
	"postboard/app/port"
)

// PostRepository implements port.PostRepository for PostgreSQL
type PostRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db DatabaseIface, logger *slog.Logger) port.PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger.With("component", "post_repository"),
	}
}

// Insert creates a post row and returns the stored post with its
// server-assigned id and timestamp
func (r *PostRepository) Insert(ctx context.Context, post *domain.NewPost) (*domain.Post, error) {
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	query := `
		INSERT INTO posts (user_id, user_email, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, user_email, title, content, inserted_at`

	created := &domain.Post{}
	err := r.db.QueryRow(ctx, query,
		post.UserID,
		post.UserEmail,
		post.Title,
		post.Content,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.UserEmail,
		&created.Title,
		&created.Content,
		&created.InsertedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert post", "user_id", post.UserID, "error", err)
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	r.logger.Info("post inserted", "post_id", created.ID, "user_id", created.UserID)
	return created, nil
}

// List returns all posts ordered by id ascending
func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	query := `
		SELECT id, user_id, user_email, title, content, inserted_at
		FROM posts
		ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to list posts", "error", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// GetByID returns exactly one post or domain.ErrPostNotFound
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		SELECT id, user_id, user_email, title, content, inserted_at
		FROM posts
		WHERE id = $1`

	post := &domain.Post{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.UserEmail,
		&post.Title,
		&post.Content,
		&post.InsertedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		r.logger.Error("failed to get post", "post_id", id, "error", err)
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// Update replaces the two mutable fields of a post. The filter includes
// the owner so a foreign post is indistinguishable from a missing one;
// the affected row count is returned for the caller to decide.
func (r *PostRepository) Update(ctx context.Context, id int64, userID uuid.UUID, title, content string) (int64, error) {
	query := `
		UPDATE posts
		SET title = $1, content = $2
		WHERE id = $3 AND user_id = $4`

	tag, err := r.db.Exec(ctx, query, title, content, id, userID)
	if err != nil {
		r.logger.Error("failed to update post", "post_id", id, "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to update post: %w", err)
	}

	r.logger.Info("post updated", "post_id", id, "rows_affected", tag.RowsAffected())
	return tag.RowsAffected(), nil
}

// Delete removes a post owned by the given user
func (r *PostRepository) Delete(ctx context.Context, id int64, userID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM posts
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("failed to delete post", "post_id", id, "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to delete post: %w", err)
	}

	r.logger.Info("post deleted", "post_id", id, "rows_affected", tag.RowsAffected())
	return tag.RowsAffected(), nil
}

// SearchByTitle returns the posts whose title contains the substring,
// case-insensitively, ordered by id ascending
func (r *PostRepository) SearchByTitle(ctx context.Context, titleSubstring string) ([]*domain.Post, error) {
	query := `
		SELECT id, user_id, user_email, title, content, inserted_at
		FROM posts
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, titleSubstring)
	if err != nil {
		r.logger.Error("failed to search posts", "error", err)
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// scanPosts collects post rows into a slice
func scanPosts(rows pgx.Rows) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0)
	for rows.Next() {
		post := &domain.Post{}
		err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.UserEmail,
			&post.Title,
			&post.Content,
			&post.InsertedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read post rows: %w", err)
	}

	return posts, nil
}
