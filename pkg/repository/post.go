package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/topicclusters/pkg/domain"
)

// PostRepository handles post storage, the source of content for link insertion
type PostRepository struct {
	db *sqlx.DB
}

// postSQL represents a post for SQL operations
type postSQL struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// GetPost retrieves a post by ID, returns domain.ErrNotFound if missing
func (r *PostRepository) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	var p postSQL
	err := r.db.GetContext(ctx, &p, "SELECT id, title, content, url, created_at, updated_at FROM posts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p.toDomain(), nil
}

// ListPosts returns the most recently updated posts
func (r *PostRepository) ListPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []postSQL
	query := "SELECT id, title, content, url, created_at, updated_at FROM posts ORDER BY updated_at DESC, id DESC LIMIT ?"
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	res := make([]domain.Post, 0, len(rows))
	for _, p := range rows {
		res = append(res, *p.toDomain())
	}
	return res, nil
}

// CountPosts returns the number of stored posts
func (r *PostRepository) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM posts"); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// UpsertPost inserts a post or replaces title, content and url of an existing one
func (r *PostRepository) UpsertPost(ctx context.Context, post *domain.Post) error {
	if post.ID <= 0 {
		return fmt.Errorf("upsert post: invalid id %d", post.ID)
	}
	query := `
		INSERT INTO posts (id, title, content, url) VALUES (:id, :title, :content, :url)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			url = excluded.url
	`
	err := newRetrier().Do(ctx, func() error {
		_, err := r.db.NamedExecContext(ctx, query, &postSQL{ID: post.ID, Title: post.Title, Content: post.Content, URL: post.URL})
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("upsert post %d: %w", post.ID, err)}
		}
		return nil
	}, errCritical)
	return unwrapCritical(err)
}

// UpdateContent replaces the content of an existing post
func (r *PostRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	err := newRetrier().Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE posts SET content = ? WHERE id = ?", content, id)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("update post %d content: %w", id, err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("rows affected: %w", err)}
		}
		if n == 0 {
			return &criticalError{err: fmt.Errorf("post %d: %w", id, domain.ErrNotFound)}
		}
		return nil
	}, errCritical)
	return unwrapCritical(err)
}

func (p *postSQL) toDomain() *domain.Post {
	return &domain.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		URL:       p.URL,
		UpdatedAt: p.UpdatedAt,
	}
}
