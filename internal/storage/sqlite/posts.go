package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

type postRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	AuthorID  string `db:"author_id"`
	CreatedAt string `db:"created_at"`
}

// ListPosts returns posts newest first, optionally limited to one author.
func (s *Store) ListPosts(ctx context.Context, authorID string) ([]models.Post, error) {
	query := `SELECT * FROM posts`
	var args []any
	if authorID != "" {
		query += ` WHERE author_id = ?`
		args = append(args, authorID)
	}
	query += ` ORDER BY created_at DESC, id`

	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, models.Post(r))
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (models.Post, error) {
	var r postRow
	err := s.db.GetContext(ctx, &r, `SELECT * FROM posts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("get post: %w", err)
	}
	return models.Post(r), nil
}

// CreatePost stores a post. Clients may supply their own id and createdAt.
func (s *Store) CreatePost(ctx context.Context, p models.Post) (models.Post, error) {
	if err := p.Validate(); err != nil {
		return models.Post{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	p.Title = strings.TrimSpace(p.Title)

	_, err := s.db.NamedExecContext(ctx, `INSERT INTO posts(id, title, content, author_id, created_at)
        VALUES(:id, :title, :content, :author_id, :created_at)`, postRow(p))
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	current, err := s.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	next := current.Apply(patch)
	if err := next.Validate(); err != nil {
		return models.Post{}, err
	}

	_, err = s.db.NamedExecContext(ctx, `UPDATE posts SET title = :title, content = :content
        WHERE id = :id`, postRow(next))
	if err != nil {
		return models.Post{}, fmt.Errorf("update post: %w", err)
	}
	return next, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "posts", "post", id)
}
