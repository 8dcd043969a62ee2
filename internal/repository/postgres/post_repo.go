package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
)

// PostRepo implements PostRepository using PostgreSQL.
type PostRepo struct{ db *DB }

// NewPostRepo constructs a post repository.
func NewPostRepo(db *DB) *PostRepo { return &PostRepo{db: db} }

const postColumns = `id, title, content, tags, category, image_url, created_at, updated_at`

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Tags, &p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a post and fills CreatedAt.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	const q = `
INSERT INTO posts (id, title, content, tags, category, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	return r.db.Pool.QueryRow(ctx, q, p.ID, p.Title, p.Content, p.Tags, p.Category, p.ImageURL).Scan(&p.CreatedAt)
}

// Get selects a post by ID.
func (r *PostRepo) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	p, err := scanPost(r.db.Pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return p, err
}

// List returns posts newest first, optionally filtered by category.
func (r *PostRepo) List(ctx context.Context, f model.PostFilter) ([]model.Post, error) {
	const q = `
SELECT ` + postColumns + `
FROM posts
WHERE ($1 = '' OR category = $1)
ORDER BY created_at DESC
OFFSET $2 LIMIT $3`
	rows, err := r.db.Pool.Query(ctx, q, f.Category, max(f.Skip, 0), limitOrDefault(f.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update overwrites the mutable columns and bumps updated_at.
func (r *PostRepo) Update(ctx context.Context, p *model.Post) error {
	const q = `
UPDATE posts
SET title=$2, content=$3, tags=$4, category=$5, image_url=$6, updated_at=now()
WHERE id=$1
RETURNING updated_at`
	err := r.db.Pool.QueryRow(ctx, q, p.ID, p.Title, p.Content, p.Tags, p.Category, p.ImageURL).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

// Delete removes a post row.
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
