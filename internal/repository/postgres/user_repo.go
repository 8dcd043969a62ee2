package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row and fills CreatedAt.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, credential, active)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, u.ID, u.Username, u.Credential, u.Active).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `
SELECT id, username, credential, active, created_at
FROM users WHERE username=$1`
	var u model.User
	err := r.db.Pool.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.Credential, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
