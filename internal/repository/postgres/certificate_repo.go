package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
)

// CertificateRepo implements CertificateRepository using PostgreSQL.
type CertificateRepo struct{ db *DB }

// NewCertificateRepo constructs a certificate repository.
func NewCertificateRepo(db *DB) *CertificateRepo { return &CertificateRepo{db: db} }

const certificateColumns = `id, title, issuer, date, image_url, created_at`

func scanCertificate(row pgx.Row) (*model.Certificate, error) {
	var c model.Certificate
	if err := row.Scan(&c.ID, &c.Title, &c.Issuer, &c.Date, &c.ImageURL, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a certificate and fills CreatedAt.
func (r *CertificateRepo) Create(ctx context.Context, c *model.Certificate) error {
	const q = `
INSERT INTO certificates (id, title, issuer, date, image_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`
	return r.db.Pool.QueryRow(ctx, q, c.ID, c.Title, c.Issuer, c.Date, c.ImageURL).Scan(&c.CreatedAt)
}

// Get selects a certificate by ID.
func (r *CertificateRepo) Get(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	c, err := scanCertificate(r.db.Pool.QueryRow(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return c, err
}

// List returns certificates newest first.
func (r *CertificateRepo) List(ctx context.Context, p model.Page) ([]model.Certificate, error) {
	const q = `
SELECT ` + certificateColumns + `
FROM certificates
ORDER BY created_at DESC
OFFSET $1 LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, max(p.Skip, 0), limitOrDefault(p.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update overwrites the mutable columns.
func (r *CertificateRepo) Update(ctx context.Context, c *model.Certificate) error {
	const q = `UPDATE certificates SET title=$2, issuer=$3, date=$4, image_url=$5 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, c.ID, c.Title, c.Issuer, c.Date, c.ImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a certificate row.
func (r *CertificateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM certificates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
