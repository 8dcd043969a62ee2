package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PG keeps failure counters in the login_attempts table.
type PG struct {
	q   querier
	cfg Config
	now func() time.Time
}

// New returns a PostgreSQL-backed limiter, or Nop when cfg.MaxFails <= 0.
func New(q querier, cfg Config) Limiter {
	if cfg.MaxFails <= 0 {
		return Nop{}
	}
	return NewPG(q, cfg)
}

// NewPG constructs a PostgreSQL-backed limiter. *pgxpool.Pool satisfies q.
func NewPG(q querier, cfg Config) *PG {
	return &PG{q: q, cfg: cfg, now: time.Now}
}

// Allow reports whether the key is currently unblocked.
func (l *PG) Allow(ctx context.Context, key []byte) (bool, time.Duration, error) {
	const q = `SELECT blocked_until FROM login_attempts WHERE key_hash=$1`
	var blockedUntil time.Time
	err := l.q.QueryRow(ctx, q, key).Scan(&blockedUntil)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	case err != nil:
		return false, 0, err
	}
	if now := l.now(); blockedUntil.After(now) {
		return false, blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// Success clears the key's counters.
func (l *PG) Success(ctx context.Context, key []byte) error {
	const q = `DELETE FROM login_attempts WHERE key_hash=$1`
	_, err := l.q.Exec(ctx, q, key)
	return err
}

// Failure bumps the counter, restarting it when the previous failure fell outside the window,
// and blocks the key once MaxFails is reached.
func (l *PG) Failure(ctx context.Context, key []byte) (bool, time.Duration, error) {
	const q = `
INSERT INTO login_attempts (key_hash, fail_count, blocked_until, updated_at)
VALUES ($1, 1, 'epoch', now())
ON CONFLICT (key_hash) DO UPDATE
SET
  fail_count = CASE WHEN now() - login_attempts.updated_at > $2::interval THEN 1 ELSE login_attempts.fail_count + 1 END,
  updated_at = now()
RETURNING fail_count`
	var fails int
	if err := l.q.QueryRow(ctx, q, key, l.cfg.Window).Scan(&fails); err != nil {
		return false, 0, err
	}
	if fails < l.cfg.MaxFails {
		return false, 0, nil
	}
	const upd = `UPDATE login_attempts SET blocked_until=$2 WHERE key_hash=$1`
	if _, err := l.q.Exec(ctx, upd, key, l.now().Add(l.cfg.BlockFor)); err != nil {
		return false, 0, err
	}
	return true, l.cfg.BlockFor, nil
}
