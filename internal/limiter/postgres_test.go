package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var testCfg = Config{Window: 15 * time.Minute, MaxFails: 3, BlockFor: 10 * time.Minute}

func newLimiter(t *testing.T) (*PG, pgxmock.PgxPoolIface, time.Time) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewPG(mock, testCfg)
	l.now = func() time.Time { return now }
	return l, mock, now
}

func TestAllow(t *testing.T) {
	l, mock, now := newLimiter(t)
	key := Key("admin", "1.2.3.4")
	ctx := context.Background()

	mock.ExpectQuery(`SELECT blocked_until FROM login_attempts WHERE key_hash=\$1`).
		WithArgs(key).WillReturnError(pgx.ErrNoRows)
	ok, dur, err := l.Allow(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, dur)

	mock.ExpectQuery(`SELECT blocked_until`).WithArgs(key).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(now.Add(5 * time.Minute)))
	ok, dur, err = l.Allow(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 5*time.Minute, dur)

	mock.ExpectQuery(`SELECT blocked_until`).WithArgs(key).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(now.Add(-time.Minute)))
	ok, _, err = l.Allow(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectQuery(`SELECT blocked_until`).WithArgs(key).WillReturnError(errors.New("db down"))
	ok, _, err = l.Allow(ctx, key)
	require.Error(t, err)
	require.False(t, ok)
}

func TestFailure_BelowAndAtThreshold(t *testing.T) {
	l, mock, now := newLimiter(t)
	key := Key("admin", "1.2.3.4")
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO login_attempts .* RETURNING fail_count`).
		WithArgs(key, testCfg.Window).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(2))
	blocked, dur, err := l.Failure(ctx, key)
	require.NoError(t, err)
	require.False(t, blocked)
	require.Zero(t, dur)

	mock.ExpectQuery(`RETURNING fail_count`).
		WithArgs(key, testCfg.Window).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(3))
	mock.ExpectExec(`UPDATE login_attempts SET blocked_until=\$2 WHERE key_hash=\$1`).
		WithArgs(key, now.Add(testCfg.BlockFor)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	blocked, dur, err = l.Failure(ctx, key)
	require.NoError(t, err)
	require.True(t, blocked)
	require.Equal(t, testCfg.BlockFor, dur)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuccess_ClearsKey(t *testing.T) {
	l, mock, _ := newLimiter(t)
	key := Key("admin", "")

	mock.ExpectExec(`DELETE FROM login_attempts WHERE key_hash=\$1`).
		WithArgs(key).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, l.Success(context.Background(), key))

	mock.ExpectExec(`DELETE FROM login_attempts`).WithArgs(key).WillReturnError(errors.New("exec fail"))
	require.Error(t, l.Success(context.Background(), key))
}

func TestNew_DisabledIsNop(t *testing.T) {
	l := New(nil, Config{})
	_, isNop := l.(Nop)
	require.True(t, isNop)

	ok, _, err := l.Allow(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	blocked, _, err := l.Failure(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestKey(t *testing.T) {
	a := Key("admin", "1.2.3.4")
	require.Len(t, a, 32)
	require.Equal(t, a, Key("admin", "1.2.3.4"))
	require.NotEqual(t, a, Key("admin", "5.6.7.8"))
	require.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}
