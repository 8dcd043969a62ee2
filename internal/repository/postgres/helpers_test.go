package postgres

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/portfolio-api/internal/repository"
)

var (
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.PostRepository        = (*PostRepo)(nil)
	_ repository.CertificateRepository = (*CertificateRepo)(nil)
	_ repository.SkillRepository       = (*SkillRepo)(nil)
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func ptr[T any](v T) *T { return &v }

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
