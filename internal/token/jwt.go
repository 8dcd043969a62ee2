// Package token issues and verifies HS256 bearer tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/portfolio-api/internal/crypto"
	"github.com/and161185/portfolio-api/internal/errs"
)

// DefaultTTL is the access token lifetime when none is configured.
const DefaultTTL = 30 * time.Minute

// SecretSize is the length of generated signing secrets.
const SecretSize = 32

// NewSecret returns a random signing secret. Tokens signed with it die with the process.
func NewSecret() ([]byte, error) {
	return crypto.RandBytes(SecretSize)
}

// Manager mints and validates tokens with a single secret.
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager constructs a Manager. A non-positive ttl means DefaultTTL.
func NewManager(secret []byte, ttl time.Duration, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{secret: append([]byte(nil), secret...), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// TTL returns the default lifetime used by Issue.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token for subject valid for the default TTL.
func (m *Manager) Issue(subject string) (string, time.Time, error) {
	return m.IssueWithTTL(subject, m.ttl)
}

// IssueWithTTL signs a token for subject expiring ttl from now.
func (m *Manager) IssueWithTTL(subject string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	// exp is encoded in whole seconds; report what Verify will enforce.
	return signed, claims.ExpiresAt.Time, nil
}

// Verify returns the token subject, or errs.ErrInvalidToken for any failure:
// bad structure, wrong algorithm, wrong signature, missing or past expiry, empty subject.
func (m *Manager) Verify(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", errs.ErrInvalidToken
	}
	return claims.Subject, nil
}
