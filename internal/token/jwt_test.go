package token

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/portfolio-api/internal/errs"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newManager(t *testing.T, secret []byte, clk *fakeClock) *Manager {
	t.Helper()
	m, err := NewManager(secret, 0, WithClock(clk.Now))
	require.NoError(t, err)
	return m
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(nil, time.Minute)
	require.Error(t, err)

	m, err := NewManager([]byte("k"), 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTTL, m.TTL())
}

func TestNewSecret(t *testing.T) {
	a, err := NewSecret()
	require.NoError(t, err)
	b, err := NewSecret()
	require.NoError(t, err)
	require.Len(t, a, SecretSize)
	require.NotEqual(t, a, b)
}

func TestIssueVerify_ExpiresAfterTTL(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := newManager(t, []byte("secret"), clk)

	tok, exp, err := m.Issue("admin")
	require.NoError(t, err)
	require.Equal(t, clk.Now().Add(30*time.Minute), exp)

	sub, err := m.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "admin", sub)

	clk.Advance(29*time.Minute + 59*time.Second)
	_, err = m.Verify(tok)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	_, err = m.Verify(tok)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerify_DifferentSecretFails(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	issuer := newManager(t, []byte("secret-a"), clk)
	verifier := newManager(t, []byte("secret-b"), clk)

	tok, _, err := issuer.Issue("admin")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerify_UniformFailures(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	key := []byte("secret")
	m := newManager(t, key, clk)

	sign := func(method jwt.SigningMethod, k any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(k)
		require.NoError(t, err)
		return s
	}
	future := jwt.NewNumericDate(clk.Now().Add(time.Hour))

	good, _, err := m.Issue("admin")
	require.NoError(t, err)
	parts := strings.Split(good, ".")

	cases := map[string]string{
		"empty":       "",
		"garbage":     "not-a-token",
		"bad sig":     parts[0] + "." + parts[1] + ".AAAA",
		"none alg":    sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: future}),
		"hs512":       sign(jwt.SigningMethodHS512, key, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: future}),
		"no expiry":   sign(jwt.SigningMethodHS256, key, jwt.RegisteredClaims{Subject: "admin"}),
		"no subject":  sign(jwt.SigningMethodHS256, key, jwt.RegisteredClaims{ExpiresAt: future}),
		"expired":     sign(jwt.SigningMethodHS256, key, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(clk.Now().Add(-time.Second))}),
		"not yet":     sign(jwt.SigningMethodHS256, key, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: future, NotBefore: future}),
	}
	for name, raw := range cases {
		sub, err := m.Verify(raw)
		require.Emptyf(t, sub, "%s: subject leaked", name)
		require.Truef(t, errors.Is(err, errs.ErrInvalidToken), "%s: got %v", name, err)
		require.Equalf(t, errs.ErrInvalidToken, err, "%s: error must not carry detail", name)
	}
}

func TestIssueWithTTL(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	m := newManager(t, []byte("k"), clk)

	tok, exp, err := m.IssueWithTTL("admin", time.Second)
	require.NoError(t, err)
	require.True(t, exp.Equal(clk.Now().Add(time.Second).Truncate(time.Second)), "exp %v", exp)

	clk.Advance(2 * time.Second)
	_, err = m.Verify(tok)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestIssue_ReportsEncodedExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 700*int64(time.Millisecond))}
	m := newManager(t, []byte("secret"), clk)

	tok, exp, err := m.Issue("admin")
	require.NoError(t, err)
	require.True(t, exp.Equal(time.Unix(1_700_000_000+30*60, 0)), "exp %v", exp)

	// Valid right up to the reported expiry, not a moment past it.
	clk.Advance(exp.Sub(clk.Now()) - time.Millisecond)
	_, err = m.Verify(tok)
	require.NoError(t, err)

	clk.Advance(time.Millisecond)
	_, err = m.Verify(tok)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}
