// Package limiter throttles repeated failed logins.
package limiter

import (
	"context"
	"crypto/sha256"
	"time"
)

// Limiter controls login attempts and temporary lockouts for an opaque key.
type Limiter interface {
	// Allow reports whether a login may be attempted now, and if not, for how long it is blocked.
	Allow(ctx context.Context, key []byte) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, key []byte) error
	// Failure records a failed attempt; it reports whether the key is now blocked.
	Failure(ctx context.Context, key []byte) (bool, time.Duration, error)
}

// Key derives the limiter key for a login attempt. Raw client addresses are never stored.
func Key(username, ip string) []byte {
	h := sha256.New()
	h.Write([]byte(username))
	h.Write([]byte{0})
	h.Write([]byte(ip))
	return h.Sum(nil)
}

// Config tunes the lockout policy.
type Config struct {
	Window   time.Duration // failures older than this are forgotten
	MaxFails int           // failures within Window that trigger a block; <=0 disables limiting
	BlockFor time.Duration
}

// Nop never blocks.
type Nop struct{}

func (Nop) Allow(context.Context, []byte) (bool, time.Duration, error)   { return true, 0, nil }
func (Nop) Success(context.Context, []byte) error                        { return nil }
func (Nop) Failure(context.Context, []byte) (bool, time.Duration, error) { return false, 0, nil }
