// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit. Longer passwords are cut to this
// length both when hashing and when verifying.
const MaxPasswordBytes = 72

const sha256Tag = "sha256"

// Algorithm identifies which routine produced a stored credential.
type Algorithm uint8

const (
	AlgUnknown Algorithm = iota
	AlgBcrypt
	AlgSHA256
)

func (a Algorithm) String() string {
	switch a {
	case AlgBcrypt:
		return "bcrypt"
	case AlgSHA256:
		return sha256Tag
	default:
		return "unknown"
	}
}

// Credential is a stored password hash tagged with its algorithm.
type Credential struct {
	Alg   Algorithm
	Value string // bcrypt blob or hex sha256 digest
}

// ParseCredential decodes the stored form. Fallback digests are stored as
// "sha256$<hex>"; bcrypt blobs are stored as-is ("$2a$", "$2b$", "$2y$").
func ParseCredential(stored string) Credential {
	if tag, digest, ok := strings.Cut(stored, "$"); ok && tag == sha256Tag {
		return Credential{Alg: AlgSHA256, Value: digest}
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return Credential{Alg: AlgBcrypt, Value: stored}
	}
	return Credential{Alg: AlgUnknown, Value: stored}
}

// String returns the storable form accepted by ParseCredential.
func (c Credential) String() string {
	if c.Alg == AlgSHA256 {
		return sha256Tag + "$" + c.Value
	}
	return c.Value
}

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// BcryptAvailable probes the primary algorithm once. The result is meant to be
// computed at startup and handed to NewHasher.
func BcryptAvailable() bool {
	_, err := bcrypt.GenerateFromPassword([]byte("probe"), bcrypt.MinCost)
	return err == nil
}

// Hasher hashes with bcrypt and falls back to a tagged sha256 digest when
// bcrypt is unavailable or fails. Hash never returns an error.
type Hasher struct {
	bcryptOK bool
	cost     int
	log      *zap.Logger

	generate func(password []byte, cost int) ([]byte, error)
}

// NewHasher constructs a Hasher. A cost outside bcrypt's range means bcrypt.DefaultCost.
func NewHasher(bcryptOK bool, cost int, log *zap.Logger) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if log == nil {
		log = zap.NewNop()
	}
	if !bcryptOK {
		log.Warn("bcrypt unavailable, passwords will be hashed with sha256 fallback")
	}
	return &Hasher{bcryptOK: bcryptOK, cost: cost, log: log, generate: bcrypt.GenerateFromPassword}
}

// Hash turns a plaintext password into a storable credential.
func (h *Hasher) Hash(plaintext string) Credential {
	pw := truncate(plaintext)
	if h.bcryptOK {
		blob, err := h.generate(pw, h.cost)
		if err == nil {
			return Credential{Alg: AlgBcrypt, Value: string(blob)}
		}
		h.log.Warn("bcrypt failed, using sha256 fallback", zap.Error(err))
	}
	sum := sha256.Sum256(pw)
	return Credential{Alg: AlgSHA256, Value: hex.EncodeToString(sum[:])}
}

// Verify reports whether plaintext matches the credential. Any internal error
// counts as a mismatch.
func (h *Hasher) Verify(plaintext string, c Credential) bool {
	pw := truncate(plaintext)
	switch c.Alg {
	case AlgSHA256:
		sum := sha256.Sum256(pw)
		got := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(c.Value))) == 1
	case AlgBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(c.Value), pw) == nil
	default:
		return false
	}
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
