// Package service contains application services for authentication and portfolio content.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/and161185/portfolio-api/internal/crypto"
	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/limiter"
	"github.com/and161185/portfolio-api/internal/model"
	"github.com/and161185/portfolio-api/internal/repository"
)

// PasswordHasher turns passwords into credentials and checks them.
type PasswordHasher interface {
	Hash(plaintext string) pkgcrypto.Credential
	Verify(plaintext string, c pkgcrypto.Credential) bool
}

// TokenManager issues and verifies access tokens for a subject.
type TokenManager interface {
	Issue(subject string) (string, time.Time, error)
	Verify(raw string) (string, error)
}

// AuthService authenticates the administrator and manages access tokens.
type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenManager
	lim    limiter.Limiter
	log    *zap.Logger

	// verified on lookup misses
	dummy pkgcrypto.Credential
}

// NewAuthService constructs AuthService. A nil limiter disables throttling.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenManager, lim limiter.Limiter, log *zap.Logger) *AuthService {
	if lim == nil {
		lim = limiter.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		lim:    lim,
		log:    log,
		dummy:  hasher.Hash(uuid.Must(uuid.NewV4()).String()),
	}
}

// FindByName returns the user with the given name or errs.ErrNotFound.
func (s *AuthService) FindByName(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Authenticate checks a name/password pair. Unknown users, inactive users and
// wrong passwords all yield errs.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.FindByName(ctx, username)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		s.hasher.Verify(password, s.dummy)
		return nil, errs.ErrUnauthorized
	case err != nil:
		return nil, err
	}
	if !s.hasher.Verify(password, pkgcrypto.ParseCredential(u.Credential)) || !u.Active {
		return nil, errs.ErrUnauthorized
	}
	return u, nil
}

// Login authenticates with rate limiting by (username, ip) and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (model.Tokens, *model.User, error) {
	key := limiter.Key(username, ip)

	allowed, wait, err := s.lim.Allow(ctx, key)
	if err != nil {
		return model.Tokens{}, nil, fmt.Errorf("limiter: %w", err)
	}
	if !allowed {
		s.log.Info("login blocked", zap.String("username", username), zap.Duration("retry_in", wait))
		return model.Tokens{}, nil, errs.ErrRateLimited
	}

	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if !errors.Is(err, errs.ErrUnauthorized) {
			return model.Tokens{}, nil, err
		}
		blocked, _, ferr := s.lim.Failure(ctx, key)
		if ferr != nil {
			s.log.Warn("record login failure", zap.Error(ferr))
		}
		if blocked {
			return model.Tokens{}, nil, errs.ErrRateLimited
		}
		return model.Tokens{}, nil, errs.ErrUnauthorized
	}

	if err := s.lim.Success(ctx, key); err != nil {
		s.log.Warn("reset login failures", zap.Error(err))
	}

	access, exp, err := s.tokens.Issue(u.Username)
	if err != nil {
		return model.Tokens{}, nil, fmt.Errorf("issue token: %w", err)
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, u, nil
}

// Identify resolves a bearer token to an active user. Every failure is errs.ErrInvalidToken
// except infrastructure errors from the user store.
func (s *AuthService) Identify(ctx context.Context, raw string) (*model.User, error) {
	subject, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, errs.ErrInvalidToken
	}
	u, err := s.FindByName(ctx, subject)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil, errs.ErrInvalidToken
	case err != nil:
		return nil, err
	case !u.Active:
		return nil, errs.ErrInvalidToken
	}
	return u, nil
}

// EnsureAdmin creates the administrator account if it does not exist yet.
// It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: empty admin username or password", errs.ErrValidation)
	}
	_, err := s.FindByName(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return false, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return false, err
	}
	u := &model.User{
		ID:         id,
		Username:   username,
		Credential: s.hasher.Hash(password).String(),
		Active:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	s.log.Info("default admin created", zap.String("username", username))
	return true, nil
}
