// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/portfolio-api/internal/model"
)

// UserRepository stores login identities.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByUsername loads a user by username; errs.ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// PostRepository provides CRUD access for posts.
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	Get(ctx context.Context, id uuid.UUID) (*model.Post, error)
	List(ctx context.Context, f model.PostFilter) ([]model.Post, error)
	// Update overwrites all mutable fields and sets updated_at.
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CertificateRepository provides CRUD access for certificates.
type CertificateRepository interface {
	Create(ctx context.Context, c *model.Certificate) error
	Get(ctx context.Context, id uuid.UUID) (*model.Certificate, error)
	List(ctx context.Context, p model.Page) ([]model.Certificate, error)
	Update(ctx context.Context, c *model.Certificate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SkillRepository provides CRUD access and aggregates for skills.
type SkillRepository interface {
	Create(ctx context.Context, s *model.Skill) error
	CreateBatch(ctx context.Context, skills []model.Skill) error
	Get(ctx context.Context, id uuid.UUID) (*model.Skill, error)
	// GetByName returns errs.ErrNotFound if no skill has that name.
	GetByName(ctx context.Context, name string) (*model.Skill, error)
	List(ctx context.Context, f model.SkillFilter) ([]model.Skill, error)
	Update(ctx context.Context, s *model.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	Categories(ctx context.Context) ([]string, error)
	CategoryDistribution(ctx context.Context) ([]model.CategoryCount, error)
	ProficiencyStats(ctx context.Context) (model.ProficiencyStats, error)
}
