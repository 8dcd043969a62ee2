package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
	"github.com/and161185/portfolio-api/internal/repository"
)

// Featured listing bounds.
const (
	DefaultFeaturedLimit = 10
	MaxFeaturedLimit     = 20
)

// SkillService manages skills and their statistics.
type SkillService struct {
	repo repository.SkillRepository
	log  *zap.Logger
}

// NewSkillService constructs SkillService.
func NewSkillService(repo repository.SkillRepository, log *zap.Logger) *SkillService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SkillService{repo: repo, log: log}
}

// List returns skills ordered by display order, then name.
func (s *SkillService) List(ctx context.Context, f model.SkillFilter) ([]model.Skill, error) {
	return s.repo.List(ctx, f)
}

// Featured returns up to limit featured skills. limit 0 means DefaultFeaturedLimit.
func (s *SkillService) Featured(ctx context.Context, limit int) ([]model.Skill, error) {
	if limit == 0 {
		limit = DefaultFeaturedLimit
	}
	if limit < 1 || limit > MaxFeaturedLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", errs.ErrValidation, MaxFeaturedLimit)
	}
	featured := true
	return s.repo.List(ctx, model.SkillFilter{Featured: &featured, Limit: limit})
}

func (s *SkillService) Get(ctx context.Context, id uuid.UUID) (*model.Skill, error) {
	return s.repo.Get(ctx, id)
}

// Categories returns the distinct non-empty categories.
func (s *SkillService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// CategoryDistribution counts skills per non-empty category.
func (s *SkillService) CategoryDistribution(ctx context.Context) ([]model.CategoryCount, error) {
	return s.repo.CategoryDistribution(ctx)
}

// ProficiencyStats aggregates proficiency; the average is rounded to two decimals.
func (s *SkillService) ProficiencyStats(ctx context.Context) (model.ProficiencyStats, error) {
	st, err := s.repo.ProficiencyStats(ctx)
	if err != nil {
		return model.ProficiencyStats{}, err
	}
	st.Average = math.Round(st.Average*100) / 100
	return st, nil
}

// Create inserts a skill; a taken name yields errs.ErrAlreadyExists.
func (s *SkillService) Create(ctx context.Context, sk model.Skill) (*model.Skill, error) {
	if err := validateSkill(&sk); err != nil {
		return nil, err
	}
	if err := s.nameFree(ctx, sk.Name, uuid.Nil); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	sk.ID = id
	sk.UpdatedAt = nil
	if err := s.repo.Create(ctx, &sk); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return &sk, nil
}

// Update applies patch, checking name uniqueness when the name changes.
func (s *SkillService) Update(ctx context.Context, id uuid.UUID, patch model.SkillPatch) (*model.Skill, error) {
	sk, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rename := patch.Name != nil && *patch.Name != sk.Name
	patch.Apply(sk)
	if err := validateSkill(sk); err != nil {
		return nil, err
	}
	if rename {
		if err := s.nameFree(ctx, sk.Name, sk.ID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, sk); err != nil {
		return nil, fmt.Errorf("update skill: %w", err)
	}
	return sk, nil
}

func (s *SkillService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Seed inserts InitialSkills when no skill exists. It returns the number inserted.
func (s *SkillService) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}
	if n > 0 {
		s.log.Info("skills already present, skip seeding", zap.Int("count", n))
		return 0, nil
	}
	skills := InitialSkills()
	for i := range skills {
		if skills[i].ID, err = uuid.NewV4(); err != nil {
			return 0, err
		}
	}
	if err := s.repo.CreateBatch(ctx, skills); err != nil {
		return 0, fmt.Errorf("seed skills: %w", err)
	}
	s.log.Info("initial skills seeded", zap.Int("count", len(skills)))
	return len(skills), nil
}

func (s *SkillService) nameFree(ctx context.Context, name string, self uuid.UUID) error {
	other, err := s.repo.GetByName(ctx, name)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID == self:
		return nil
	}
	return fmt.Errorf("%w: skill with this name already exists", errs.ErrAlreadyExists)
}

func validateSkill(sk *model.Skill) error {
	sk.Name = strings.TrimSpace(sk.Name)
	if sk.Name == "" {
		return fmt.Errorf("%w: name is required", errs.ErrValidation)
	}
	if p := sk.Proficiency; p != nil && (*p < 0 || *p > 100) {
		return fmt.Errorf("%w: proficiency must be between 0 and 100", errs.ErrValidation)
	}
	return nil
}

// InitialSkills is the catalogue inserted into an empty database.
func InitialSkills() []model.Skill {
	skill := func(name, category string, proficiency int, color string, order int, featured bool) model.Skill {
		return model.Skill{Name: name, Category: category, Proficiency: &proficiency, Color: color, Order: order, Featured: featured}
	}
	return []model.Skill{
		skill("Python", "Programming", 90, "#3776AB", 1, true),
		skill("JavaScript", "Programming", 85, "#F7DF1E", 2, true),
		skill("FastAPI", "Framework", 80, "#009688", 3, true),
		skill("React", "Framework", 75, "#61DAFB", 4, true),
		skill("SQL", "Database", 85, "#4479A1", 5, false),
		skill("Git", "Tool", 80, "#F05032", 6, false),
		skill("Docker", "Tool", 70, "#2496ED", 7, false),
		skill("HTML/CSS", "Web", 95, "#E34F26", 8, false),
		skill("TypeScript", "Programming", 70, "#3178C6", 9, false),
		skill("PostgreSQL", "Database", 75, "#4169E1", 10, false),
	}
}
