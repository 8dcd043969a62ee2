package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
)

// SkillRepo implements SkillRepository using PostgreSQL.
type SkillRepo struct{ db *DB }

// NewSkillRepo constructs a skill repository.
func NewSkillRepo(db *DB) *SkillRepo { return &SkillRepo{db: db} }

const skillColumns = `id, name, category, proficiency, icon_url, color, sort_order, featured, created_at, updated_at`

const insertSkill = `
INSERT INTO skills (id, name, category, proficiency, icon_url, color, sort_order, featured)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at`

func scanSkill(row pgx.Row) (*model.Skill, error) {
	var s model.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Proficiency, &s.IconURL, &s.Color, &s.Order, &s.Featured, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func skillArgs(s *model.Skill) []any {
	return []any{s.ID, s.Name, s.Category, s.Proficiency, s.IconURL, s.Color, s.Order, s.Featured}
}

// Create inserts a skill; a duplicate name yields errs.ErrAlreadyExists.
func (r *SkillRepo) Create(ctx context.Context, s *model.Skill) error {
	err := r.db.Pool.QueryRow(ctx, insertSkill, skillArgs(s)...).Scan(&s.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// CreateBatch inserts all skills in one transaction.
func (r *SkillRepo) CreateBatch(ctx context.Context, skills []model.Skill) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		for i := range skills {
			if err := tx.QueryRow(ctx, insertSkill, skillArgs(&skills[i])...).Scan(&skills[i].CreatedAt); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("skill[%d]: %w", i, errs.ErrAlreadyExists)
				}
				return err
			}
		}
		return nil
	})
}

// Get selects a skill by ID.
func (r *SkillRepo) Get(ctx context.Context, id uuid.UUID) (*model.Skill, error) {
	s, err := scanSkill(r.db.Pool.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return s, err
}

// GetByName selects a skill by its unique name.
func (r *SkillRepo) GetByName(ctx context.Context, name string) (*model.Skill, error) {
	s, err := scanSkill(r.db.Pool.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE name=$1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return s, err
}

// List returns skills ordered by sort order then name.
func (r *SkillRepo) List(ctx context.Context, f model.SkillFilter) ([]model.Skill, error) {
	const q = `
SELECT ` + skillColumns + `
FROM skills
WHERE ($1 = '' OR category = $1) AND ($2::boolean IS NULL OR featured = $2)
ORDER BY sort_order ASC, name ASC
OFFSET $3 LIMIT $4`
	rows, err := r.db.Pool.Query(ctx, q, f.Category, f.Featured, max(f.Skip, 0), limitOrDefault(f.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Update overwrites the mutable columns and bumps updated_at.
func (r *SkillRepo) Update(ctx context.Context, s *model.Skill) error {
	const q = `
UPDATE skills
SET name=$2, category=$3, proficiency=$4, icon_url=$5, color=$6, sort_order=$7, featured=$8, updated_at=now()
WHERE id=$1
RETURNING updated_at`
	err := r.db.Pool.QueryRow(ctx, q, skillArgs(s)...).Scan(&s.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errs.ErrNotFound
	case isUniqueViolation(err):
		return errs.ErrAlreadyExists
	}
	return err
}

// Delete removes a skill row.
func (r *SkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM skills WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Count returns the number of skills.
func (r *SkillRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Categories returns distinct non-empty categories.
func (r *SkillRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT category FROM skills WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryDistribution counts skills per non-empty category.
func (r *SkillRepo) CategoryDistribution(ctx context.Context) ([]model.CategoryCount, error) {
	const q = `
SELECT category, COUNT(*)
FROM skills
WHERE category <> ''
GROUP BY category
ORDER BY category`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CategoryCount{}
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

// ProficiencyStats aggregates over skills with a proficiency set.
// With no such skills it reports average 0, max 0, min 100, total 0.
func (r *SkillRepo) ProficiencyStats(ctx context.Context) (model.ProficiencyStats, error) {
	const q = `
SELECT COALESCE(AVG(proficiency), 0)::float8, COALESCE(MAX(proficiency), 0), COALESCE(MIN(proficiency), 100), COUNT(*)
FROM skills
WHERE proficiency IS NOT NULL`
	var st model.ProficiencyStats
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&st.Average, &st.Max, &st.Min, &st.Total); err != nil {
		return model.ProficiencyStats{}, err
	}
	return st, nil
}
