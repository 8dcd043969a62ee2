package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
	"github.com/and161185/portfolio-api/internal/repository"
	"github.com/and161185/portfolio-api/internal/storage"
)

type fakePosts struct {
	byID      map[uuid.UUID]model.Post
	createErr error
	updateErr error
	deleteErr error
}

var _ repository.PostRepository = (*fakePosts)(nil)

func newFakePosts() *fakePosts { return &fakePosts{byID: map[uuid.UUID]model.Post{}} }

func (f *fakePosts) Create(_ context.Context, p *model.Post) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.CreatedAt = time.Now()
	f.byID[p.ID] = *p
	return nil
}
func (f *fakePosts) Get(_ context.Context, id uuid.UUID) (*model.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}
func (f *fakePosts) List(_ context.Context, flt model.PostFilter) ([]model.Post, error) {
	var out []model.Post
	for _, p := range f.byID {
		if flt.Category == "" || p.Category == flt.Category {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakePosts) Update(_ context.Context, p *model.Post) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[p.ID]; !ok {
		return errs.ErrNotFound
	}
	now := time.Now()
	p.UpdatedAt = &now
	f.byID[p.ID] = *p
	return nil
}
func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCerts struct {
	byID      map[uuid.UUID]model.Certificate
	createErr error
	updateErr error
}

var _ repository.CertificateRepository = (*fakeCerts)(nil)

func newFakeCerts() *fakeCerts { return &fakeCerts{byID: map[uuid.UUID]model.Certificate{}} }

func (f *fakeCerts) Create(_ context.Context, c *model.Certificate) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.CreatedAt = time.Now()
	f.byID[c.ID] = *c
	return nil
}
func (f *fakeCerts) Get(_ context.Context, id uuid.UUID) (*model.Certificate, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}
func (f *fakeCerts) List(context.Context, model.Page) ([]model.Certificate, error) {
	out := make([]model.Certificate, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}
func (f *fakeCerts) Update(_ context.Context, c *model.Certificate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[c.ID]; !ok {
		return errs.ErrNotFound
	}
	f.byID[c.ID] = *c
	return nil
}
func (f *fakeCerts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSkills struct {
	byID     map[uuid.UUID]model.Skill
	countErr error
	batchIn  []model.Skill
	stats    model.ProficiencyStats
}

var _ repository.SkillRepository = (*fakeSkills)(nil)

func newFakeSkills() *fakeSkills { return &fakeSkills{byID: map[uuid.UUID]model.Skill{}} }

func (f *fakeSkills) Create(_ context.Context, s *model.Skill) error {
	for _, o := range f.byID {
		if o.Name == s.Name {
			return errs.ErrAlreadyExists
		}
	}
	s.CreatedAt = time.Now()
	f.byID[s.ID] = *s
	return nil
}
func (f *fakeSkills) CreateBatch(ctx context.Context, skills []model.Skill) error {
	f.batchIn = append([]model.Skill(nil), skills...)
	for i := range skills {
		if err := f.Create(ctx, &skills[i]); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeSkills) Get(_ context.Context, id uuid.UUID) (*model.Skill, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &s, nil
}
func (f *fakeSkills) GetByName(_ context.Context, name string) (*model.Skill, error) {
	for _, s := range f.byID {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeSkills) List(_ context.Context, flt model.SkillFilter) ([]model.Skill, error) {
	var out []model.Skill
	for _, s := range f.byID {
		if flt.Category != "" && s.Category != flt.Category {
			continue
		}
		if flt.Featured != nil && s.Featured != *flt.Featured {
			continue
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.Skill) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.Name, b.Name)
	})
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}
func (f *fakeSkills) Update(_ context.Context, s *model.Skill) error {
	if _, ok := f.byID[s.ID]; !ok {
		return errs.ErrNotFound
	}
	f.byID[s.ID] = *s
	return nil
}
func (f *fakeSkills) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeSkills) Count(context.Context) (int, error) { return len(f.byID), f.countErr }
func (f *fakeSkills) Categories(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range f.byID {
		if s.Category != "" && !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out, nil
}
func (f *fakeSkills) CategoryDistribution(context.Context) ([]model.CategoryCount, error) {
	return nil, nil
}
func (f *fakeSkills) ProficiencyStats(context.Context) (model.ProficiencyStats, error) {
	return f.stats, nil
}

// fakeArtifacts records calls. deleteErr fails removals; with strict it
// aborts Delete before the record, otherwise it is swallowed after it.
type fakeArtifacts struct {
	accepted  []string
	deleted   []string
	discarded []string
	deleteErr error
	strict    bool
}

var _ Artifacts = (*fakeArtifacts)(nil)

func (f *fakeArtifacts) Accept(_ context.Context, category string, up storage.Upload, allowed []string) (string, error) {
	ext, err := storage.ValidateExtension(up.Filename, allowed)
	if err != nil {
		return "", err
	}
	ref := "/static/" + category + "/" + uuid.Must(uuid.NewV4()).String() + ext
	f.accepted = append(f.accepted, ref)
	return ref, nil
}
func (f *fakeArtifacts) Replace(ctx context.Context, prev, category string, up storage.Upload, allowed []string, commit func(string) error) (string, error) {
	ref, err := f.Accept(ctx, category, up, allowed)
	if err != nil {
		return "", err
	}
	if err := commit(ref); err != nil {
		f.Discard(ctx, ref)
		return "", err
	}
	f.Discard(ctx, prev)
	return ref, nil
}
func (f *fakeArtifacts) Delete(_ context.Context, ref string, commit func() error) error {
	if f.strict {
		if f.deleteErr != nil {
			return f.deleteErr
		}
		f.deleted = append(f.deleted, ref)
		return commit()
	}
	if err := commit(); err != nil {
		return err
	}
	if f.deleteErr == nil && ref != "" {
		f.deleted = append(f.deleted, ref)
	}
	return nil
}
func (f *fakeArtifacts) Discard(_ context.Context, ref string) {
	f.discarded = append(f.discarded, ref)
}
func (f *fakeArtifacts) Owns(ref string) bool {
	return strings.HasPrefix(ref, "/static/")
}
