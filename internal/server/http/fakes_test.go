package httpserver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
	"github.com/and161185/portfolio-api/internal/storage"
)

const goodToken = "good-token"

type fakeAuth struct {
	loginErr error
	lastIP   string
}

func (f *fakeAuth) Identify(_ context.Context, raw string) (*model.User, error) {
	if raw != goodToken {
		return nil, errs.ErrInvalidToken
	}
	return &model.User{ID: uuid.Must(uuid.NewV4()), Username: "admin", Active: true}, nil
}

func (f *fakeAuth) Login(_ context.Context, username, password, ip string) (model.Tokens, *model.User, error) {
	f.lastIP = ip
	if f.loginErr != nil {
		return model.Tokens{}, nil, f.loginErr
	}
	if username != "admin" || password != "admin123" {
		return model.Tokens{}, nil, errs.ErrUnauthorized
	}
	return model.Tokens{AccessToken: goodToken, ExpiresAt: time.Now().Add(30 * time.Minute)},
		&model.User{Username: username, Active: true}, nil
}

// fakePosts keeps posts in memory and reads uploads fully.
type fakePosts struct {
	byID       map[uuid.UUID]model.Post
	lastFilter model.PostFilter
	lastBody   string
	lastName   string
	deleteErr  error
}

func newFakePosts() *fakePosts { return &fakePosts{byID: map[uuid.UUID]model.Post{}} }

func (f *fakePosts) readUpload(up *storage.Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	ext, err := storage.ValidateExtension(up.Filename, storage.ImageExtensions)
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(up.Body)
	if err != nil {
		return "", err
	}
	f.lastBody, f.lastName = string(b), up.Filename
	return "/static/posts/" + uuid.Must(uuid.NewV4()).String() + ext, nil
}

func (f *fakePosts) List(_ context.Context, flt model.PostFilter) ([]model.Post, error) {
	f.lastFilter = flt
	out := []model.Post{}
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}
func (f *fakePosts) Get(_ context.Context, id uuid.UUID) (*model.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}
func (f *fakePosts) Create(_ context.Context, p model.Post, image *storage.Upload) (*model.Post, error) {
	if p.Title == "" || p.Content == "" {
		return nil, fmt.Errorf("%w: title and content must not be empty", errs.ErrValidation)
	}
	ref, err := f.readUpload(image)
	if err != nil {
		return nil, err
	}
	p.ID, p.ImageURL, p.CreatedAt = uuid.Must(uuid.NewV4()), ref, time.Now()
	f.byID[p.ID] = p
	return &p, nil
}
func (f *fakePosts) Update(_ context.Context, id uuid.UUID, patch model.PostPatch, image *storage.Upload) (*model.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	patch.Apply(&p)
	if image != nil {
		ref, err := f.readUpload(image)
		if err != nil {
			return nil, err
		}
		p.ImageURL = ref
	}
	f.byID[id] = p
	return &p, nil
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
	byID map[uuid.UUID]model.Certificate
}

func (f *fakeCerts) List(context.Context, model.Page) ([]model.Certificate, error) {
	return []model.Certificate{}, nil
}
func (f *fakeCerts) Get(_ context.Context, id uuid.UUID) (*model.Certificate, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}
func (f *fakeCerts) Create(_ context.Context, c model.Certificate, image *storage.Upload) (*model.Certificate, error) {
	if image == nil {
		return nil, fmt.Errorf("%w: image is required", errs.ErrValidation)
	}
	ext, err := storage.ValidateExtension(image.Filename, storage.ImageExtensions)
	if err != nil {
		return nil, err
	}
	c.ID, c.ImageURL = uuid.Must(uuid.NewV4()), "/static/certificates/x"+ext
	f.byID[c.ID] = c
	return &c, nil
}
func (f *fakeCerts) Update(_ context.Context, id uuid.UUID, patch model.CertificatePatch, _ *storage.Upload) (*model.Certificate, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	patch.Apply(&c)
	f.byID[id] = c
	return &c, nil
}
func (f *fakeCerts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSkills struct {
	lastFilter   model.SkillFilter
	lastFeatured int
	created      []model.Skill
}

func (f *fakeSkills) List(_ context.Context, flt model.SkillFilter) ([]model.Skill, error) {
	f.lastFilter = flt
	return []model.Skill{{ID: uuid.Must(uuid.NewV4()), Name: "Go", Order: 1}}, nil
}
func (f *fakeSkills) Featured(_ context.Context, limit int) ([]model.Skill, error) {
	f.lastFeatured = limit
	return nil, nil
}
func (f *fakeSkills) Get(context.Context, uuid.UUID) (*model.Skill, error) {
	return nil, errs.ErrNotFound
}
func (f *fakeSkills) Categories(context.Context) ([]string, error) {
	return nil, nil
}
func (f *fakeSkills) CategoryDistribution(context.Context) ([]model.CategoryCount, error) {
	return []model.CategoryCount{{Category: "Programming", Count: 3}}, nil
}
func (f *fakeSkills) ProficiencyStats(context.Context) (model.ProficiencyStats, error) {
	return model.ProficiencyStats{Average: 81.5, Max: 95, Min: 70, Total: 10}, nil
}
func (f *fakeSkills) Create(_ context.Context, s model.Skill) (*model.Skill, error) {
	for _, o := range f.created {
		if o.Name == s.Name {
			return nil, fmt.Errorf("%w: skill with this name already exists", errs.ErrAlreadyExists)
		}
	}
	s.ID = uuid.Must(uuid.NewV4())
	f.created = append(f.created, s)
	return &s, nil
}
func (f *fakeSkills) Update(context.Context, uuid.UUID, model.SkillPatch) (*model.Skill, error) {
	return nil, errs.ErrNotFound
}
func (f *fakeSkills) Delete(context.Context, uuid.UUID) error { return nil }
