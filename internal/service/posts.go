package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/model"
	"github.com/and161185/portfolio-api/internal/repository"
	"github.com/and161185/portfolio-api/internal/storage"
)

// PostService manages blog posts and their optional images.
type PostService struct {
	repo  repository.PostRepository
	files Artifacts
	log   *zap.Logger
}

// NewPostService constructs PostService.
func NewPostService(repo repository.PostRepository, files Artifacts, log *zap.Logger) *PostService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostService{repo: repo, files: files, log: log}
}

// List returns posts newest first.
func (s *PostService) List(ctx context.Context, f model.PostFilter) ([]model.Post, error) {
	return s.repo.List(ctx, f)
}

// Get returns a post or errs.ErrNotFound.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.repo.Get(ctx, id)
}

// Create stores the optional image first and then the post.
// The image is discarded if the post cannot be saved.
func (s *PostService) Create(ctx context.Context, p model.Post, image *storage.Upload) (*model.Post, error) {
	if err := validatePost(&p); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.UpdatedAt = nil

	if image != nil {
		if image.Label == "" {
			image.Label = p.Title
		}
		ref, err := s.files.Accept(ctx, storage.CategoryPosts, *image, storage.ImageExtensions)
		if err != nil {
			return nil, err
		}
		p.ImageURL = ref
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		if p.ImageURL != "" {
			s.files.Discard(ctx, p.ImageURL)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &p, nil
}

// Update applies patch and, when image is set, replaces the stored image.
// Pointing ImageURL away from a stored artifact removes that artifact.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, patch model.PostPatch, image *storage.Upload) (*model.Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := p.ImageURL
	patch.Apply(p)
	if err := validatePost(p); err != nil {
		return nil, err
	}

	if image == nil {
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("update post: %w", err)
		}
		s.dropStale(ctx, prev, p.ImageURL)
		return p, nil
	}

	if image.Label == "" {
		image.Label = p.Title
	}
	_, err = s.files.Replace(ctx, prev, storage.CategoryPosts, *image, storage.ImageExtensions, func(ref string) error {
		p.ImageURL = ref
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// Delete removes the post and its image. See storage.Uploader.Delete for the ordering.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.files.Delete(ctx, p.ImageURL, func() error {
		return s.repo.Delete(ctx, id)
	})
}

// dropStale removes prev if the post no longer references it.
func (s *PostService) dropStale(ctx context.Context, prev, cur string) {
	if prev != "" && prev != cur && s.files.Owns(prev) {
		s.files.Discard(ctx, prev)
	}
}

func validatePost(p *model.Post) error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: title and content must not be empty", errs.ErrValidation)
	}
	return nil
}
