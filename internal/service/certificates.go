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

// CertificateService manages certificates. Every certificate owns one image.
type CertificateService struct {
	repo  repository.CertificateRepository
	files Artifacts
	log   *zap.Logger
}

// NewCertificateService constructs CertificateService.
func NewCertificateService(repo repository.CertificateRepository, files Artifacts, log *zap.Logger) *CertificateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CertificateService{repo: repo, files: files, log: log}
}

func (s *CertificateService) List(ctx context.Context, p model.Page) ([]model.Certificate, error) {
	return s.repo.List(ctx, p)
}

func (s *CertificateService) Get(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	return s.repo.Get(ctx, id)
}

// Create stores the image, then the certificate.
func (s *CertificateService) Create(ctx context.Context, c model.Certificate, image *storage.Upload) (*model.Certificate, error) {
	if err := validateCertificate(&c); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, fmt.Errorf("%w: image is required", errs.ErrValidation)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	c.ID = id

	if image.Label == "" {
		image.Label = c.Title
	}
	ref, err := s.files.Accept(ctx, storage.CategoryCertificates, *image, storage.ImageExtensions)
	if err != nil {
		return nil, err
	}
	c.ImageURL = ref
	if err := s.repo.Create(ctx, &c); err != nil {
		s.files.Discard(ctx, ref)
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	return &c, nil
}

// Update applies patch and optionally replaces the image.
func (s *CertificateService) Update(ctx context.Context, id uuid.UUID, patch model.CertificatePatch, image *storage.Upload) (*model.Certificate, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := validateCertificate(c); err != nil {
		return nil, err
	}

	if image == nil {
		if err := s.repo.Update(ctx, c); err != nil {
			return nil, fmt.Errorf("update certificate: %w", err)
		}
		return c, nil
	}

	if image.Label == "" {
		image.Label = c.Title
	}
	_, err = s.files.Replace(ctx, c.ImageURL, storage.CategoryCertificates, *image, storage.ImageExtensions, func(ref string) error {
		c.ImageURL = ref
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("update certificate: %w", err)
	}
	return c, nil
}

// Delete removes the certificate together with its image.
func (s *CertificateService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.files.Delete(ctx, c.ImageURL, func() error {
		return s.repo.Delete(ctx, id)
	})
}

func validateCertificate(c *model.Certificate) error {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Issuer) == "" || strings.TrimSpace(c.Date) == "" {
		return fmt.Errorf("%w: title, issuer and date are required", errs.ErrValidation)
	}
	return nil
}
