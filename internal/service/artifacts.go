package service

import (
	"context"

	"github.com/and161185/portfolio-api/internal/storage"
)

// Artifacts stores uploaded files on behalf of content services.
// *storage.Uploader implements it.
type Artifacts interface {
	Accept(ctx context.Context, category string, up storage.Upload, allowed []string) (string, error)
	Replace(ctx context.Context, prev, category string, up storage.Upload, allowed []string, commit func(ref string) error) (string, error)
	Delete(ctx context.Context, ref string, commit func() error) error
	Discard(ctx context.Context, ref string)
	Owns(ref string) bool
}

var _ Artifacts = (*storage.Uploader)(nil)
