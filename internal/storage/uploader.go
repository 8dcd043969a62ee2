package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/portfolio-api/internal/crypto"
	"github.com/and161185/portfolio-api/internal/errs"
)

// Artifact categories; each maps to one subtree of the store.
const (
	CategoryPosts        = "posts"
	CategoryCertificates = "certificates"
)

// ImageExtensions is the allow-list for post and certificate uploads.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".pdf", ".webp"}

const (
	randomBytes = 8
	maxLabelLen = 50
)

// Upload is an incoming file.
type Upload struct {
	Body     io.Reader
	Filename string // name supplied by the client; only its extension is kept
	Label    string // human-readable hint for the stored name, e.g. a title
}

// Uploader validates, names and persists artifacts, and cleans up superseded ones.
type Uploader struct {
	store  Store
	prefix string
	strict bool
	log    *zap.Logger
}

// UploaderOption customizes an Uploader.
type UploaderOption func(*Uploader)

// WithStrictCleanup makes Delete report removal failures instead of only logging them.
func WithStrictCleanup(strict bool) UploaderOption {
	return func(u *Uploader) { u.strict = strict }
}

// NewUploader wraps store. References are publicPrefix + "/" + key, e.g. "/static/posts/x.png".
func NewUploader(store Store, publicPrefix string, log *zap.Logger, opts ...UploaderOption) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	u := &Uploader{store: store, prefix: strings.TrimRight(publicPrefix, "/"), log: log}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Accept validates the extension, stores the body under a fresh name and returns its reference.
func (u *Uploader) Accept(ctx context.Context, category string, up Upload, allowed []string) (string, error) {
	ext, err := ValidateExtension(up.Filename, allowed)
	if err != nil {
		return "", err
	}
	name, err := GenerateName(up.Label, ext)
	if err != nil {
		return "", fmt.Errorf("%w: name: %v", errs.ErrStorage, err)
	}
	key := path.Join(category, name)
	if err := u.store.Save(ctx, key, up.Body); err != nil {
		return "", fmt.Errorf("%w: save %s: %v", errs.ErrStorage, key, err)
	}
	return u.prefix + "/" + key, nil
}

// Replace accepts the new upload, runs commit with its reference, then removes prev.
// If commit fails the new artifact is discarded and prev is kept. Failing to
// remove prev is only logged. A nil commit always succeeds.
func (u *Uploader) Replace(ctx context.Context, prev, category string, up Upload, allowed []string, commit func(ref string) error) (string, error) {
	ref, err := u.Accept(ctx, category, up, allowed)
	if err != nil {
		return "", err
	}
	if commit != nil {
		if err := commit(ref); err != nil {
			u.Discard(ctx, ref)
			return "", err
		}
	}
	if prev != "" && prev != ref {
		u.Discard(ctx, prev)
	}
	return ref, nil
}

// Delete removes the artifact behind ref together with its owning record,
// which commit deletes. Missing artifacts and foreign references are ignored.
//
// With lenient cleanup the record goes first and a failed removal is only
// logged, so a surviving record always keeps its artifact. With strict
// cleanup the artifact goes first and a removal failure is returned as
// errs.ErrStorage without running commit.
func (u *Uploader) Delete(ctx context.Context, ref string, commit func() error) error {
	if !u.strict {
		if commit != nil {
			if err := commit(); err != nil {
				return err
			}
		}
		u.Discard(ctx, ref)
		return nil
	}
	if err := u.remove(ctx, ref); err != nil {
		return fmt.Errorf("%w: remove %s: %v", errs.ErrStorage, ref, err)
	}
	if commit == nil {
		return nil
	}
	if err := commit(); err != nil {
		u.log.Error("record kept after its artifact was removed", zap.String("ref", ref), zap.Error(err))
		return err
	}
	return nil
}

// Discard removes ref on a best-effort basis regardless of the cleanup policy.
func (u *Uploader) Discard(ctx context.Context, ref string) {
	if err := u.remove(ctx, ref); err != nil {
		u.log.Warn("could not delete artifact", zap.String("ref", ref), zap.Error(err))
	}
}

// Owns reports whether ref points into this uploader's store.
func (u *Uploader) Owns(ref string) bool {
	_, ok := u.keyOf(ref)
	return ok
}

func (u *Uploader) remove(ctx context.Context, ref string) error {
	key, ok := u.keyOf(ref)
	if !ok {
		if ref != "" {
			u.log.Debug("skip delete of foreign reference", zap.String("ref", ref))
		}
		return nil
	}
	return u.store.Remove(ctx, key)
}

func (u *Uploader) keyOf(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, u.prefix+"/")
	if !ok {
		return "", false
	}
	key, err := cleanKey(rest)
	if err != nil {
		return "", false
	}
	return key, true
}

// ValidateExtension returns the lower-cased extension of filename if it is allowed.
func ValidateExtension(filename string, allowed []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !slices.Contains(allowed, ext) {
		return "", fmt.Errorf("%w: invalid file type %q, allowed types: %s",
			errs.ErrValidation, filepath.Ext(filename), strings.Join(allowed, ", "))
	}
	return ext, nil
}

// GenerateName returns "<16 hex chars>_<label>" + ext, or "<16 hex chars>" + ext for an empty label.
func GenerateName(label, ext string) (string, error) {
	b, err := crypto.RandBytes(randomBytes)
	if err != nil {
		return "", err
	}
	name := hex.EncodeToString(b)
	if l := sanitizeLabel(label); l != "" {
		name += "_" + l
	}
	return name + ext, nil
}

func sanitizeLabel(label string) string {
	var sb strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(label) {
		if n == maxLabelLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteByte('_')
		default:
			continue
		}
		n++
	}
	return sb.String()
}
