package httpserver

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/portfolio-api/internal/errs"
	"github.com/and161185/portfolio-api/internal/storage"
)

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter within [lo, hi].
func queryInt(c *gin.Context, name string, def, lo, hi int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s must be an integer between %d and %d", errs.ErrValidation, name, lo, hi)
	}
	return v, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", errs.ErrValidation, name)
	}
	return &v, nil
}

// formString returns a pointer to the form value, or nil if the field is absent.
func formString(c *gin.Context, name string) *string {
	v, ok := c.GetPostForm(name)
	if !ok {
		return nil
	}
	return &v
}

// formUpload opens the named multipart file. It returns a nil upload when the
// field is absent; the returned closer is always safe to call.
func formUpload(c *gin.Context, name string) (*storage.Upload, func(), error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w: malformed multipart body", errs.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("open upload: %w", err)
	}
	return &storage.Upload{Body: f, Filename: fh.Filename}, func() { _ = f.Close() }, nil
}

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

func pageParams(c *gin.Context) (skip, limit int, err error) {
	if skip, err = queryInt(c, "skip", 0, 0, math.MaxInt32); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(c, "limit", defaultListLimit, 1, maxListLimit); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}
