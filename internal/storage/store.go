// Package storage persists uploaded artifacts and maps them to public references.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Store persists artifacts under slash-separated keys such as "posts/3f2a_title.png".
type Store interface {
	// Save streams r to key. It must not overwrite an existing artifact.
	Save(ctx context.Context, key string, r io.Reader) error
	// Remove deletes key. A missing artifact is not an error.
	Remove(ctx context.Context, key string) error
}

var errBadKey = errors.New("invalid artifact key")

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", errBadKey
	}
	c := path.Clean(key)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", errBadKey
	}
	return c, nil
}
