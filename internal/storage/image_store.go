// Package storage hands uploaded product images to the place they are served from.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists an image and returns the URL it is reachable at.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	// Delete removes an image by the URL Save returned for it.
	Delete(ctx context.Context, url string) error
}

// objectName replaces the client file name with a uuid, keeping a sane extension.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif":
	default:
		ext = ""
	}
	return uuid.New().String() + ext
}
