// Package upload validates incoming item photos and keeps them in a blob store
// under generated names.
package upload

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxRequestSize caps the size of a report submission including its photo.
const MaxRequestSize = 5 << 20

// ErrUnsupportedType is returned for files whose extension is not an accepted image type.
var ErrUnsupportedType = errors.New("unsupported image type (only PNG, JPG, JPEG and GIF are accepted)")

// ErrNotFound is returned by stores for names that hold no blob.
var ErrNotFound = errors.New("upload not found")

// AllowedExtensions maps accepted extensions to the content type they are served with.
var AllowedExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// Store is a flat namespace of blobs keyed by generated name.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

// Extension returns the lower-cased text after the last dot of filename, or ""
// when there is none.
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// ContentType returns the content type for a stored name, or "" if its
// extension is not accepted.
func ContentType(name string) string {
	return AllowedExtensions[Extension(name)]
}

// validName matches exactly the names produced by NewName.
var validName = regexp.MustCompile(`^[0-9a-f]{32}\.(png|jpg|jpeg|gif)$`)

// ValidName reports whether name has the shape of a generated upload name.
// Anything else, including path separators and dot segments, is rejected.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// NewName generates a random 128-bit name carrying ext.
func NewName(ext string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating upload name: %w", err)
	}
	return hex.EncodeToString(id[:]) + "." + ext, nil
}

// Handler stores accepted photos in Store.
type Handler struct {
	Store Store
}

// Save validates filename and writes r under a fresh generated name, returning
// that name. A nil reader or an empty filename means no photo was sent and
// yields ("", nil). A disallowed extension yields ErrUnsupportedType and
// nothing is written.
func (h *Handler) Save(ctx context.Context, r io.Reader, filename string, size int64) (string, error) {
	if r == nil || filename == "" {
		return "", nil
	}

	ext := Extension(filename)
	contentType, ok := AllowedExtensions[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	name, err := NewName(ext)
	if err != nil {
		return "", err
	}

	if err := h.Store.Put(ctx, name, r, size, contentType); err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	return name, nil
}

// Open returns the blob stored under name. Names that could not have been
// generated by Save report ErrNotFound without touching the store.
func (h *Handler) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, ErrNotFound
	}
	return h.Store.Get(ctx, name)
}

// Discard removes a stored blob. Invalid names are ignored.
func (h *Handler) Discard(ctx context.Context, name string) error {
	if !ValidName(name) {
		return nil
	}
	return h.Store.Remove(ctx, name)
}
