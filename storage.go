package pigeongen

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Storage is an interface for persisting encoded image bytes.
// Implementations can wrap a local directory, GCS, S3, etc.
type Storage interface {
	// SaveFile saves image data to storage and returns the location the
	// image can be read back from. The path should include the full object
	// path (e.g., "img/jubilant.png"). The contentType is the image's MIME
	// type (e.g., "image/png").
	SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error)
}

// DirStorage persists images to the local filesystem. Parent directories
// are created as needed; an existing file at the same path is silently
// overwritten. The exclusion logic in the Selector is the only collision
// guard, so two concurrent runs choosing the same adjective can race.
type DirStorage struct{}

// Ensure DirStorage implements Storage.
var _ Storage = (*DirStorage)(nil)

// NewDirStorage creates a local filesystem storage backend.
func NewDirStorage() *DirStorage {
	return &DirStorage{}
}

// SaveFile writes data to path, creating parent directories if missing.
// Returns the absolute path of the written file.
func (s *DirStorage) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &PersistenceError{Path: path, Err: err}
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &PersistenceError{Path: path, Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// SaveImage encodes a decoded bitmap as PNG and writes it through storage.
func SaveImage(ctx context.Context, storage Storage, img image.Image, path string) (string, error) {
	if storage == nil {
		return "", ErrStorageNotConfigured
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", &PersistenceError{Path: path, Err: err}
	}

	return storage.SaveFile(ctx, buf.Bytes(), path, "image/png")
}

// Exclusions lists dir for files with the given extension (e.g. ".png")
// and returns the set of their filename stems. The set is built fresh per
// run; a missing directory yields an empty set, not an error.
func Exclusions(dir string, ext string) (map[string]struct{}, error) {
	stems := make(map[string]struct{})

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return stems, nil
	}
	if err != nil {
		return nil, &PersistenceError{Path: dir, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ext {
			continue
		}
		stems[strings.TrimSuffix(name, ext)] = struct{}{}
	}

	return stems, nil
}
