// Package storage persists uploaded images on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ImageStore saves uploaded images under a base directory, one
// subdirectory per kind ("posts", "profiles").
type ImageStore struct {
	baseDir string
}

// NewImageStore creates the base directory if needed.
func NewImageStore(baseDir string) (*ImageStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &ImageStore{baseDir: baseDir}, nil
}

// Save writes the uploaded file to disk under kind/ with a generated
// name, keeping the original extension. It returns the path relative to
// the base directory, which is what gets persisted on the entity.
func (s *ImageStore) Save(kind string, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	dir := filepath.Join(s.baseDir, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", kind, err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return filepath.ToSlash(filepath.Join(kind, name)), nil
}

// Remove deletes a previously saved image. A missing file is not an
// error; the entity row is the source of truth.
func (s *ImageStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the base directory, used to mount the static file server.
func (s *ImageStore) Dir() string {
	return s.baseDir
}
