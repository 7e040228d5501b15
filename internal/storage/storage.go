// Package storage stores uploaded images on local disk under an upload
// root, one subdirectory per kind. Files are renamed to uuids on save so
// client-supplied names never reach the filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// ProfileDir holds profile images.
	ProfileDir = "profile"
	// PostDir holds post attachments.
	PostDir = "post"

	// MaxProfileImageSize caps a profile image upload.
	MaxProfileImageSize = 10 << 20
	// MaxPostImageSize caps a single post attachment.
	MaxPostImageSize = 20 << 20
	// MaxPostImageCount caps the attachments of one post.
	MaxPostImageCount = 10
)

// Store is an image store rooted at a directory.
type Store struct {
	root string
}

// New creates the upload directories if needed and returns the store.
func New(root string) (*Store, error) {
	for _, sub := range []string{ProfileDir, PostDir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Store{root: root}, nil
}

// Save writes src to disk under dir with a fresh uuid name, keeping the
// original file's extension. Returns the stored filename.
func (s *Store) Save(dir string, src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Path returns the on-disk path of a stored file. The name must be a bare
// filename produced by Save; anything path-like is rejected.
func (s *Store) Path(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid stored filename %q", name)
	}
	return filepath.Join(s.root, dir, name), nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(dir, name string) error {
	path, err := s.Path(dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ContentType derives the image content type from a stored filename.
func ContentType(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "application/octet-stream"
	}
	if ext == "jpg" {
		ext = "jpeg"
	}
	return "image/" + ext
}
