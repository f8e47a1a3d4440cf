// Package blob stores uploaded media on local disk and hands back the URL
// path under which the server serves it.
package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the allowed size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// imageExts mirrors the poster-facing upload allow-list: images only.
var imageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStore writes blobs under a base directory, partitioned by subdir
// (tasks, chat, profiles). Filenames are uuid-based so uploads never
// collide or leak the original name.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the base directory exists.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the base directory blobs are written under.
func (s *LocalStore) Dir() string {
	return s.dir
}

// SaveImage stores an image upload, rejecting non-image extensions. Returns
// the URL path the file is served under.
func (s *LocalStore) SaveImage(subdir, prefix, origName string, r io.Reader, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	if !imageExts[ext] {
		return "", ErrUnsupportedType
	}
	return s.save(subdir, prefix, ext, r, maxBytes)
}

// SaveMedia stores chat media: any image or video by declared content type.
func (s *LocalStore) SaveMedia(subdir, prefix, origName, contentType string, r io.Reader, maxBytes int64) (string, error) {
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return "", ErrUnsupportedType
	}
	ext := strings.ToLower(filepath.Ext(origName))
	return s.save(subdir, prefix, ext, r, maxBytes)
}

func (s *LocalStore) save(subdir, prefix, ext string, r io.Reader, maxBytes int64) (string, error) {
	target := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload subdirectory: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext)
	full := filepath.Join(target, name)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	// Read one byte past the cap to tell "exactly at the limit" from "over".
	written, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	if err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if written > maxBytes {
		os.Remove(full)
		return "", ErrFileTooLarge
	}

	return path.Join("/uploads", subdir, name), nil
}
