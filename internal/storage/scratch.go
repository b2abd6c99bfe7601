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

// ScratchStore hands out uniquely named file paths under a single scratch
// directory. Names never collide across requests, so the directory is safe
// to share without coordination. Callers are responsible for removing each
// path they obtain, on success and failure alike.
type ScratchStore struct {
	dir string
}

// NewScratchStore creates the store rooted at dir, or at a fresh temp
// directory when dir is empty.
func NewScratchStore(dir string) (*ScratchStore, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "hookreel-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
		return &ScratchStore{dir: tmp}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &ScratchStore{dir: dir}, nil
}

// Dir returns the scratch directory root.
func (s *ScratchStore) Dir() string {
	return s.dir
}

// Path returns a fresh unique scratch path with the given extension. No
// file is created.
func (s *ScratchStore) Path(ext string) string {
	return filepath.Join(s.dir, uuid.New().String()+normalizeExt(ext))
}

// Save writes data to a fresh scratch file and returns its path.
func (s *ScratchStore) Save(data []byte, ext string) (string, error) {
	path := s.Path(ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	return path, nil
}

// SaveUpload streams a multipart upload into a fresh scratch file named
// after the upload's extension and returns its path.
func (s *ScratchStore) SaveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	path := s.Path(filepath.Ext(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}

// Remove deletes a scratch file. Missing files are not an error, which
// keeps it safe to call from deferred cleanup on every exit path.
func (s *ScratchStore) Remove(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}
