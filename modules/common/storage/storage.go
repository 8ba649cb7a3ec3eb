package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Mirror receives a copy of every saved file. The local file stays canonical.
type Mirror interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
}

// LocalStore writes generated images into the static directory
type LocalStore struct {
	dir    string
	mirror Mirror
}

// NewLocalStore - create the directory if absent. mirror may be nil.
func NewLocalStore(dir string, mirror Mirror) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create static directory %s: %w", dir, err)
	}

	log.Printf("📁 [Storage] Serving images from %s", dir)
	return &LocalStore{
		dir:    dir,
		mirror: mirror,
	}, nil
}

// Dir - directory backing the static route
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save - write data to dir/name, replacing any existing file, then mirror it.
// Returns the path of the written file.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name: %q", name)
	}

	path := filepath.Join(s.dir, name)
	if err := writeFileReplace(s.dir, path, data); err != nil {
		return "", err
	}
	log.Printf("💾 [Storage] Saved %s (%d bytes)", path, len(data))

	if s.mirror != nil {
		if err := s.mirror.Upload(ctx, name, data, contentType); err != nil {
			log.Printf("⚠️  [Storage] Mirror upload failed for %s: %v", name, err)
		} else {
			log.Printf("☁️  [Storage] Mirrored %s", name)
		}
	}

	return path, nil
}

// writeFileReplace - temp file + rename so readers never see a partial image
func writeFileReplace(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close image file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set image permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move image into place: %w", err)
	}
	return nil
}
