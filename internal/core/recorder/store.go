package recorder

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists one encoded event log at a fixed path. Each Save
// replaces the previous capture.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(log Log) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create storage dir: %w", ErrStorage, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, Encode(log), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrStorage, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: failed to persist %s: %w", ErrStorage, s.path, err)
	}
	return nil
}

func (s *FileStore) Load() (Log, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrStorage, s.path, err)
	}
	log, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return log, nil
}
