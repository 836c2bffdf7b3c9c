package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store keeps synthesized audio assets on disk under a single directory.
// Keys are random per synthesis request so concurrent calls reaching the
// same step can never overwrite each other's audio.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the audio bytes under a fresh unique key and returns the
// asset filename.
func (s *Store) Save(audio []byte) (string, error) {
	filename := uuid.NewString() + ".mp3"
	if err := os.WriteFile(filepath.Join(s.dir, filename), audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio asset: %w", err)
	}
	return filename, nil
}

// Open returns the stored bytes for a filename, or an error if absent or
// the name tries to escape the store directory.
func (s *Store) Open(filename string) ([]byte, error) {
	clean := filepath.Base(filename)
	if clean != filename || strings.Contains(filename, "..") {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(filepath.Join(s.dir, clean))
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}
