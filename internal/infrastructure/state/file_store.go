package state

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gigakumar/ekupkaran-go/internal/pkg/filesystem"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// FileStore persists opaque key-value blobs as JSON files, standing in
// for the host platform's local storage.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted under ~/.ekupkaran/state.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = filepath.Join(filesystem.UserHomeDir(), ".ekupkaran", "state")
	}
	return &FileStore{dir: dir}
}

// Load reads a blob; the second return reports whether the key exists.
func (s *FileStore) Load(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Save writes a blob.
func (s *FileStore) Save(key string, data []byte) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.pathFor(key), data, 0o644)
}

// Delete removes a blob; missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.pathFor(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir exposes the store directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) pathFor(key string) string {
	// keys contain dots but never separators; flatten anything unexpected
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, safe+".json")
}

var _ ports.StateRepository = (*FileStore)(nil)
