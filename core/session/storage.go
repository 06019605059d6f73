package session

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoRecord is returned by Storage.Load when no session record is saved.
var ErrNoRecord = errors.New("no session record")

// Storage is a single named slot holding one serialized session record.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// memoryStorage keeps the slot in memory; used in tests and as a fallback.
type memoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

func (s *memoryStorage) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNoRecord
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *memoryStorage) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

func (s *memoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// fileStorage persists the slot as a JSON file so sessions survive restarts.
type fileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(path string) Storage {
	return &fileStorage{path: path}
}

func (s *fileStorage) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "reading session file")
	}
	return data, nil
}

func (s *fileStorage) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// write-then-rename so a crash mid-write cannot leave a torn record
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing session file")
}

func (s *fileStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
