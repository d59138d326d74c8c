// Package device manages the persisted per-device identifier sent with every
// wallpaper request.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store reads the identifier from a single text file, creating it on first
// access. The value is cached for the lifetime of the Store.
type Store struct {
	path string

	mu sync.Mutex
	id string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// ID returns the device identifier. It is never regenerated once the file
// exists; an empty or unreadable file is an error rather than a trigger to
// create a new one.
func (s *Store) ID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		return s.id, nil
	}

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		id := strings.TrimSpace(string(data))
		if id == "" {
			return "", fmt.Errorf("device id file %s is empty", s.path)
		}
		s.id = id
		return s.id, nil
	case os.IsNotExist(err):
		id, err := s.create()
		if err != nil {
			return "", err
		}
		s.id = id
		return s.id, nil
	default:
		return "", fmt.Errorf("failed to read device id: %w", err)
	}
}

func (s *Store) create() (string, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return "", fmt.Errorf("failed to create device id directory: %w", err)
	}

	id := uuid.NewString()

	// O_EXCL so a concurrent process that won the race keeps its id.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			data, rerr := os.ReadFile(s.path)
			if rerr != nil {
				return "", fmt.Errorf("failed to read device id: %w", rerr)
			}
			return strings.TrimSpace(string(data)), nil
		}
		return "", fmt.Errorf("failed to create device id file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return "", fmt.Errorf("failed to write device id: %w", err)
	}

	return id, nil
}
