// Package state records the last wallpaper bingwall applied. The refresh
// mode is deliberately not stored and always starts Off.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

const maxHistory = 100

type CurrentWallpaper struct {
	Path     string    `json:"path"`
	Identity string    `json:"identity"`
	Region   string    `json:"region"`
	Title    string    `json:"title,omitempty"`
	SetAt    time.Time `json:"set_at"`
}

type State struct {
	Current CurrentWallpaper `json:"current"`
	History []string         `json:"history"`

	mu   sync.Mutex
	path string
}

func New(path string) *State {
	return &State{
		path:    path,
		History: []string{},
	}
}

func Load(path string) (*State, error) {
	path = expandPath(path)
	s := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if s.History == nil {
		s.History = []string{}
	}

	return s, nil
}

// Save writes the state atomically; concurrent cycles may record at once.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("state path not set")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// SetCurrent records path as the applied wallpaper. The previous one moves
// to history unless it is the same file.
func (s *State) SetCurrent(path, identity, region, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Current.Path != "" && s.Current.Path != path {
		s.addToHistory(s.Current.Path)
	}

	s.Current = CurrentWallpaper{
		Path:     path,
		Identity: identity,
		Region:   region,
		Title:    title,
		SetAt:    time.Now(),
	}
}

// Snapshot returns a copy of the current record.
func (s *State) Snapshot() CurrentWallpaper {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Current
}

func (s *State) addToHistory(path string) {
	if idx := slices.Index(s.History, path); idx >= 0 {
		s.History = slices.Delete(s.History, idx, idx+1)
	}

	s.History = append(s.History, path)

	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}

func (s *State) HasCurrent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Current.Path != ""
}

func (s *State) Path() string {
	return s.path
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
