//go:build linux || windows

package desktop

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// FileManagerService opens paths with xdg-open on Linux and explorer on
// Windows.
type FileManagerService struct {
	run func(name string, args ...string) ([]byte, error)
}

func NewFileManagerService() *FileManagerService {
	return &FileManagerService{run: runCommand}
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Reveal shows the file in its folder. xdg-open cannot select a file, so on
// Linux the parent directory is opened instead.
func (s *FileManagerService) Reveal(path string) error {
	name, args := revealCommand(runtime.GOOS, path)
	if output, err := s.run(name, args...); err != nil && !explorerQuirk(name, err) {
		return fmt.Errorf("failed to reveal file: %w (output: %s)", err, string(output))
	}
	return nil
}

func (s *FileManagerService) Open(path string) error {
	name, args := openCommand(runtime.GOOS, path)
	if output, err := s.run(name, args...); err != nil && !explorerQuirk(name, err) {
		return fmt.Errorf("failed to open file: %w (output: %s)", err, string(output))
	}
	return nil
}

func openCommand(goos, path string) (string, []string) {
	if goos == "windows" {
		return "explorer", []string{path}
	}
	return "xdg-open", []string{path}
}

func revealCommand(goos, path string) (string, []string) {
	if goos == "windows" {
		return "explorer", []string{"/select," + path}
	}
	return "xdg-open", []string{filepath.Dir(path)}
}

// explorerQuirk reports whether err is explorer's exit status 1, which it
// returns even on success.
func explorerQuirk(name string, err error) bool {
	var exitErr *exec.ExitError
	return name == "explorer" && errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}
