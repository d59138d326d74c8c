// Package wallpaper applies images as the desktop background.
package wallpaper

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/darkawower/bingwall/internal/platform"
)

// ErrApply marks a failure to set the desktop background.
var ErrApply = errors.New("failed to apply wallpaper")

// Setter is the platform call the applicator drives.
type Setter interface {
	// Set sets the wallpaper to the specified absolute path.
	Set(path string) error

	// Get returns the current wallpaper path (if available).
	Get() (string, error)
}

// Applicator sets local images as the desktop background.
type Applicator struct {
	svc Setter
}

// NewApplicator creates an applicator for the current platform.
func NewApplicator() *Applicator {
	return NewApplicatorWith(platform.Current().Wallpaper())
}

// NewApplicatorWith creates an applicator backed by svc.
func NewApplicatorWith(svc Setter) *Applicator {
	return &Applicator{svc: svc}
}

// Apply sets path as the desktop background.
func (a *Applicator) Apply(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrApply)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrApply, err)
	}

	if err := a.svc.Set(absPath); err != nil {
		return fmt.Errorf("%w: %w", ErrApply, err)
	}
	return nil
}

// Current returns the wallpaper the desktop currently shows.
func (a *Applicator) Current() (string, error) {
	return a.svc.Get()
}

// OpenFolder opens dir in the system file manager.
func OpenFolder(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	return platform.Current().FileManager().Open(absPath)
}

// Reveal highlights the file in the system file manager.
func Reveal(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return platform.Current().FileManager().Reveal(absPath)
}

// Backend names the platform that applies wallpapers and reports whether it
// has a working backend.
func Backend() (name string, supported bool) {
	p := platform.Current()
	return p.Name(), p.Supported()
}
