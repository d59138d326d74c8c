// Package platform selects the OS services bingwall drives: setting the
// desktop background and showing the wallpaper folder.
package platform

// Platform is the set of services available on one GOOS.
type Platform interface {
	Name() string

	// Supported is false for the fallback, whose services fail with
	// ErrUnsupported.
	Supported() bool

	Wallpaper() WallpaperService
	FileManager() FileManagerService
}

// WallpaperService manages the desktop background.
type WallpaperService interface {
	// Set applies the image at an absolute path to every display.
	Set(path string) error

	// Get returns the image the desktop currently shows.
	Get() (string, error)
}

// FileManagerService opens paths in the system file manager.
type FileManagerService interface {
	// Reveal shows path selected in its folder where the OS allows it.
	Reveal(path string) error

	Open(path string) error
}

// Services is a Platform assembled from its parts. OS packages register one
// per GOOS.
type Services struct {
	GOOS       string
	Background WallpaperService
	Files      FileManagerService

	// Fallback marks a platform without a working backend.
	Fallback bool
}

func (s *Services) Name() string                    { return s.GOOS }
func (s *Services) Supported() bool                 { return !s.Fallback }
func (s *Services) Wallpaper() WallpaperService     { return s.Background }
func (s *Services) FileManager() FileManagerService { return s.Files }

var _ Platform = (*Services)(nil)
