//go:build linux || windows

package desktop

import (
	"fmt"

	"github.com/reujab/wallpaper"
)

// WallpaperService sets the background through the running desktop
// environment (GNOME, KDE, XFCE, and others on Linux; SystemParametersInfo
// on Windows).
type WallpaperService struct {
	set func(string) error
	get func() (string, error)
}

func NewWallpaperService() *WallpaperService {
	return &WallpaperService{
		set: wallpaper.SetFromFile,
		get: wallpaper.Get,
	}
}

func (s *WallpaperService) Set(path string) error {
	if err := s.set(path); err != nil {
		return fmt.Errorf("failed to set wallpaper: %w", err)
	}
	return nil
}

func (s *WallpaperService) Get() (string, error) {
	path, err := s.get()
	if err != nil {
		return "", fmt.Errorf("failed to get wallpaper: %w", err)
	}
	return path, nil
}
