// Package core provides the cache-and-apply cycle for bingwall.
package core

import (
	"time"

	"github.com/darkawower/bingwall/internal/provider"
)

// WallpaperResult represents the result of one refresh cycle.
type WallpaperResult struct {
	// Path is the absolute path to the cached artifact.
	Path string

	// Identity is the wallpaper identity the artifact is named after.
	Identity string

	// Region is the region the wallpaper was resolved for.
	Region provider.Region

	// Title is the provider's caption, if any.
	Title string

	// Downloaded is false when the cycle was served from the cache.
	Downloaded bool

	// Applied indicates the desktop background was set.
	Applied bool

	// SetAt is when the wallpaper was applied.
	SetAt time.Time
}

// WallpaperInfo contains detailed information about the last applied wallpaper.
type WallpaperInfo struct {
	Path     string
	Identity string
	Region   string
	Title    string
	SetAt    time.Time

	// Exists indicates if the file still exists on disk.
	Exists bool
}
