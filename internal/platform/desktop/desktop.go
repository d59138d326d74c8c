//go:build linux || windows

package desktop

import (
	"runtime"

	"github.com/darkawower/bingwall/internal/platform"
)

func init() {
	platform.Register(runtime.GOOS, func() platform.Platform {
		return New()
	})
}

// New returns the services for the running Linux desktop or Windows.
func New() *platform.Services {
	return &platform.Services{
		GOOS:       runtime.GOOS,
		Background: NewWallpaperService(),
		Files:      NewFileManagerService(),
	}
}
