// Package stub registers the fallback platform on systems bingwall has no
// wallpaper backend for.
package stub

import "github.com/darkawower/bingwall/internal/platform"

// Systems are the GOOS values served by the fallback.
var Systems = []string{"freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos", "aix"}

func init() {
	for _, goos := range Systems {
		platform.Register(goos, func() platform.Platform {
			return New(goos)
		})
	}
}

// New returns a platform whose services fail with platform.ErrUnsupported.
func New(goos string) platform.Platform {
	return platform.Unsupported(goos)
}
