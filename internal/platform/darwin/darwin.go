//go:build darwin

package darwin

import "github.com/darkawower/bingwall/internal/platform"

func init() {
	platform.Register("darwin", func() platform.Platform {
		return New()
	})
}
