// Package refresh owns the refresh mode and the single background poller
// bound to it.
package refresh

import (
	"errors"
	"fmt"
	"strings"

	"github.com/darkawower/bingwall/internal/provider"
)

var (
	ErrInvalidMode  = errors.New("invalid refresh mode")
	ErrLockPoisoned = errors.New("refresh controller is poisoned")
)

// Mode selects which region, if any, is refreshed in the background.
type Mode int

const (
	Off Mode = iota
	China
	Global
)

// Modes lists the selectable modes in menu order.
var Modes = []Mode{China, Global}

func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case China:
		return "china"
	case Global:
		return "global"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Label is the menu text for m.
func (m Mode) Label() string {
	switch m {
	case China:
		return "China daily wallpaper"
	case Global:
		return "Global daily wallpaper"
	default:
		return "Off"
	}
}

// Region returns the provider region for m. Off has none.
func (m Mode) Region() (provider.Region, bool) {
	switch m {
	case China:
		return provider.RegionChina, true
	case Global:
		return provider.RegionGlobal, true
	default:
		return "", false
	}
}

func (m Mode) valid() bool {
	return m >= Off && m <= Global
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return Off, nil
	case "china", "cn":
		return China, nil
	case "global", "www":
		return Global, nil
	default:
		return Off, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}
