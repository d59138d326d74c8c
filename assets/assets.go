// Package assets embeds the tray icons.
package assets

import _ "embed"

// Icon is shown while a refresh mode is active.
//
//go:embed icon.png
var Icon []byte

// IconOff is shown while refreshing is off.
//
//go:embed icon_off.png
var IconOff []byte
