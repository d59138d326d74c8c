// Package datasource keeps the local store of downloaded wallpapers and
// decides when a new download is needed.
package datasource

import (
	"errors"

	"github.com/darkawower/bingwall/internal/provider"
)

// ArtifactExt is appended to every identity to name its artifact.
const ArtifactExt = ".jpg"

// SupportedExtensions are stripped from server-assigned identities before
// ArtifactExt is appended.
var SupportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var (
	ErrIdentityResolution = errors.New("failed to resolve wallpaper identity")
	ErrDownload           = errors.New("failed to download wallpaper")
	ErrPersist            = errors.New("failed to persist wallpaper")
)

// Image is a wallpaper available on local disk.
type Image struct {
	Path     string
	Identity string
	Region   provider.Region
	URL      string
	Title    string

	// Downloaded is false when the artifact was already cached.
	Downloaded bool
}
