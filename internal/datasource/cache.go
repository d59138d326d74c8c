package datasource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/darkawower/bingwall/internal/provider"
)

const tempPrefix = ".download-"

// Cache stores one artifact per wallpaper identity under dir/<region>/.
// An existing artifact is the signal that no download is needed.
type Cache struct {
	provider provider.Provider
	dir      string
	keep     int
	logger   *slog.Logger
}

// NewCache creates a cache rooted at dir. keep bounds the number of artifacts
// retained per region; 0 keeps all of them.
func NewCache(p provider.Provider, dir string, keep int, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		provider: p,
		dir:      dir,
		keep:     keep,
		logger:   logger,
	}
}

func (c *Cache) Dir(region provider.Region) string {
	return filepath.Join(c.dir, region.String())
}

// ArtifactPath returns where the artifact for identity is stored.
func (c *Cache) ArtifactPath(region provider.Region, identity string) (string, error) {
	name, err := artifactName(identity)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.Dir(region), name), nil
}

func artifactName(identity string) (string, error) {
	id := strings.TrimSpace(identity)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, tempPrefix) {
		return "", fmt.Errorf("invalid wallpaper identity %q", identity)
	}

	if ext := filepath.Ext(id); SupportedExtensions[strings.ToLower(ext)] {
		id = strings.TrimSuffix(id, ext)
	}
	if id == "" {
		return "", fmt.Errorf("invalid wallpaper identity %q", identity)
	}

	return id + ArtifactExt, nil
}

// Ensure makes the current wallpaper for region available locally. The
// identity is always resolved; the image bytes are only downloaded when force
// is set or no artifact exists for that identity.
func (c *Cache) Ensure(ctx context.Context, force bool, region provider.Region) (*Image, error) {
	meta, err := c.provider.Resolve(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityResolution, err)
	}

	path, err := c.ArtifactPath(region, meta.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityResolution, err)
	}

	img := &Image{
		Path:     path,
		Identity: meta.ID,
		Region:   region,
		URL:      meta.DownloadURL,
		Title:    meta.Title,
	}

	if !force {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			c.logger.Debug("wallpaper already cached", "region", region, "identity", meta.ID, "path", path)
			return img, nil
		}
	}

	data, err := c.provider.Fetch(ctx, meta.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownload, err)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: response is not an image: %w", ErrDownload, err)
	}

	if err := writeAtomic(path, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	img.Downloaded = true
	c.logger.Info("wallpaper downloaded", "region", region, "identity", meta.ID, "path", path, "bytes", len(data))

	if err := c.Prune(region, path); err != nil {
		c.logger.Warn("failed to prune wallpaper cache", "region", region, "error", err)
	}

	return img, nil
}

// writeAtomic writes into a temp file next to path and renames it, so a
// partial download is never mistaken for a cached artifact.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// ListImages returns the cached artifacts for region, oldest first.
func (c *Cache) ListImages(region provider.Region) ([]Image, error) {
	entries, err := os.ReadDir(c.Dir(region))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cached images: %w", err)
	}

	type entry struct {
		img   Image
		mtime int64
	}
	var found []entry

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !SupportedExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, entry{
			img: Image{
				Path:     filepath.Join(c.Dir(region), name),
				Identity: strings.TrimSuffix(name, filepath.Ext(name)),
				Region:   region,
			},
			mtime: info.ModTime().UnixNano(),
		})
	}

	slices.SortFunc(found, func(a, b entry) int {
		switch {
		case a.mtime < b.mtime:
			return -1
		case a.mtime > b.mtime:
			return 1
		}
		return strings.Compare(a.img.Path, b.img.Path)
	})

	images := make([]Image, len(found))
	for i, f := range found {
		images[i] = f.img
	}
	return images, nil
}

// Prune deletes the oldest artifacts for region beyond the keep limit. The
// artifact at current is never removed.
func (c *Cache) Prune(region provider.Region, current string) error {
	if c.keep <= 0 {
		return nil
	}

	images, err := c.ListImages(region)
	if err != nil {
		return err
	}

	excess := len(images) - c.keep
	for _, img := range images {
		if excess <= 0 {
			break
		}
		if img.Path == current {
			continue
		}
		if err := os.Remove(img.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", img.Path, err)
		}
		c.logger.Debug("pruned cached wallpaper", "path", img.Path)
		excess--
	}

	return nil
}
