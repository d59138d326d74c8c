package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/darkawower/bingwall/internal/config"
	"github.com/darkawower/bingwall/internal/datasource"
	"github.com/darkawower/bingwall/internal/device"
	"github.com/darkawower/bingwall/internal/provider"
	"github.com/darkawower/bingwall/internal/state"
	"github.com/darkawower/bingwall/internal/wallpaper"
)

// Cache makes the current wallpaper for a region available locally.
type Cache interface {
	Ensure(ctx context.Context, force bool, region provider.Region) (*datasource.Image, error)
}

// Applier sets a local image as the desktop background.
type Applier interface {
	Apply(path string) error
}

// Announcer is told about wallpapers that were downloaded and applied.
type Announcer interface {
	WallpaperApplied(region, title string) error
}

// Engine runs cache-and-apply cycles.
type Engine struct {
	config    *config.Config
	state     *state.State
	device    *device.Store
	cache     Cache
	applier   Applier
	announcer Announcer
	logger    *slog.Logger

	noApply bool
}

// Option is a function that configures the Engine.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCache replaces the provider-backed cache.
func WithCache(c Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithApplier replaces the platform applicator.
func WithApplier(a Applier) Option {
	return func(e *Engine) {
		e.applier = a
	}
}

// WithAnnouncer reports new wallpapers through a.
func WithAnnouncer(a Announcer) Option {
	return func(e *Engine) {
		e.announcer = a
	}
}

// WithNoApply makes cycles download without touching the desktop.
func WithNoApply(noApply bool) Option {
	return func(e *Engine) {
		e.noApply = noApply
	}
}

// New loads the config at configPath and creates an Engine from it.
func New(configPath string, opts ...Option) (*Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg, opts...)
}

// NewWithConfig creates an Engine for cfg.
func NewWithConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	st, err := state.Load(cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	e := &Engine{
		config: cfg,
		state:  st,
		device: device.NewStore(cfg.DeviceIDPath()),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}

	if e.cache == nil {
		p, err := provider.NewProvider(cfg, e.device)
		if err != nil {
			return nil, err
		}
		e.cache = datasource.NewCache(p, cfg.WallpaperDir(), cfg.Cache.Keep, e.logger)
	}

	if e.applier == nil {
		e.applier = wallpaper.NewApplicator()
	}

	return e, nil
}

// Refresh runs one cycle for region: ensure the artifact is cached, apply it
// and record it. An apply failure still returns the result, since the
// download succeeded; the error then wraps wallpaper.ErrApply.
func (e *Engine) Refresh(ctx context.Context, force bool, region provider.Region) (*WallpaperResult, error) {
	img, err := e.cache.Ensure(ctx, force, region)
	if err != nil {
		return nil, err
	}

	result := &WallpaperResult{
		Path:       img.Path,
		Identity:   img.Identity,
		Region:     img.Region,
		Title:      img.Title,
		Downloaded: img.Downloaded,
	}

	if e.noApply {
		return result, nil
	}

	if err := e.applier.Apply(img.Path); err != nil {
		return result, err
	}

	result.Applied = true
	result.SetAt = time.Now()

	e.state.SetCurrent(img.Path, img.Identity, region.String(), img.Title)
	if err := e.state.Save(); err != nil {
		e.logger.Warn("failed to save state", "path", e.state.Path(), "error", err)
	}

	if img.Downloaded && e.announcer != nil {
		if err := e.announcer.WallpaperApplied(region.String(), img.Title); err != nil {
			e.logger.Debug("failed to announce wallpaper", "error", err)
		}
	}

	e.logger.Debug("wallpaper applied", "region", region, "identity", img.Identity, "path", img.Path, "downloaded", img.Downloaded)
	return result, nil
}

// Info returns information about the last applied wallpaper.
func (e *Engine) Info() (*WallpaperInfo, error) {
	if !e.state.HasCurrent() {
		return nil, fmt.Errorf("no wallpaper has been applied yet")
	}

	cur := e.state.Snapshot()
	_, err := os.Stat(cur.Path)

	return &WallpaperInfo{
		Path:     cur.Path,
		Identity: cur.Identity,
		Region:   cur.Region,
		Title:    cur.Title,
		SetAt:    cur.SetAt,
		Exists:   err == nil,
	}, nil
}

// DeviceID returns the device identifier, creating it on first use.
func (e *Engine) DeviceID() (string, error) {
	return e.device.ID()
}

// WallpaperDir returns the root of the artifact store.
func (e *Engine) WallpaperDir() string {
	return e.config.WallpaperDir()
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.config
}
