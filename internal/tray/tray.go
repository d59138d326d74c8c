package tray

import (
	"context"
	"log/slog"

	"fyne.io/systray"
	"github.com/darkawower/bingwall/assets"
	"github.com/darkawower/bingwall/internal/refresh"
)

// Controller is the refresh state the menu drives and renders.
type Controller interface {
	Toggle(ctx context.Context, mode refresh.Mode) (refresh.Mode, error)
	Mode() refresh.Mode
	OnChange(fn func(refresh.Mode))
}

// Tray manages the system tray icon and menu
type Tray struct {
	ctx          context.Context
	controller   Controller
	logger       *slog.Logger
	wallpaperDir string
	menu         *Menu

	render     func(refresh.Mode)
	openFolder func(dir string) error

	// Callbacks
	onQuit  func()
	onError func(message string)
}

// New creates a new tray manager. Menu actions run under ctx.
func New(ctx context.Context, c Controller, wallpaperDir string, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &Tray{
		ctx:          ctx,
		controller:   c,
		logger:       logger,
		wallpaperDir: wallpaperDir,
	}
	t.menu = NewMenu(t)
	t.render = t.menu.Render
	t.openFolder = openFolder
	return t
}

// SetCallbacks sets the action callbacks
func (t *Tray) SetCallbacks(onQuit func(), onError func(message string)) {
	t.onQuit = onQuit
	t.onError = onError
}

// Run starts the system tray (blocks until quit)
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit exits the system tray
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(assets.IconOff)
	systray.SetTooltip(Tooltip(refresh.Off))

	t.menu.Build()

	// Register for mode changes
	t.controller.OnChange(func(mode refresh.Mode) {
		t.render(mode)
	})

	t.render(t.controller.Mode())
}

func (t *Tray) onExit() {
	t.logger.Debug("tray exited")
}

// SetIcon sets the icon for the given mode
func SetIcon(mode refresh.Mode) {
	if mode == refresh.Off {
		systray.SetIcon(assets.IconOff)
	} else {
		systray.SetIcon(assets.Icon)
	}
}
