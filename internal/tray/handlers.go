package tray

import (
	"errors"

	"github.com/darkawower/bingwall/internal/refresh"
	"github.com/darkawower/bingwall/internal/wallpaper"
)

func openFolder(dir string) error {
	return wallpaper.OpenFolder(dir)
}

// handleToggle forwards a menu click to the controller. The menu is
// re-rendered through OnChange; on error the current mode is rendered so
// the checkbox systray toggled on click is corrected.
func (t *Tray) handleToggle(mode refresh.Mode) {
	got, err := t.controller.Toggle(t.ctx, mode)
	if err == nil {
		t.logger.Debug("menu toggle", "clicked", mode.String(), "mode", got.String())
		return
	}
	if errors.Is(err, refresh.ErrClosed) {
		t.logger.Debug("menu toggle after shutdown", "clicked", mode.String())
		return
	}

	t.logger.Error("failed to change refresh mode", "clicked", mode.String(), "error", err)
	if errors.Is(err, refresh.ErrLockPoisoned) && t.onError != nil {
		t.onError("Internal error: refresh is unavailable, please restart bingwall")
	}
	t.render(t.controller.Mode())
}

func (t *Tray) handleOpenFolder() {
	if err := t.openFolder(t.wallpaperDir); err != nil {
		t.logger.Warn("failed to open wallpaper folder", "dir", t.wallpaperDir, "error", err)
	}
}

func (t *Tray) handleQuit() {
	if t.onQuit != nil {
		t.onQuit()
	}
}
