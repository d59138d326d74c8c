package tray

import (
	"fmt"

	"fyne.io/systray"
	"github.com/darkawower/bingwall/internal/refresh"
)

// Menu manages the menu structure
type Menu struct {
	tray *Tray

	modeItems map[refresh.Mode]*systray.MenuItem
}

// NewMenu creates a new menu manager
func NewMenu(t *Tray) *Menu {
	return &Menu{
		tray:      t,
		modeItems: make(map[refresh.Mode]*systray.MenuItem),
	}
}

// Build creates the menu: one checkbox per mode, the folder shortcut, Quit.
func (m *Menu) Build() {
	for _, mode := range refresh.Modes {
		item := systray.AddMenuItemCheckbox(mode.Label(), fmt.Sprintf("Refresh the %s wallpaper in the background", mode), false)
		m.modeItems[mode] = item
		go func() {
			for range item.ClickedCh {
				m.tray.handleToggle(mode)
			}
		}()
	}

	systray.AddSeparator()

	folderItem := systray.AddMenuItem("Open wallpaper folder", "Show downloaded wallpapers")
	go func() {
		for range folderItem.ClickedCh {
			m.tray.handleOpenFolder()
		}
	}()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Exit the application")
	go func() {
		for range quitItem.ClickedCh {
			m.tray.handleQuit()
		}
	}()
}

// Render updates checkmarks, icon and tooltip for mode.
func (m *Menu) Render(mode refresh.Mode) {
	for item, checked := range MenuState(mode) {
		menuItem, ok := m.modeItems[item]
		if !ok {
			continue
		}
		if checked {
			menuItem.Check()
		} else {
			menuItem.Uncheck()
		}
	}

	SetIcon(mode)
	systray.SetTooltip(Tooltip(mode))
}

// MenuState returns which mode entries are checked when mode is active.
func MenuState(mode refresh.Mode) map[refresh.Mode]bool {
	state := make(map[refresh.Mode]bool, len(refresh.Modes))
	for _, m := range refresh.Modes {
		state[m] = m == mode
	}
	return state
}

// Tooltip describes mode for the tray icon.
func Tooltip(mode refresh.Mode) string {
	if mode == refresh.Off {
		return "bingwall: refresh off"
	}
	return "bingwall: " + mode.Label()
}
