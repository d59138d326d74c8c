package notify

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
)

const (
	appName = "bingwall"
)

// Notifier handles desktop notifications
type Notifier struct {
	enabled bool
	logger  *slog.Logger
	send    func(title, message, icon string) error
}

// New creates a new notifier
func New(enabled bool, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{
		enabled: enabled,
		logger:  logger,
		send:    beeep.Notify,
	}
}

// WallpaperApplied announces a newly downloaded wallpaper
func (n *Notifier) WallpaperApplied(region, title string) error {
	if !n.enabled {
		return nil
	}

	message := title
	if message == "" {
		message = "New wallpaper applied"
	}

	return n.send(fmt.Sprintf("%s: %s wallpaper", appName, region), truncate(message, 80), "")
}

// RefreshFailed reports a refresh that was triggered from the menu and failed.
// Delivery errors are only logged.
func (n *Notifier) RefreshFailed(region string, err error) {
	if !n.enabled {
		return
	}

	title := fmt.Sprintf("%s: %s refresh failed", appName, region)
	if sendErr := n.send(title, truncate(err.Error(), 120), ""); sendErr != nil {
		n.logger.Debug("failed to send notification", "error", sendErr)
	}
}

// Error sends an error notification
func (n *Notifier) Error(message string) error {
	return n.send(appName, message, "")
}

// truncate truncates a string to max length with ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
