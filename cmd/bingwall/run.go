package main

import (
	"context"
	"fmt"
	"time"

	"github.com/darkawower/bingwall/internal/core"
	"github.com/darkawower/bingwall/internal/logging"
	"github.com/darkawower/bingwall/internal/notify"
	"github.com/darkawower/bingwall/internal/refresh"
	"github.com/darkawower/bingwall/internal/tray"
	"github.com/darkawower/bingwall/internal/wallpaper"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the tray menu (default)",
		Long: `Starts bingwall in the system tray. Refreshing is off until a
region is picked from the menu; the choice is not remembered across restarts.`,
		RunE: runTray,
	}
}

func runTray(cmd *cobra.Command, args []string) error {
	initOutput()

	cfg, err := loadConfig()
	if err != nil {
		out.ErrorWithHint(err.Error(), "Run 'bingwall init' to create a default configuration")
		return err
	}

	logger, err := logging.New(cfg.Log, cfg.LogPath(), verbose)
	if err != nil {
		out.Error("Failed to set up logging: %v", err)
		return err
	}
	defer logger.Close()

	notifier := notify.New(cfg.Notify.Enabled, logger.Logger)

	engine, err := core.NewWithConfig(cfg,
		core.WithLogger(logger.Logger),
		core.WithAnnouncer(notifier),
	)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}

	if name, ok := wallpaper.Backend(); !ok {
		logger.Warn("no wallpaper backend for this platform, images will only be downloaded", "platform", name)
	}

	if _, err := engine.DeviceID(); err != nil {
		logger.Warn("device identifier unavailable", "error", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctrl := refresh.NewController(engine, cfg.Interval.Duration,
		refresh.WithLogger(logger.Logger),
		refresh.WithNotifier(notifier),
	)

	t := tray.New(ctx, ctrl, engine.WallpaperDir(), logger.Logger)
	t.SetCallbacks(t.Quit, func(message string) {
		if err := notifier.Error(message); err != nil {
			logger.Debug("failed to send notification", "error", err)
		}
	})

	stopQuit := context.AfterFunc(ctx, t.Quit)
	defer stopQuit()

	logger.Info("bingwall started", "provider", cfg.Provider, "interval", cfg.Interval.Duration, "data_dir", cfg.DataDir)
	t.Run()
	stopQuit()
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := ctrl.Shutdown(shutdownCtx); err != nil {
		logger.Error("unclean shutdown", "error", err)
		return fmt.Errorf("failed to shut down: %w", err)
	}

	logger.Info("bingwall stopped")
	return nil
}
