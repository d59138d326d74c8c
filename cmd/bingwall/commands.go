package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/darkawower/bingwall/internal/config"
	"github.com/darkawower/bingwall/internal/core"
	"github.com/darkawower/bingwall/internal/datasource"
	"github.com/darkawower/bingwall/internal/device"
	"github.com/darkawower/bingwall/internal/provider"
	"github.com/darkawower/bingwall/internal/refresh"
	"github.com/darkawower/bingwall/internal/state"
	"github.com/darkawower/bingwall/internal/ui"
	"github.com/darkawower/bingwall/internal/wallpaper"
	"github.com/spf13/cobra"
)

// newFetchCmd creates the fetch command.
func newFetchCmd() *cobra.Command {
	var (
		region  string
		force   bool
		noApply bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and apply today's wallpaper once",
		Long: `Resolves today's wallpaper for a region, downloads it unless it is
already cached, and sets it as the desktop background.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			mode, err := refresh.ParseMode(region)
			r, ok := mode.Region()
			if err == nil && !ok {
				err = fmt.Errorf("%w: fetch needs a region, not %q", refresh.ErrInvalidMode, region)
			}
			if err != nil {
				out.ErrorWithHint(err.Error(), "Use --region china or --region global")
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'bingwall init' to create a default configuration")
				return err
			}

			logger, err := cliLogger(cfg)
			if err != nil {
				out.Error("Failed to set up logging: %v", err)
				return err
			}
			defer logger.Close()

			engine, err := core.NewWithConfig(cfg,
				core.WithLogger(logger.Logger),
				core.WithNoApply(noApply),
			)
			if err != nil {
				out.Error("%v", err)
				return err
			}

			spinner := ui.NewSpinner(out, fmt.Sprintf("Fetching %s wallpaper...", r))
			spinner.Start()
			result, err := engine.Refresh(cmd.Context(), force, r)
			spinner.Stop()

			if err != nil {
				if result != nil && errors.Is(err, wallpaper.ErrApply) {
					out.Warning("Downloaded but could not set the wallpaper: %v", err)
					out.Field("File", shortenPath(result.Path))
					return err
				}
				out.Error("Failed to fetch wallpaper: %v", err)
				return err
			}

			headline := "Wallpaper set"
			if !result.Applied {
				headline = "Wallpaper downloaded"
			}
			out.WallpaperInfo(headline, result.Region.String(), result.Identity, result.Title, shortenPath(result.Path), result.SetAt)
			if !result.Downloaded {
				out.Debug("served from cache")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "global", "region to fetch (china|global, or cn|www)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "download even if today's wallpaper is cached")
	cmd.Flags().BoolVar(&noApply, "no-apply", false, "download only, do not change the desktop background")

	return cmd
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize bingwall configuration",
		Long:  "Creates the configuration file, data directories and device identifier.",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			configPath := cfgFile
			if configPath == "" {
				configPath = filepath.Join(config.DefaultConfigDir(), "config.toml")
			}

			// Check if already exists
			if _, err := os.Stat(configPath); err == nil && !force {
				out.Warning("Configuration already exists at %s", shortenPath(configPath))
				out.Info("Use --force to overwrite")
				return nil
			}

			// An existing file keeps its values; missing fields get defaults
			cfg, err := config.Load(configPath)
			if err != nil {
				out.Warning("Ignoring unreadable configuration: %v", err)
				cfg = config.DefaultConfig()
			}

			if err := cfg.EnsureDirectories(); err != nil {
				out.Error("Failed to create directories: %v", err)
				return err
			}

			if err := cfg.Save(configPath); err != nil {
				out.Error("Failed to write config: %v", err)
				return err
			}

			id, err := device.NewStore(cfg.DeviceIDPath()).ID()
			if err != nil {
				out.Error("Failed to create device identifier: %v", err)
				return err
			}

			st, err := state.Load(cfg.StatePath())
			if err != nil {
				st = state.New(cfg.StatePath())
			}
			if err := st.Save(); err != nil {
				out.Error("Failed to create state file: %v", err)
				return err
			}

			out.Success("Bingwall initialized")
			out.Field("Config", shortenPath(configPath))
			out.Field("Data", shortenPath(cfg.DataDir))
			out.Field("Wallpapers", shortenPath(cfg.WallpaperDir()))
			out.Field("Device ID", id)
			out.Print("")
			out.Info("Edit %s to choose a provider or resolution", shortenPath(configPath))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration")

	return cmd
}

// newInfoCmd creates the info command.
func newInfoCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the last applied wallpaper and the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			cfg, err := loadConfig()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'bingwall init' to create a default configuration")
				return err
			}

			st, err := state.Load(cfg.StatePath())
			if err != nil {
				out.Error("Failed to read state: %v", err)
				return err
			}

			backend, supported := wallpaper.Backend()
			if !supported {
				backend += " (unsupported)"
			}
			out.Field("Platform", backend)
			if supported {
				if current, err := wallpaper.NewApplicator().Current(); err == nil && current != "" {
					out.Field("Desktop", shortenPath(current))
				}
			}
			out.Field("Config", shortenPath(cfg.ConfigPath()))
			out.Field("Provider", string(cfg.Provider))
			out.Field("Interval", formatDuration(cfg.Interval.Duration))
			out.Print("")

			if st.HasCurrent() {
				cur := st.Snapshot()
				out.WallpaperInfo("Current wallpaper", cur.Region, cur.Identity, cur.Title, shortenPath(cur.Path), cur.SetAt)
				if _, err := os.Stat(cur.Path); err != nil {
					out.Warning("File no longer exists")
				} else if reveal {
					if err := wallpaper.Reveal(cur.Path); err != nil {
						out.Warning("Failed to reveal file: %v", err)
					}
				}
			} else {
				out.Warning("No wallpaper applied yet")
			}
			out.Print("")

			cache := datasource.NewCache(nil, cfg.WallpaperDir(), cfg.Cache.Keep, nil)
			rows := [][]string{}
			for _, region := range []provider.Region{provider.RegionChina, provider.RegionGlobal} {
				images, err := cache.ListImages(region)
				if err != nil {
					out.Warning("Failed to list %s cache: %v", region, err)
					continue
				}
				latest := "-"
				if len(images) > 0 {
					latest = images[len(images)-1].Identity
				}
				rows = append(rows, []string{region.String(), strconv.Itoa(len(images)), latest})
			}
			out.Table([]string{"Region", "Cached", "Latest"}, rows)

			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "show the current wallpaper in the file manager")

	return cmd
}

// newDeviceIDCmd creates the device-id command.
func newDeviceIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device-id",
		Short: "Print the device identifier sent with every request",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			cfg, err := loadConfig()
			if err != nil {
				out.Error("%v", err)
				return err
			}

			id, err := device.NewStore(cfg.DeviceIDPath()).ID()
			if err != nil {
				out.Error("Failed to read device identifier: %v", err)
				return err
			}

			out.Print("%s", id)
			return nil
		},
	}
}

// shortenPath shortens a path for display.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) > len(home) && path[:len(home)] == home {
		return "~" + path[len(home):]
	}
	return path
}

// formatDuration formats duration to human readable (e.g., "1.5 minutes")
func formatDuration(d time.Duration) string {
	minutes := d.Minutes()
	if minutes == 1 {
		return "1 minute"
	}
	if minutes == float64(int(minutes)) {
		return fmt.Sprintf("%d minutes", int(minutes))
	}
	return fmt.Sprintf("%.1f minutes", minutes)
}
