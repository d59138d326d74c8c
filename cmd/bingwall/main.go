// Package main is the entry point for the bingwall CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/darkawower/bingwall/internal/config"
	"github.com/darkawower/bingwall/internal/logging"
	"github.com/darkawower/bingwall/internal/ui"
	"github.com/spf13/cobra"

	_ "github.com/darkawower/bingwall/internal/platform/darwin"
	_ "github.com/darkawower/bingwall/internal/platform/desktop"
	_ "github.com/darkawower/bingwall/internal/platform/stub"
)

const version = "0.1.0"

var (
	// Global flags
	cfgFile string
	verbose bool
	quiet   bool
	noColor bool

	// Global output
	out    *ui.Output
	stdout io.Writer = os.Stdout
)

func main() {
	rootCmd := newRootCmd()

	// Handle signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bingwall",
		Short: "Daily Bing wallpaper in your system tray",
		Long: `Bingwall sets the Bing image of the day as your desktop background.
Pick China or Global from the tray menu; the wallpaper is applied at once
and refreshed in the background while the mode is active.`,
		SilenceUsage: true,
		RunE:         runTray,
	}

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/bingwall/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newRunCmd(),
		newFetchCmd(),
		newInitCmd(),
		newInfoCmd(),
		newDeviceIDCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// initOutput initializes the output.
func initOutput() {
	out = ui.NewOutput(stdout)
	out.SetVerbose(verbose)
	out.SetQuiet(quiet)
	out.SetNoColor(noColor)
}

// loadConfig loads the config selected by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// cliLogger logs warnings for one-shot commands, everything with --verbose.
func cliLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := cfg.Log
	if !verbose {
		logCfg.Level = "warn"
	}
	return logging.New(logCfg, cfg.LogPath(), verbose)
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			initOutput()
			out.Print("bingwall version %s", version)
		},
	}
}
