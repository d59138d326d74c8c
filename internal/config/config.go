package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appName = "bingwall"

// MinInterval is the shortest poll interval accepted.
const MinInterval = time.Minute

type ProviderType string

const (
	ProviderBing   ProviderType = "bing"
	ProviderServer ProviderType = "server"
)

// Duration wraps time.Duration so it can be written as "10m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type BingConfig struct {
	Resolution string `toml:"resolution"`
	ChinaHost  string `toml:"china-host"`
	GlobalHost string `toml:"global-host"`
}

type ServerConfig struct {
	Endpoint string `toml:"endpoint"`
}

type CacheConfig struct {
	Keep int `toml:"keep"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  bool   `toml:"file"`
}

type Config struct {
	DataDir  string       `toml:"data-dir"`
	Interval Duration     `toml:"interval"`
	Provider ProviderType `toml:"provider"`
	Bing     BingConfig   `toml:"bing"`
	Server   ServerConfig `toml:"server"`
	Cache    CacheConfig  `toml:"cache"`
	Notify   NotifyConfig `toml:"notify"`
	Log      LogConfig    `toml:"log"`

	configPath string
}

func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir(),
		Interval: Duration{10 * time.Minute},
		Provider: ProviderBing,
		Bing: BingConfig{
			Resolution: "UHD",
			ChinaHost:  "https://cn.bing.com",
			GlobalHost: "https://www.bing.com",
		},
		Cache:  CacheConfig{Keep: 7},
		Notify: NotifyConfig{Enabled: true},
		Log: LogConfig{
			Level: "info",
			File:  true,
		},
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	cfg := DefaultConfig()
	cfg.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.postProcess()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) postProcess() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	c.DataDir = expandPath(c.DataDir)
	c.Server.Endpoint = strings.TrimRight(expandEnv(c.Server.Endpoint), "/")
	c.Bing.ChinaHost = strings.TrimRight(c.Bing.ChinaHost, "/")
	c.Bing.GlobalHost = strings.TrimRight(c.Bing.GlobalHost, "/")
	c.Log.Level = strings.ToLower(c.Log.Level)
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderBing:
		if c.Bing.ChinaHost == "" || c.Bing.GlobalHost == "" {
			return fmt.Errorf("bing: china-host and global-host are required")
		}
	case ProviderServer:
		if c.Server.Endpoint == "" {
			return fmt.Errorf("server: endpoint is required when provider is %q", ProviderServer)
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be bing or server)", c.Provider)
	}

	if c.Interval.Duration < MinInterval {
		return fmt.Errorf("interval %s is too small (minimum %s)", c.Interval.Duration, MinInterval)
	}

	if c.Cache.Keep < 0 {
		return fmt.Errorf("cache: keep must not be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	return nil
}

func (c *Config) ConfigPath() string {
	return c.configPath
}

// WallpaperDir is the root of the artifact store.
func (c *Config) WallpaperDir() string {
	return filepath.Join(c.DataDir, "wallpapers")
}

func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.json")
}

func (c *Config) DeviceIDPath() string {
	return filepath.Join(c.DataDir, "device_id")
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, appName+".log")
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = c.configPath
	}
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		c.WallpaperDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func expandEnv(s string) string {
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		inner := s[2 : len(s)-1]

		if idx := strings.Index(inner, ":-"); idx != -1 {
			varName := inner[:idx]
			defaultVal := inner[idx+2:]
			if val := os.Getenv(varName); val != "" {
				return val
			}
			return defaultVal
		}

		return os.Getenv(inner)
	}

	if strings.HasPrefix(s, "$") && !strings.Contains(s, " ") {
		return os.Getenv(s[1:])
	}

	return s
}
