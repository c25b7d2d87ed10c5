// Package config loads service configuration from a YAML file with
// embedded defaults and environment overrides.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kwonjungwook/short0812/internal/content"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// appDir is the directory name used under the XDG config and data
// roots.
const appDir = "short0812"

// MaxTimeRangeHours bounds the supported search window.
const MaxTimeRangeHours = 72

type ServerConfig struct {
	Port  int  `yaml:"port"`
	Debug bool `yaml:"debug"`
}

type SearchConfig struct {
	Countries []string `yaml:"countries"`
	Platforms []string `yaml:"platforms"`
	TimeRange int      `yaml:"time_range"`
	MinViews  int64    `yaml:"min_views"`
}

type QuotaConfig struct {
	DailyLimit int `yaml:"daily_limit"`
}

type YouTubeConfig struct {
	APIKey string `yaml:"api_key"`
}

type StorageConfig struct {
	Dir string `yaml:"dir"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Search  SearchConfig  `yaml:"search"`
	Quota   QuotaConfig   `yaml:"quota"`
	YouTube YouTubeConfig `yaml:"youtube"`
	Storage StorageConfig `yaml:"storage"`
}

// YouTubeKey resolves the API key, preferring the environment.
func (c *Config) YouTubeKey() string {
	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" {
		return key
	}
	return c.YouTube.APIKey
}

// DataDir resolves the storage directory, defaulting to the XDG data
// home.
func (c *Config) DataDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return filepath.Join(xdg.DataHome, appDir)
}

// DefaultConfigPath is where the config file lives unless overridden.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path, falling back to embedded defaults
// when the file does not exist. A .env file in the working directory
// is loaded first so env overrides work in development.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults.
				return applyEnv(defaults), nil
			}
			return applyEnv(defaults), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	fillDefaults(&cfg, defaults)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return applyEnv(&cfg), nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func fillDefaults(cfg, defaults *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if len(cfg.Search.Countries) == 0 {
		cfg.Search.Countries = defaults.Search.Countries
	}
	if len(cfg.Search.Platforms) == 0 {
		cfg.Search.Platforms = defaults.Search.Platforms
	}
	if cfg.Search.TimeRange == 0 {
		cfg.Search.TimeRange = defaults.Search.TimeRange
	}
	if cfg.Search.MinViews == 0 {
		cfg.Search.MinViews = defaults.Search.MinViews
	}
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = defaults.Quota.DailyLimit
	}
}

func applyEnv(cfg *Config) *Config {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	return cfg
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", cfg.Server.Port)
	}
	if cfg.Search.TimeRange < 1 || cfg.Search.TimeRange > MaxTimeRangeHours {
		return fmt.Errorf("search time_range must be 1..%d hours, got %d", MaxTimeRangeHours, cfg.Search.TimeRange)
	}
	if cfg.Search.MinViews < 0 {
		return fmt.Errorf("search min_views must not be negative")
	}
	for _, p := range cfg.Search.Platforms {
		if !content.ValidPlatform(p) {
			return fmt.Errorf("unknown platform %q (valid: youtube, tiktok, instagram)", p)
		}
	}
	return nil
}
