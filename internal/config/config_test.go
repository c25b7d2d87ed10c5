package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Search.Countries) == 0 || len(cfg.Search.Platforms) == 0 {
		t.Error("expected default countries and platforms")
	}
	if cfg.Search.MinViews != 500000 {
		t.Errorf("default min_views = %d, want 500000", cfg.Search.MinViews)
	}
	if cfg.Quota.DailyLimit != 10000 {
		t.Errorf("default daily_limit = %d, want 10000", cfg.Quota.DailyLimit)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
server:
  port: 9999
search:
  countries: ["US", "JP"]
  platforms: ["tiktok"]
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if len(cfg.Search.Countries) != 2 {
		t.Errorf("countries = %v", cfg.Search.Countries)
	}
	// Unset fields fall back to defaults.
	if cfg.Search.TimeRange != 24 {
		t.Errorf("time_range = %d, want default 24", cfg.Search.TimeRange)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad platform", "search:\n  platforms: [\"myspace\"]\n"},
		{"window too large", "search:\n  time_range: 100\n"},
		{"bad port", "server:\n  port: 99999\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("load of missing file must fall back: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestYouTubeKeyPrefersEnv(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	cfg := &Config{YouTube: YouTubeConfig{APIKey: "file-key"}}
	if got := cfg.YouTubeKey(); got != "env-key" {
		t.Errorf("YouTubeKey = %q, want env-key", got)
	}

	t.Setenv("YOUTUBE_API_KEY", "")
	if got := cfg.YouTubeKey(); got != "file-key" {
		t.Errorf("YouTubeKey = %q, want file-key", got)
	}
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "3000")
	cfg := applyEnv(&Config{Server: ServerConfig{Port: 8080}})
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
}

func TestDataDir(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Dir: "/tmp/custom"}}
	if cfg.DataDir() != "/tmp/custom" {
		t.Errorf("DataDir = %q", cfg.DataDir())
	}

	cfg = &Config{}
	if cfg.DataDir() == "" {
		t.Error("default DataDir must not be empty")
	}
}
