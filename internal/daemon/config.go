// Package daemon holds the service configuration, loaded from
// ~/.claimplan/config.toml with sane defaults for every field.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration.
type Config struct {
	API  APIConfig  `toml:"api"`
	Data DataConfig `toml:"data"`
	Plan PlanConfig `toml:"plan"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
}

// DataConfig configures the game-data client and its cache.
type DataConfig struct {
	BaseURL      string `toml:"base_url"`
	CachePath    string `toml:"cache_path"`
	CodexTTL     string `toml:"codex_ttl"`
	InventoryTTL string `toml:"inventory_ttl"`
}

// PlanConfig configures calculation defaults.
type PlanConfig struct {
	HistoryLimit int `toml:"history_limit"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8710,
			MetricsEnabled: true,
		},
		Data: DataConfig{
			BaseURL:      "https://gamedata.claimplan.dev/api",
			CachePath:    filepath.Join(Home(), "cache.db"),
			CodexTTL:     "24h",
			InventoryTTL: "60s",
		},
		Plan: PlanConfig{
			HistoryLimit: 20,
		},
	}
}

// Home returns the claimplan config directory (~/.claimplan by default,
// CLAIMPLAN_HOME overrides).
func Home() string {
	if dir := os.Getenv("CLAIMPLAN_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claimplan"
	}
	return filepath.Join(home, ".claimplan")
}

// Load reads the config file at path, overlaying defaults. A missing file
// is not an error — defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the host:port the server binds.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// ParseTTL parses a duration string, falling back when empty or invalid.
func ParseTTL(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
