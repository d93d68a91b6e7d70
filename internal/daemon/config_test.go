package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8710 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8710)
	}
	if !cfg.API.MetricsEnabled {
		t.Error("API.MetricsEnabled should be true by default")
	}
	if cfg.Data.CodexTTL != "24h" {
		t.Errorf("Data.CodexTTL = %q, want %q", cfg.Data.CodexTTL, "24h")
	}
	if cfg.Plan.HistoryLimit != 20 {
		t.Errorf("Plan.HistoryLimit = %d, want %d", cfg.Plan.HistoryLimit, 20)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[api]
port = 9000

[data]
base_url = "https://example.test/api"
inventory_ttl = "5m"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	// Untouched fields keep their defaults.
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want default", cfg.API.Host)
	}
	if cfg.Data.BaseURL != "https://example.test/api" {
		t.Errorf("Data.BaseURL = %q", cfg.Data.BaseURL)
	}
	if cfg.Data.InventoryTTL != "5m" {
		t.Errorf("Data.InventoryTTL = %q, want 5m", cfg.Data.InventoryTTL)
	}
}

func TestAddr(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Addr(); got != "127.0.0.1:8710" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8710", got)
	}
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in       string
		fallback time.Duration
		want     time.Duration
	}{
		{"24h", time.Minute, 24 * time.Hour},
		{"60s", time.Minute, 60 * time.Second},
		{"", time.Minute, time.Minute},
		{"garbage", time.Minute, time.Minute},
		{"-5m", time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseTTL(tt.in, tt.fallback); got != tt.want {
				t.Errorf("ParseTTL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
