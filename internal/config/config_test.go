package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 8080

upstream:
  base_url: "http://localhost:8000"
  timeout: 10s

dashboard:
  symbols: ["NVDA", "BTC-USD"]
  refresh_interval: 30s

cache:
  backend: memory
  ttl: 5m

archive:
  enabled: true
  type: localfs
  path: "/tmp/tsd/archive"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}

	if len(cfg.Dashboard.Symbols) != 2 || cfg.Dashboard.Symbols[0] != "NVDA" {
		t.Errorf("expected dashboard symbols [NVDA BTC-USD], got %v", cfg.Dashboard.Symbols)
	}

	if cfg.Dashboard.RefreshInterval != 30*time.Second {
		t.Errorf("expected refresh interval 30s, got %s", cfg.Dashboard.RefreshInterval)
	}

	if cfg.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Archive.Type)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TSD_TEST_API_KEY", "secret-from-env")

	content := []byte(`
server:
  port: 8080
  api_key: "${TSD_TEST_API_KEY}"
upstream:
  base_url: "http://localhost:8000"
`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.APIKey != "secret-from-env" {
		t.Errorf("expected env-expanded api key, got %q", cfg.Server.APIKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Upstream.BaseURL != "http://localhost:8000" {
		t.Errorf("expected default upstream base URL, got %s", cfg.Upstream.BaseURL)
	}

	if len(cfg.Dashboard.Symbols) != 1 || cfg.Dashboard.Symbols[0] != "AAPL" {
		t.Errorf("expected default symbols [AAPL], got %v", cfg.Dashboard.Symbols)
	}

	if cfg.Dashboard.RefreshInterval != 30*time.Second {
		t.Errorf("expected default refresh interval 30s, got %s", cfg.Dashboard.RefreshInterval)
	}

	if cfg.Scanner.MinConfidence != 70 {
		t.Errorf("expected default scanner min_confidence 70, got %f", cfg.Scanner.MinConfidence)
	}
}

func validConfig() Config {
	return *Defaults()
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port - zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "missing upstream base url",
			mutate:  func(c *Config) { c.Upstream.BaseURL = "" },
			wantErr: true,
		},
		{
			name: "offline mode allows empty base url",
			mutate: func(c *Config) {
				c.Upstream.BaseURL = ""
				c.Upstream.Offline = true
			},
			wantErr: false,
		},
		{
			name:    "refresh interval too small",
			mutate:  func(c *Config) { c.Dashboard.RefreshInterval = 100 * time.Millisecond },
			wantErr: true,
		},
		{
			name:    "blank dashboard symbol",
			mutate:  func(c *Config) { c.Dashboard.Symbols = []string{"AAPL", " "} },
			wantErr: true,
		},
		{
			name:    "scanner confidence out of range",
			mutate:  func(c *Config) { c.Scanner.MinConfidence = 150 },
			wantErr: true,
		},
		{
			name:    "unknown scanner universe",
			mutate:  func(c *Config) { c.Scanner.Universe = "bonds" },
			wantErr: true,
		},
		{
			name:    "redis backend without addr",
			mutate:  func(c *Config) { c.Cache.Backend = "redis" },
			wantErr: true,
		},
		{
			name: "redis backend with addr",
			mutate: func(c *Config) {
				c.Cache.Backend = "redis"
				c.Cache.Redis.Addr = "localhost:6379"
			},
			wantErr: false,
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: true,
		},
		{
			name: "s3 archive without bucket",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Type = "s3"
			},
			wantErr: true,
		},
		{
			name:    "invalid router confidence",
			mutate:  func(c *Config) { c.Router.MinConfidence = 150 },
			wantErr: true,
		},
		{
			name:    "negative cooldown",
			mutate:  func(c *Config) { c.Router.CooldownHours = -1 },
			wantErr: true,
		},
		{
			name:    "unknown router signal",
			mutate:  func(c *Config) { c.Router.Signals = []string{"STRONG_BUY", "MAYBE"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
