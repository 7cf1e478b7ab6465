package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

type Config struct {
	Server    ServerConfig              `mapstructure:"server"`
	Upstream  UpstreamConfig            `mapstructure:"upstream"`
	Dashboard DashboardConfig           `mapstructure:"dashboard"`
	Scanner   ScannerConfig             `mapstructure:"scanner"`
	Cache     CacheConfig               `mapstructure:"cache"`
	Archive   ArchiveConfig             `mapstructure:"archive"`
	Notifiers map[string]NotifierConfig `mapstructure:"notifiers"`
	Router    RouterConfig              `mapstructure:"router"`
	Metrics   MetricsConfig             `mapstructure:"metrics"`
	Alerts    AlertsConfig              `mapstructure:"alerts"`
	Logging   LoggingConfig             `mapstructure:"logging"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// UpstreamConfig points at the pullback strategy API. Offline skips
// the live client entirely and serves synthetic data.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Offline bool          `mapstructure:"offline"`
}

// DashboardConfig controls the polled symbol views.
type DashboardConfig struct {
	Symbols         []string      `mapstructure:"symbols"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// ScannerConfig controls universe sweeps.
type ScannerConfig struct {
	Universe      string  `mapstructure:"universe"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	Workers       int     `mapstructure:"workers"`
}

// CacheConfig selects the snapshot cache backend.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // "memory" or "redis"
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ArchiveConfig controls scan/backtest result archiving.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// NotifierConfig is the union of all channel settings; each notifier
// type reads the fields it needs.
type NotifierConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	URL      string `mapstructure:"url"`
	// Email notifier fields
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
	// Webhook notifier fields
	Headers map[string]string `mapstructure:"headers"`
}

type RouterConfig struct {
	CooldownHours int      `mapstructure:"cooldown_hours"`
	MinConfidence float64  `mapstructure:"min_confidence"`
	Signals       []string `mapstructure:"signals"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AlertsConfig controls operational alerting.
type AlertsConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	Rules         []AlertRule   `mapstructure:"rules"`
}

// AlertRule defines a single alert rule.
type AlertRule struct {
	Name     string        `mapstructure:"name"`
	Expr     string        `mapstructure:"expr"`
	For      time.Duration `mapstructure:"for"`
	Severity string        `mapstructure:"severity"`
	Message  string        `mapstructure:"message"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads a config file and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	expandEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// expandEnv replaces whole-value ${VAR} references with the variable's
// value. Partial interpolation is deliberately not supported, so
// secrets containing dollar signs pass through untouched.
func expandEnv(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val, ok := strings.CutPrefix(v.GetString(key), "${")
		if !ok {
			continue
		}
		name, ok := strings.CutSuffix(val, "}")
		if !ok {
			continue
		}
		v.Set(key, os.Getenv(name))
	}
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Upstream: UpstreamConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Dashboard: DashboardConfig{
			Symbols:         []string{"AAPL"},
			RefreshInterval: 30 * time.Second,
		},
		Scanner: ScannerConfig{
			Universe:      "nasdaq",
			MinConfidence: 70,
			Workers:       5,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     5 * time.Minute,
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "./archive",
		},
		Router: RouterConfig{
			CooldownHours: 4,
			MinConfidence: 75,
			Signals:       []string{"STRONG_BUY", "BUY"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Alerts: AlertsConfig{
			Enabled:       false,
			CheckInterval: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func invalid(format string, args ...any) error {
	return core.WrapError(core.ErrConfigInvalid, fmt.Errorf(format, args...))
}

func missing(format string, args ...any) error {
	return core.WrapError(core.ErrConfigMissing, fmt.Errorf(format, args...))
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Upstream.BaseURL == "" && !c.Upstream.Offline {
		return missing("upstream base_url is required unless offline mode is set")
	}
	if c.Upstream.Timeout < 0 {
		return invalid("upstream timeout cannot be negative, got %s", c.Upstream.Timeout)
	}

	if c.Dashboard.RefreshInterval < time.Second {
		return invalid("dashboard refresh_interval must be at least 1s, got %s", c.Dashboard.RefreshInterval)
	}
	for _, symbol := range c.Dashboard.Symbols {
		if !core.ValidSymbol(symbol) {
			return invalid("invalid dashboard symbol %q", symbol)
		}
	}

	if c.Scanner.MinConfidence < 0 || c.Scanner.MinConfidence > 100 {
		return invalid("scanner min_confidence must be between 0 and 100, got %v", c.Scanner.MinConfidence)
	}
	if c.Scanner.Workers < 1 {
		return invalid("scanner workers must be at least 1, got %d", c.Scanner.Workers)
	}
	if c.Scanner.Universe != "" && core.Universe(c.Scanner.Universe) == nil {
		return invalid("unknown scanner universe %q", c.Scanner.Universe)
	}

	switch c.Cache.Backend {
	case "", "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return missing("redis addr required when cache backend is redis")
		}
	default:
		return invalid("unknown cache backend %q", c.Cache.Backend)
	}

	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return missing("archive path required when type is localfs")
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return missing("s3 bucket required when archive type is s3")
			}
		default:
			return invalid("unknown archive type %q", c.Archive.Type)
		}
	}

	if c.Router.MinConfidence < 0 || c.Router.MinConfidence > 100 {
		return invalid("router min_confidence must be between 0 and 100, got %v", c.Router.MinConfidence)
	}
	if c.Router.CooldownHours < 0 {
		return invalid("cooldown_hours cannot be negative, got %d", c.Router.CooldownHours)
	}
	for _, s := range c.Router.Signals {
		if !core.Signal(s).Valid() {
			return invalid("unknown router signal %q", s)
		}
	}

	return nil
}
