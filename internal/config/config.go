package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Provider  ProviderConfig  `yaml:"provider"`
	Sync      SyncConfig      `yaml:"sync"`
	Athlete   AthleteConfig   `yaml:"athlete"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// ProviderConfig points at the health data export bridge.
type ProviderConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call provider timeout.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// SyncConfig controls when sync cycles run.
type SyncConfig struct {
	AutoSync         bool   `yaml:"auto_sync"`
	SyncOnForeground bool   `yaml:"sync_on_foreground"`
	IntervalMinutes  int    `yaml:"interval_minutes"`
	UpdateIntervalMS int    `yaml:"update_interval_ms"`
	JournalDir       string `yaml:"journal_dir"`
}

// Interval returns the resync cadence, which doubles as the staleness
// threshold for foreground syncs.
func (s SyncConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// UpdateInterval returns the live session poll cadence.
func (s SyncConfig) UpdateInterval() time.Duration {
	return time.Duration(s.UpdateIntervalMS) * time.Millisecond
}

// AthleteConfig carries per-person tuning for derived metrics.
type AthleteConfig struct {
	MaxHeartRate float64 `yaml:"max_heart_rate"`
	BodyWeightKg float64 `yaml:"body_weight_kg"`
}

// TailscaleConfig optionally serves the API on a tailnet instead of a
// plain TCP listener.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
	AuthKey  string `yaml:"auth_key"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix VITALSYNC_ and underscore-separated paths:
//
//	VITALSYNC_SERVER_HOST, VITALSYNC_SERVER_PORT,
//	VITALSYNC_DB_HOST, VITALSYNC_DB_PORT, VITALSYNC_DB_NAME,
//	VITALSYNC_DB_USER, VITALSYNC_DB_PASSWORD, VITALSYNC_DB_SSLMODE,
//	VITALSYNC_AUTH_API_KEY,
//	VITALSYNC_PROVIDER_HOST, VITALSYNC_PROVIDER_PORT,
//	VITALSYNC_TS_AUTH_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VITALSYNC_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("VITALSYNC_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("VITALSYNC_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("VITALSYNC_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("VITALSYNC_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("VITALSYNC_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("VITALSYNC_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("VITALSYNC_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("VITALSYNC_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("VITALSYNC_PROVIDER_HOST"); v != "" {
		cfg.Provider.Host = v
	}
	if v := os.Getenv("VITALSYNC_PROVIDER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Provider.Port = port
		}
	}
	if v := os.Getenv("VITALSYNC_TS_AUTH_KEY"); v != "" {
		cfg.Tailscale.AuthKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Provider.TimeoutSeconds == 0 {
		c.Provider.TimeoutSeconds = 10
	}
	if c.Sync.IntervalMinutes == 0 {
		c.Sync.IntervalMinutes = 15
	}
	if c.Sync.UpdateIntervalMS == 0 {
		c.Sync.UpdateIntervalMS = 3000
	}
	if c.Sync.JournalDir == "" {
		c.Sync.JournalDir = "data"
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "vitalsync"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Provider.Host == "" {
		return fmt.Errorf("provider.host is required")
	}
	if c.Provider.Port == 0 {
		return fmt.Errorf("provider.port is required")
	}
	if c.Athlete.MaxHeartRate < 0 {
		return fmt.Errorf("athlete.max_heart_rate must not be negative")
	}
	return nil
}
