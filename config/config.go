package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/soulmaestro/GoblinStockAlerts/internal/watcher"
	"gopkg.in/yaml.v3"
)

// Config is the full sniper configuration.
type Config struct {
	Region string `yaml:"region"` // us | eu
	Mode   string `yaml:"mode"`   // light | balanced | aggressive
	// Workers overrides the worker count the mode would pick. 0 means use
	// the mode's default.
	Workers int `yaml:"workers"`
	// Resident keeps the worker pool alive through the auction house's idle
	// window instead of recreating it each hour.
	Resident bool `yaml:"resident"`
	// AddonPath is the WoW addon directory for the Lua data export. Empty
	// disables the export.
	AddonPath string `yaml:"addon_path"`
	// Database is the SQLite deal history path. Empty disables history.
	Database string `yaml:"database"`

	Log LogConfig `yaml:"log"`

	// Global wants apply to every realm; Realms adds per-realm wants keyed
	// by realm slug.
	Global ListConfig            `yaml:"global"`
	Realms map[string]ListConfig `yaml:"realms"`

	creds Credentials
}

// LogConfig controls log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Credentials are the Battle.net API client credentials. They never live in
// the YAML file, only in the environment or a .env next to it.
type Credentials struct {
	ClientID string
	Secret   string
}

// Load reads the YAML file and the .env file if present. Environment values
// override YAML for the keys they cover.
func Load(path string) (*Config, error) {
	// Load .env if present (no error when the file is missing).
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Credentials returns the Battle.net client credentials.
func (c *Config) Credentials() Credentials {
	return c.creds
}

// WatcherConfig maps the user-facing settings onto the pipeline's knobs.
func (c *Config) WatcherConfig() watcher.Config {
	wc := watcher.DefaultConfig()
	wc.Mode = watcher.Mode(c.Mode)
	wc.Workers = c.Workers
	wc.KeepWorkersResident = c.Resident
	return wc
}

func applyEnvOverrides(cfg *Config) {
	cfg.creds.ClientID = os.Getenv("BNET_ID")
	cfg.creds.Secret = os.Getenv("BNET_SECRET")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GSA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = string(watcher.ModeBalanced)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	switch c.Region {
	case "us", "eu":
	case "":
		return fmt.Errorf("region is required (us or eu)")
	default:
		return fmt.Errorf("unknown region %q (us or eu)", c.Region)
	}

	if !watcher.Mode(c.Mode).Valid() {
		return fmt.Errorf("unknown mode %q (light, balanced or aggressive)", c.Mode)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.creds.ClientID == "" || c.creds.Secret == "" {
		return fmt.Errorf("BNET_ID and BNET_SECRET must be set in the environment or .env")
	}
	if len(c.Realms) == 0 && c.Global.empty() {
		return fmt.Errorf("nothing to snipe: configure realms or a global list")
	}

	if err := c.Global.validate("global"); err != nil {
		return err
	}
	for slug, list := range c.Realms {
		if err := list.validate(slug); err != nil {
			return err
		}
	}
	return nil
}
