// Package config loads and saves smartbunk configuration and the holiday
// reference table.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
)

// Config holds all smartbunk configuration.
type Config struct {
	General       GeneralConfig       `toml:"general"`
	Tracking      TrackingConfig      `toml:"tracking"`
	Holidays      HolidayConfig       `toml:"holidays"`
	Notifications NotificationConfig  `toml:"notifications"`
	Appearance    AppearanceConfig    `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
}

// TrackingConfig holds the projection knobs.
type TrackingConfig struct {
	TargetPercentage float64 `toml:"target_percentage"`
	ChaosFactor      float64 `toml:"chaos_factor"`
}

// HolidayConfig selects the built-in holiday region and lets the user add or
// drop individual dates.
type HolidayConfig struct {
	Region string   `toml:"region"`
	Extra  []string `toml:"extra,omitempty"` // additional YYYY-MM-DD dates
	Skip   []string `toml:"skip,omitempty"`  // built-in dates to ignore
}

// NotificationConfig holds reminder daemon settings.
type NotificationConfig struct {
	Enabled     bool   `toml:"enabled"`
	LeadMinutes int    `toml:"lead_minutes"`
	IntervalSec int    `toml:"interval_sec"`
	Addr        string `toml:"addr,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Tracking: TrackingConfig{
			TargetPercentage: engine.DefaultTarget,
			ChaosFactor:      engine.DefaultChaosFactor,
		},
		Holidays: HolidayConfig{
			Region: "in",
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			LeadMinutes: 30,
			IntervalSec: 60,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartbunk")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "smartbunk")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// fillDefaults repairs zero values left by a partial config file so the rest
// of the app never sees a degenerate knob.
func (c *Config) fillDefaults() {
	if c.Tracking.TargetPercentage <= 0 || c.Tracking.TargetPercentage > 1 {
		c.Tracking.TargetPercentage = engine.DefaultTarget
	}
	if c.Tracking.ChaosFactor <= 0 || c.Tracking.ChaosFactor > 1 {
		c.Tracking.ChaosFactor = engine.DefaultChaosFactor
	}
	if c.Holidays.Region == "" {
		c.Holidays.Region = "in"
	}
	if c.Notifications.IntervalSec <= 0 {
		c.Notifications.IntervalSec = 60
	}
	if c.Notifications.LeadMinutes <= 0 {
		c.Notifications.LeadMinutes = 30
	}
	if c.Appearance.Theme == "" {
		c.Appearance.Theme = "flexoki-dark"
	}
}

// Options returns the engine projection options from the config.
func (c Config) Options() engine.Options {
	return engine.Options{
		TargetPercentage: c.Tracking.TargetPercentage,
		ChaosFactor:      c.Tracking.ChaosFactor,
	}
}
