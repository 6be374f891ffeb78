// Package config persists CLI defaults between runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sumonitor/go-sumonitor/internal/core/constants"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/util"
	"gopkg.in/yaml.v3"
)

// Config holds the values a user may persist. Zero fields fall back to the
// compiled-in defaults.
type Config struct {
	Plan        string        `yaml:"plan,omitempty"`
	DataDir     string        `yaml:"data_dir,omitempty"`
	Window      time.Duration `yaml:"window,omitempty"`
	Lookback    time.Duration `yaml:"lookback,omitempty"`
	Interval    time.Duration `yaml:"interval,omitempty"`
	Timezone    string        `yaml:"timezone,omitempty"`
	PricingFile string        `yaml:"pricing_file,omitempty"`
}

// Defaults returns the compiled-in defaults
func Defaults() Config {
	return Config{
		Plan:     model.PlanPro,
		DataDir:  constants.DefaultDataDir,
		Window:   constants.SessionDuration,
		Lookback: constants.DefaultLookback,
		Interval: constants.DefaultPollInterval,
		Timezone: "Local",
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// an unreadable or corrupt one is logged and ignored.
func Load(path string) Config {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			util.LogWarn("Failed to read config file, using defaults",
				util.F("path", path), util.F("error", err))
		}
		return cfg
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		util.LogWarn("Config file is corrupt, using defaults",
			util.F("path", path), util.F("error", err))
		return cfg
	}

	cfg.merge(fromFile)
	return cfg
}

// merge copies the non-zero fields of other into c
func (c *Config) merge(other Config) {
	if other.Plan != "" {
		c.Plan = other.Plan
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.Window > 0 {
		c.Window = other.Window
	}
	if other.Lookback > 0 {
		c.Lookback = other.Lookback
	}
	if other.Interval > 0 {
		c.Interval = other.Interval
	}
	if other.Timezone != "" {
		c.Timezone = other.Timezone
	}
	if other.PricingFile != "" {
		c.PricingFile = other.PricingFile
	}
}

// Save writes cfg to path, creating parent directories. The file is
// replaced atomically.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// Remember persists plan and dataDir when given, keeping every other value
// already in the file. Nothing is written when both are empty.
func Remember(path, plan, dataDir string) error {
	if plan == "" && dataDir == "" {
		return nil
	}

	var cfg Config
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			cfg = Config{}
		}
	}

	if plan != "" {
		cfg.Plan = plan
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return Save(path, cfg)
}
