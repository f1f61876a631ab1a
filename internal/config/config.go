// Package config loads user settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/stats"
	"github.com/julianstephens/tracker/internal/utils"
)

type Config struct {
	// Timezone is an IANA name; "Local" or empty uses the system zone.
	Timezone string       `yaml:"timezone"`
	Stats    StatsConfig  `yaml:"stats"`
	TUI      TUIConfig    `yaml:"tui"`
	Backup   BackupConfig `yaml:"backup"`
	Log      LogConfig    `yaml:"log"`
}

type StatsConfig struct {
	IdealDayMode string `yaml:"ideal_day_mode"`
}

type TUIConfig struct {
	// WeekStartToday opens the TUI on today rather than the start of the week.
	WeekStartToday bool `yaml:"week_start_today"`
}

type BackupConfig struct {
	MaxBackups int `yaml:"max_backups"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

func Default() Config {
	return Config{
		Timezone: "Local",
		Stats:    StatsConfig{IdealDayMode: constants.IdealDayModeIDSet},
		TUI:      TUIConfig{WeekStartToday: true},
		Backup:   BackupConfig{MaxBackups: constants.MaxBackups},
		Log: LogConfig{
			Level:      constants.LogLevel,
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
		},
	}
}

// Load reads the settings at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg at path, creating the directory. Existing files are kept
// unless force is set.
func Write(path string, cfg Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("settings already exist at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c Config) Validate() error {
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	if _, err := stats.ParseIdealMatch(c.Stats.IdealDayMode); err != nil {
		return err
	}
	if c.Backup.MaxBackups < 0 {
		return fmt.Errorf("backup.max_backups must not be negative")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_size_mb and log.max_backups must not be negative")
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

func (c Config) IdealMatch() stats.IdealMatch {
	m, _ := stats.ParseIdealMatch(c.Stats.IdealDayMode)
	return m
}

// MaxBackups falls back to the default when unset.
func (c Config) MaxBackups() int {
	if c.Backup.MaxBackups == 0 {
		return constants.MaxBackups
	}
	return c.Backup.MaxBackups
}

// LoggerConfig maps the log section onto the logger, writing under dir.
func (c Config) LoggerConfig(dir string, debug bool) logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		Debug:      debug,
		Dir:        dir,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
