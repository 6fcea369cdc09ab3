// Package config handles configuration loading and validation for duet.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/duetview/duet/internal/core/styles"
	"github.com/duetview/duet/internal/scrollsync"
)

// Config holds the application configuration.
type Config struct {
	Theme   string        `yaml:"theme"`
	Preview PreviewConfig `yaml:"preview"`
	Sync    SyncConfig    `yaml:"sync"`
	Files   FilesConfig   `yaml:"files"`
}

// PreviewConfig holds preview rendering options.
type PreviewConfig struct {
	// WordWrap is the maximum rendered line width. 0 uses the pane width.
	WordWrap int `yaml:"word_wrap"`
}

// SyncConfig tunes the scroll synchronization engine. All distances are in
// terminal rows.
type SyncConfig struct {
	DebounceMS       int `yaml:"debounce_ms"`        // settle debounce delay
	SettleMS         int `yaml:"settle_ms"`          // programmatic scroll window
	SettleSuppressMS int `yaml:"settle_suppress_ms"` // settle resync suppression window

	BottomSnapMinRows int     `yaml:"bottom_snap_min_rows"`
	BottomSnapMaxRows int     `yaml:"bottom_snap_max_rows"`
	ImageZoneLines    float64 `yaml:"image_zone_lines"`
}

// FilesConfig controls document discovery and change detection.
type FilesConfig struct {
	// Include are doublestar glob patterns used when duet is given a
	// directory instead of a file.
	Include []string `yaml:"include"`
	// WatchIntervalMS is the mtime polling interval for the open document.
	// 0 disables watching.
	WatchIntervalMS int `yaml:"watch_interval_ms"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: styles.DefaultTheme,
		Sync: SyncConfig{
			DebounceMS:        100,
			SettleMS:          150,
			SettleSuppressMS:  350,
			BottomSnapMinRows: 4,
			BottomSnapMaxRows: 12,
			ImageZoneLines:    3,
		},
		Files: FilesConfig{
			Include:         []string{"**/*.md", "**/*.markdown"},
			WatchIntervalMS: 500,
		},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Sync.DebounceMS == 0 {
		c.Sync.DebounceMS = defaults.Sync.DebounceMS
	}
	if c.Sync.SettleMS == 0 {
		c.Sync.SettleMS = defaults.Sync.SettleMS
	}
	if c.Sync.SettleSuppressMS == 0 {
		c.Sync.SettleSuppressMS = defaults.Sync.SettleSuppressMS
	}
	if c.Sync.BottomSnapMinRows == 0 {
		c.Sync.BottomSnapMinRows = defaults.Sync.BottomSnapMinRows
	}
	if c.Sync.BottomSnapMaxRows == 0 {
		c.Sync.BottomSnapMaxRows = defaults.Sync.BottomSnapMaxRows
	}
	if c.Sync.ImageZoneLines == 0 {
		c.Sync.ImageZoneLines = defaults.Sync.ImageZoneLines
	}
	if len(c.Files.Include) == 0 {
		c.Files.Include = defaults.Files.Include
	}
}

// SyncOptions converts the sync tuning into engine options. Snap distances
// are in rows because the terminal panes use a line height of 1.
func (c *Config) SyncOptions() scrollsync.Options {
	return scrollsync.Options{
		DebounceDelay:       time.Duration(c.Sync.DebounceMS) * time.Millisecond,
		SettleDelay:         time.Duration(c.Sync.SettleMS) * time.Millisecond,
		SettleSuppressDelay: time.Duration(c.Sync.SettleSuppressMS) * time.Millisecond,
		BottomSnapMin:       float64(c.Sync.BottomSnapMinRows),
		BottomSnapMax:       float64(c.Sync.BottomSnapMaxRows),
		ImageZoneLines:      c.Sync.ImageZoneLines,
	}
}

// WatchInterval returns the document polling interval, or 0 when disabled.
func (c *Config) WatchInterval() time.Duration {
	if c.Files.WatchIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.Files.WatchIntervalMS) * time.Millisecond
}
