package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/duetview/duet/internal/core/styles"
)

// Validate performs structural validation of the configuration. Invalid sync
// tuning is reported as field errors rather than silently clamped.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, themeExists),
		c.validateSync(),
		c.validateFiles(),
	)
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func (c *Config) validateSync() error {
	var errs criterio.FieldErrorsBuilder

	if c.Sync.DebounceMS < 0 {
		errs = errs.Append("sync.debounce_ms", fmt.Errorf("must not be negative"))
	}
	if c.Sync.SettleMS < 0 {
		errs = errs.Append("sync.settle_ms", fmt.Errorf("must not be negative"))
	}
	if c.Sync.SettleSuppressMS < c.Sync.SettleMS {
		errs = errs.Append("sync.settle_suppress_ms", fmt.Errorf("must be at least settle_ms (%d)", c.Sync.SettleMS))
	}
	if c.Sync.BottomSnapMinRows < 0 {
		errs = errs.Append("sync.bottom_snap_min_rows", fmt.Errorf("must not be negative"))
	}
	if c.Sync.BottomSnapMaxRows < c.Sync.BottomSnapMinRows {
		errs = errs.Append("sync.bottom_snap_max_rows", fmt.Errorf("must be at least bottom_snap_min_rows (%d)", c.Sync.BottomSnapMinRows))
	}
	if c.Sync.ImageZoneLines < 0 {
		errs = errs.Append("sync.image_zone_lines", fmt.Errorf("must not be negative"))
	}
	if c.Preview.WordWrap < 0 {
		errs = errs.Append("preview.word_wrap", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}

func (c *Config) validateFiles() error {
	var errs criterio.FieldErrorsBuilder

	for i, pattern := range c.Files.Include {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("files.include[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	if c.Files.WatchIntervalMS < 0 {
		errs = errs.Append("files.watch_interval_ms", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}
