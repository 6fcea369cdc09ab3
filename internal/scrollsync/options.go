package scrollsync

import "time"

// Options tunes the engine's timers and snap thresholds. Zero values are
// replaced with defaults, which are sized for pixel-based hosts; terminal
// hosts scale the snap distances down to row units via configuration.
type Options struct {
	// DebounceDelay is how long a pane must be quiet before its settle
	// correction fires. Re-armed on every scroll event.
	DebounceDelay time.Duration
	// SettleDelay is how long a programmatically driven pane ignores its
	// own scroll events.
	SettleDelay time.Duration
	// SettleSuppressDelay blocks the settle correction on a pane that was
	// just programmatically driven. Slightly longer than SettleDelay to
	// close the residual oscillation path through the settle resync.
	SettleSuppressDelay time.Duration

	// TopSnap forces the target to 0 when the driving pane is within this
	// distance of its top.
	TopSnap float64
	// BottomSnapMin/BottomSnapMax clamp the bottom snap threshold, which
	// is BottomSnapFraction of the receiving pane's visible height.
	BottomSnapMin      float64
	BottomSnapMax      float64
	BottomSnapFraction float64

	// ImageZoneLines is the span, in text lines, over which the source
	// pane crawls while the preview scrolls through an image's rendered
	// height.
	ImageZoneLines float64
}

// DefaultOptions returns the pixel-space defaults.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.DebounceDelay <= 0 {
		o.DebounceDelay = 100 * time.Millisecond
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 150 * time.Millisecond
	}
	if o.SettleSuppressDelay <= 0 {
		o.SettleSuppressDelay = 350 * time.Millisecond
	}
	if o.TopSnap <= 0 {
		o.TopSnap = 1
	}
	if o.BottomSnapMin <= 0 {
		o.BottomSnapMin = 80
	}
	if o.BottomSnapMax <= 0 {
		o.BottomSnapMax = 240
	}
	if o.BottomSnapFraction <= 0 {
		o.BottomSnapFraction = 0.25
	}
	if o.ImageZoneLines <= 0 {
		o.ImageZoneLines = 3
	}
	return o
}
