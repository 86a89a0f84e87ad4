package game

import (
	"fmt"
	"os"

	"github.com/pthm-cable/tensionfield/config"
	"github.com/pthm-cable/tensionfield/signal"
)

// sourceKind resolves the source kind from options and config.
func sourceKind(cfg *config.Config, opts Options) string {
	if opts.SourceKind != "" {
		return opts.SourceKind
	}
	return cfg.Source.Kind
}

// newSource builds the configured tension source. Returns nil for "none".
func newSource(cfg *config.Config, opts Options) (signal.Source, error) {
	addr := cfg.Source.Address
	if opts.Address != "" {
		addr = opts.Address
	}

	switch kind := sourceKind(cfg, opts); kind {
	case config.SourceNone:
		return nil, nil
	case config.SourceOscillator:
		return &signal.Oscillator{Interval: cfg.Derived.Interval, Period: cfg.Derived.Period}, nil
	case config.SourceStdin:
		// Tool responses go back on stdout; main moves logging to stderr.
		src := signal.NewToolCallSource(os.Stdin, os.Stdout)
		src.Frames = newFramePump(cfg)
		return src, nil
	case config.SourceTCP:
		return &signal.TCPSource{Addr: addr, Timeout: cfg.Derived.DialTimeout, Frames: newFramePump(cfg)}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// newFramePump returns the frame stream for the analysis service, or nil when
// frames are disabled. Frames come from a test pattern at twice the sent size.
func newFramePump(cfg *config.Config) *signal.FramePump {
	f := cfg.Source.Frames
	if !f.Enabled {
		return nil
	}
	return &signal.FramePump{
		Source:   signal.NewTestPattern(2*f.Width, 2*f.Height),
		Interval: cfg.Derived.FrameInterval,
		Width:    f.Width,
		Height:   f.Height,
		Quality:  f.Quality,
	}
}
