// Package config provides configuration loading and access for the particle cloud.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/tensionfield/components"
	"github.com/pthm-cable/tensionfield/field"
	"github.com/pthm-cable/tensionfield/shapes"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Morph     MorphConfig     `yaml:"morph"`
	Tension   TensionConfig   `yaml:"tension"`
	Camera    CameraConfig    `yaml:"camera"`
	Scene     SceneConfig     `yaml:"scene"`
	Source    SourceConfig    `yaml:"source"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ParticlesConfig holds particle buffer settings.
type ParticlesConfig struct {
	Count             int     `yaml:"count"`
	InitialSpread     float64 `yaml:"initial_spread"`
	PointSize         float64 `yaml:"point_size"`
	ParallelThreshold int     `yaml:"parallel_threshold"`
}

// MorphConfig holds the per-tick morph parameters.
type MorphConfig struct {
	LerpRate    float64 `yaml:"lerp_rate"`
	Compression float64 `yaml:"compression"`
	Jitter      float64 `yaml:"jitter"`
	SpinRate    float64 `yaml:"spin_rate"`
}

// TensionConfig holds the per-frame smoothing of the raw tension.
type TensionConfig struct {
	Smoothing float64 `yaml:"smoothing"`
	Snap      float64 `yaml:"snap"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOV              float64 `yaml:"fov"`
	Distance         float64 `yaml:"distance"`
	OrbitSensitivity float64 `yaml:"orbit_sensitivity"`
	MinElevation     float64 `yaml:"min_elevation"`
	MaxElevation     float64 `yaml:"max_elevation"`
}

// SceneConfig holds the cosmetic scene defaults.
type SceneConfig struct {
	DefaultShape string   `yaml:"default_shape"`
	DefaultColor string   `yaml:"default_color"`
	Palette      []string `yaml:"palette"`
	Background   string   `yaml:"background"`
	StarCount    int      `yaml:"star_count"`
	StarRadius   float64  `yaml:"star_radius"`
	StarDepth    float64  `yaml:"star_depth"`
}

// SourceConfig selects where raw tension readings come from.
type SourceConfig struct {
	Kind        string       `yaml:"kind"` // none | oscillator | stdin | tcp
	Address     string       `yaml:"address"`
	Interval    float64      `yaml:"interval"`     // seconds
	Period      float64      `yaml:"period"`       // seconds
	DialTimeout float64      `yaml:"dial_timeout"` // seconds
	Frames      FramesConfig `yaml:"frames"`
}

// FramesConfig controls the video frames streamed to the analysis service
// over the stdin and tcp sources.
type FramesConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Interval float64 `yaml:"interval"` // seconds
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Quality  int     `yaml:"quality"` // JPEG, 1-100
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds typed values parsed from the loaded config.
type DerivedConfig struct {
	DefaultShape  shapes.Shape
	DefaultColor  components.Color
	Palette       []components.Color
	Background    components.Color
	FieldOptions  field.Options
	Interval      time.Duration
	Period        time.Duration
	DialTimeout   time.Duration
	FrameInterval time.Duration
}

// Source kinds.
const (
	SourceNone       = "none"
	SourceOscillator = "oscillator"
	SourceStdin      = "stdin"
	SourceTCP        = "tcp"
)

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the loaded values and fills in Derived.
func (c *Config) computeDerived() error {
	if c.Particles.Count <= 0 {
		return fmt.Errorf("particles.count must be positive, got %d", c.Particles.Count)
	}

	shape, err := shapes.ParseShape(c.Scene.DefaultShape)
	if err != nil {
		return fmt.Errorf("scene.default_shape: %w", err)
	}
	c.Derived.DefaultShape = shape

	if c.Derived.DefaultColor, err = components.ParseColor(c.Scene.DefaultColor); err != nil {
		return fmt.Errorf("scene.default_color: %w", err)
	}
	if c.Derived.Background, err = components.ParseColor(c.Scene.Background); err != nil {
		return fmt.Errorf("scene.background: %w", err)
	}

	c.Derived.Palette = make([]components.Color, 0, len(c.Scene.Palette))
	for i, hex := range c.Scene.Palette {
		col, err := components.ParseColor(hex)
		if err != nil {
			return fmt.Errorf("scene.palette[%d]: %w", i, err)
		}
		c.Derived.Palette = append(c.Derived.Palette, col)
	}
	if len(c.Derived.Palette) == 0 {
		c.Derived.Palette = []components.Color{c.Derived.DefaultColor}
	}

	switch c.Source.Kind {
	case SourceNone, SourceOscillator, SourceStdin, SourceTCP:
	default:
		return fmt.Errorf("source.kind: unknown kind %q", c.Source.Kind)
	}
	if f := c.Source.Frames; f.Enabled && (f.Interval <= 0 || f.Width <= 0 || f.Height <= 0) {
		return fmt.Errorf("source.frames: interval, width and height must be positive")
	}

	c.Derived.FieldOptions = field.Options{
		LerpRate:          c.Morph.LerpRate,
		Compression:       c.Morph.Compression,
		Jitter:            c.Morph.Jitter,
		SpinRate:          c.Morph.SpinRate,
		InitialSpread:     c.Particles.InitialSpread,
		ParallelThreshold: c.Particles.ParallelThreshold,
	}
	c.Derived.Interval = seconds(c.Source.Interval)
	c.Derived.Period = seconds(c.Source.Period)
	c.Derived.DialTimeout = seconds(c.Source.DialTimeout)
	c.Derived.FrameInterval = seconds(c.Source.Frames.Interval)
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
