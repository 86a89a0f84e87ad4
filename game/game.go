// Package game ties the particle cloud scene to a tension source, telemetry,
// and (outside headless mode) the raylib window.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tensionfield/camera"
	"github.com/pthm-cable/tensionfield/config"
	"github.com/pthm-cable/tensionfield/renderer"
	"github.com/pthm-cable/tensionfield/shapes"
	"github.com/pthm-cable/tensionfield/signal"
	"github.com/pthm-cable/tensionfield/systems"
	"github.com/pthm-cable/tensionfield/telemetry"
	"github.com/pthm-cable/tensionfield/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string

	// Overrides for config values; zero means use config.
	Shape      string
	SourceKind string
	Address    string

	// AutoConnect starts the tension source immediately.
	AutoConnect bool

	// StatsCallback receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete application state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	scene   *systems.Scene
	session *signal.Session // nil when no source is configured
	ctx     context.Context
	cancel  context.CancelFunc

	// Pending UI requests, applied in the scene phase of the next tick
	pending ui.Actions

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	cloudScratch  telemetry.CloudScratch
	live          []r3.Vec
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	lastGen       uint32
	lastErr       error

	// Rendering (nil in headless mode)
	camera        *camera.Camera
	cloudRenderer *renderer.CloudRenderer
	stars         *renderer.Starfield
	hud           *ui.HUD
	controls      *ui.ControlsPanel
	perfPanel     *ui.PerfPanel
	toast         *ui.Toast
	registry      *systems.SystemRegistry
	showPerf      bool
	dragging      bool

	// State
	tick     int32
	simTime  float64
	headless bool
	dt       float64 // fixed headless step
}

// NewGameWithOptions creates a game from the global config and opts.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	shape := cfg.Derived.DefaultShape
	if opts.Shape != "" {
		s, err := shapes.ParseShape(opts.Shape)
		if err != nil {
			return nil, fmt.Errorf("shape override: %w", err)
		}
		shape = s
	}

	scene, err := systems.NewScene(rng, systems.SceneOptions{
		Count:     cfg.Particles.Count,
		Field:     cfg.Derived.FieldOptions,
		Smoothing: cfg.Tension.Smoothing,
		Snap:      cfg.Tension.Snap,
		Shape:     shape,
		Color:     cfg.Derived.DefaultColor,
		PointSize: float32(cfg.Particles.PointSize),
	})
	if err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:           cfg,
		rng:           rng,
		seed:          seed,
		scene:         scene,
		collector:     telemetry.NewCollector(statsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
		lastGen:       scene.View().Generation,
		headless:      opts.Headless,
		dt:            1.0 / float64(max(cfg.Screen.TargetFPS, 1)),
		registry:      systems.NewSystemRegistry(),
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())

	source, err := newSource(cfg, opts)
	if err != nil {
		g.Unload()
		return nil, err
	}
	if source != nil {
		g.session = signal.NewSession(source, scene.Cell())
		if opts.AutoConnect {
			g.session.Connect(g.ctx)
		}
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.Unload()
			return nil, err
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	if !opts.Headless {
		g.initRendering()
	}

	slog.Info("game created",
		"seed", seed,
		"particles", cfg.Particles.Count,
		"shape", shape,
		"source", sourceKind(cfg, opts),
		"headless", opts.Headless,
	)
	return g, nil
}

// initRendering sets up camera, renderers and UI. Requires an open window.
func (g *Game) initRendering() {
	cc := g.cfg.Camera
	g.camera = camera.New(cc.Distance, cc.FOV, cc.OrbitSensitivity)
	g.camera.MinElevation = cc.MinElevation
	g.camera.MaxElevation = cc.MaxElevation

	sc := g.cfg.Scene
	g.cloudRenderer = renderer.NewCloudRenderer()
	g.stars = renderer.NewStarfield(g.rng, sc.StarCount, sc.StarRadius, sc.StarDepth, renderer.ToColor(g.cfg.Derived.Background))
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(200)
	g.perfPanel = ui.NewPerfPanel(10, 150)
	g.toast = ui.NewToast(4 * time.Second)
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 { return g.simTime }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Scene returns the cloud scene.
func (g *Game) Scene() *systems.Scene { return g.scene }

// Connected reports whether the tension source is running.
func (g *Game) Connected() bool {
	return g.session != nil && g.session.Connected()
}

// Unload stops the source and releases resources.
func (g *Game) Unload() {
	if g.session != nil {
		g.session.Disconnect()
	}
	if g.cancel != nil {
		g.cancel()
	}
	g.scene.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
