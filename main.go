package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tensionfield/config"
	"github.com/pthm-cable/tensionfield/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	realtime := flag.Bool("realtime", false, "Pace headless ticks at screen.target_fps")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	shape := flag.String("shape", "", "Initial shape (empty = use config)")
	source := flag.String("source", "", "Tension source: none, oscillator, stdin, tcp (empty = use config)")
	addr := flag.String("addr", "", "Address for the tcp source (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")

	flag.Parse()

	// Set up slog (JSON for structured logging). The stdin source answers on
	// stdout, so logs move to stderr in that case.
	var logOut io.Writer = os.Stdout
	if *source == config.SourceStdin {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *source == "" && cfg.Source.Kind == config.SourceStdin {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	opts := game.Options{
		Seed:           *seed,
		Headless:       *headless,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Shape:          *shape,
		SourceKind:     *source,
		Address:        *addr,
		AutoConnect:    *headless,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation", "seed", g.Seed(), "max_ticks", *maxTicks, "realtime", *realtime)

		// Tension is smoothed once per tick, so pacing keeps it in step with
		// a live source's wall-clock readings.
		var pace <-chan time.Time
		if *realtime {
			ticker := time.NewTicker(time.Second / time.Duration(max(cfg.Screen.TargetFPS, 1)))
			defer ticker.Stop()
			pace = ticker.C
		}

		for {
			if pace != nil {
				<-pace
			}
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Tension Field")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
