package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/tensionfield/telemetry"
)

// recordFrame feeds one tick's tension into the stats window and notices
// shape changes and source errors.
func (g *Game) recordFrame(raw, smoothed float64) {
	g.collector.RecordFrame(raw, smoothed)

	if gen := g.scene.View().Generation; gen != g.lastGen {
		g.collector.RecordShapeChange()
		g.lastGen = gen
	}

	if g.session == nil {
		return
	}
	g.collector.RecordReadings(g.session.Readings())
	if err := g.session.Err(); err != nil && err != g.lastErr {
		g.lastErr = err
		if g.toast != nil {
			g.toast.Show(err.Error(), time.Now())
		}
	}
}

// flushTelemetry emits a stats window once enough simulated time has passed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.simTime) {
		return
	}

	view := g.scene.View()
	f := g.scene.Field()
	g.live = f.Positions(g.live)
	scale, _, _ := f.Params(0, view.Smoothed)
	cloud := telemetry.ComputeCloudStats(g.live, f.Targets(), scale, view.Shape, &g.cloudScratch)

	stats := g.collector.Flush(g.tick, g.simTime, telemetry.Scene{
		Shape:     view.Shape.String(),
		Color:     view.Color.Hex(),
		Connected: g.Connected(),
		Cloud:     cloud,
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
