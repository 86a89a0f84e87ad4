package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tensionfield/shapes"
	"github.com/pthm-cable/tensionfield/telemetry"
	"github.com/pthm-cable/tensionfield/ui"
)

// Update handles input and advances the scene by the last frame's duration.
func (g *Game) Update() {
	g.handleInput()
	g.step(float64(rl.GetFrameTime()))
}

// UpdateHeadless advances the scene by one fixed step without touching raylib.
func (g *Game) UpdateHeadless() {
	g.step(g.dt)
}

// step runs one tick: scene changes, tension smoothing, morph, telemetry.
func (g *Game) step(dt float64) {
	if dt <= 0 {
		return
	}
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseScene)
	g.applyPending()

	g.perfCollector.StartPhase(telemetry.PhaseTension)
	raw, smoothed := g.scene.UpdateTension()

	g.perfCollector.StartPhase(telemetry.PhaseMorph)
	g.scene.UpdateMorph(dt)

	g.tick++
	g.simTime += dt

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordFrame(raw, smoothed)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// applyPending applies UI requests queued since the last tick.
func (g *Game) applyPending() {
	act := g.pending
	g.pending = ui.Actions{}

	if act.ShapeChosen {
		g.SetShape(act.Shape)
	}
	if act.ColorChosen {
		g.scene.SetColor(act.Color)
	}
	if act.ResetTension {
		g.ResetTension()
	}
	if act.ToggleSource {
		g.ToggleSource()
	}
}

// SetShape swaps the target shape. Failures are logged and leave the scene as is.
func (g *Game) SetShape(shape shapes.Shape) {
	if err := g.scene.SetShape(shape); err != nil {
		slog.Error("shape change failed", "shape", shape, "error", err)
		return
	}
	if g.camera != nil {
		radius := shapes.Radius(shapes.Envelope(shape))
		slog.Debug("shape framing", "shape", shape, "radius", radius, "fits_view", g.camera.Visible(radius))
	}
}

// ResetTension zeroes raw and smoothed tension.
func (g *Game) ResetTension() {
	g.scene.ResetTension()
	slog.Info("tension reset")
}

// ToggleSource connects or disconnects the tension source, if there is one.
func (g *Game) ToggleSource() {
	if g.session == nil {
		return
	}
	g.session.Toggle(g.ctx)
}
