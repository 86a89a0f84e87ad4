package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tensionfield/renderer"
	"github.com/pthm-cable/tensionfield/ui"
)

const controlsLegend = "[1-7] shape  [C] connect  [R] reset tension  [S] scatter  [P] perf  [drag] orbit  [Home] reset view"

// Draw renders the scene and UI.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	view := g.scene.View()
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	g.stars.Clear()

	rl.BeginMode3D(renderer.Camera3D(g.camera))
	g.stars.Draw()
	g.cloudRenderer.Draw(g.scene.Field(), view.Color, view.PointSize)
	rl.EndMode3D()

	readings := uint64(0)
	if g.session != nil {
		readings = g.session.Readings()
	}
	g.hud.Draw(ui.HUDData{
		Title:     "Tension Field",
		Shape:     view.Shape.String(),
		Raw:       view.Raw,
		Smoothed:  view.Smoothed,
		Connected: g.Connected(),
		Readings:  readings,
	})

	act := g.controls.Draw(screenW, ui.ControlsState{
		Shape:     view.Shape,
		Color:     view.Color,
		Palette:   g.cfg.Derived.Palette,
		HasSource: g.session != nil,
		Connected: g.Connected(),
	})
	g.queue(act)

	if g.showPerf {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseAvg: stats.PhaseAvg,
			PhasePct: stats.PhasePct,
			Total:    stats.AvgTickDuration,
			Registry: g.registry,
		})
	}

	g.toast.Draw(time.Now(), screenW, screenH)
	g.hud.DrawFooter(screenH, g.tick, rl.GetFPS(), controlsLegend)

	rl.EndDrawing()
}

// queue merges clicked actions into the pending set for the next tick.
func (g *Game) queue(act ui.Actions) {
	if act.ShapeChosen {
		g.pending.Shape, g.pending.ShapeChosen = act.Shape, true
	}
	if act.ColorChosen {
		g.pending.Color, g.pending.ColorChosen = act.Color, true
	}
	g.pending.ToggleSource = g.pending.ToggleSource || act.ToggleSource
	g.pending.ResetTension = g.pending.ResetTension || act.ResetTension
}
