package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tensionfield/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Shape     string
	Raw       float64
	Smoothed  float64
	Connected bool
	Readings  uint64
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the title, tension meter and source status in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	t := r.Theme
	const width = 260

	r.DrawPanel(10, 10, width, t.LineHeight*6+t.Padding*2)
	x := int32(10) + t.Padding
	y := int32(10) + t.Padding

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += t.LineHeight + 8

	y = r.DrawTensionBar(x, y, "Tension", data.Smoothed, width-2*t.Padding)
	y = r.DrawLabelValue(x, y, "Raw", Percent(data.Raw))
	y = r.DrawLabelValue(x, y, "Shape", data.Shape)

	status := "disconnected"
	if data.Connected {
		status = fmt.Sprintf("connected (%d readings)", data.Readings)
	}
	r.DrawLabelValue(x, y, "Source", status)
}

// DrawFooter renders tick/FPS and the key legend along the bottom of the screen.
func (h *HUD) DrawFooter(screenHeight int32, tick, fps int32, controls string) {
	rl.DrawText(fmt.Sprintf("Tick: %d | FPS: %d", tick, fps), 10, screenHeight-45, 14, rl.Gray)
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64
	Total    time.Duration
	Registry *systems.SystemRegistry
}

// PerfPanel renders per-phase frame cost.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x, y := p.x, p.y

	rl.DrawText("Frame cost", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, id := range data.Registry.IDs() {
		avg := data.PhaseAvg[id]
		pct := data.PhasePct[id]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", data.Registry.GetName(id), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
