package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tensionfield/components"
	"github.com/pthm-cable/tensionfield/shapes"
)

// Actions holds what the user asked for this frame.
type Actions struct {
	Shape        shapes.Shape
	ShapeChosen  bool
	Color        components.Color
	ColorChosen  bool
	ToggleSource bool
	ResetTension bool
}

// ControlsState is what the controls panel shows as selected.
type ControlsState struct {
	Shape     shapes.Shape
	Color     components.Color
	Palette   []components.Color
	HasSource bool
	Connected bool
}

// ControlsPanel renders the right-side panel of shape buttons, colour swatches
// and the source toggle.
type ControlsPanel struct {
	renderer   *Renderer
	width      int32
	lastHeight int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), width: width}
}

// Contains reports whether a screen point lies over the panel, so mouse drags
// there are not treated as camera orbits.
func (c *ControlsPanel) Contains(screenW int32, x, y float32) bool {
	return x >= float32(screenW-c.width) && y <= float32(c.lastHeight)
}

func (c *ControlsPanel) height(paletteLen int) int32 {
	t := c.renderer.Theme
	n := int32(len(shapes.All()))
	rows := (int32(paletteLen) + 5) / 6
	return t.Padding*4 + t.LineHeight*3 + n*(t.ButtonHeight+4) + rows*(t.SwatchSize+6) + 2*(t.ButtonHeight+4)
}

// Draw renders the panel and returns the actions clicked this frame.
func (c *ControlsPanel) Draw(screenW int32, st ControlsState) Actions {
	var act Actions
	t := c.renderer.Theme

	x := screenW - c.width
	c.lastHeight = c.height(len(st.Palette))
	c.renderer.DrawPanel(x, 0, c.width, c.lastHeight)

	inner := x + t.Padding
	innerW := c.width - 2*t.Padding
	y := t.Padding

	// Shapes
	y = c.renderer.DrawSectionHeader(inner, y, "Shape")
	for _, s := range shapes.All() {
		bounds := rl.Rectangle{X: float32(inner), Y: float32(y), Width: float32(innerW), Height: float32(t.ButtonHeight)}
		if gui.Button(bounds, s.String()) && s != st.Shape {
			act.Shape, act.ShapeChosen = s, true
		}
		if s == st.Shape {
			rl.DrawRectangleLinesEx(bounds, 2, t.Selected)
		}
		y += t.ButtonHeight + 4
	}

	// Colours
	y += t.Padding
	y = c.renderer.DrawSectionHeader(inner, y, "Color")
	for i, col := range st.Palette {
		sx := inner + int32(i%6)*(t.SwatchSize+6)
		sy := y + int32(i/6)*(t.SwatchSize+6)
		bounds := rl.Rectangle{X: float32(sx), Y: float32(sy), Width: float32(t.SwatchSize), Height: float32(t.SwatchSize)}
		if gui.Button(bounds, "") {
			act.Color, act.ColorChosen = col, true
		}
		rl.DrawRectangle(sx+3, sy+3, t.SwatchSize-6, t.SwatchSize-6, rl.Color{R: col.R, G: col.G, B: col.B, A: 255})
		if col == st.Color {
			rl.DrawRectangleLines(sx, sy, t.SwatchSize, t.SwatchSize, t.Selected)
		}
	}
	y += ((int32(len(st.Palette))+5)/6)*(t.SwatchSize+6) + t.Padding

	// Source
	y = c.renderer.DrawSectionHeader(inner, y, "Source")
	label := "Connect"
	if st.Connected {
		label = "Disconnect"
	}
	if !st.HasSource {
		label = "No source"
	}
	bounds := rl.Rectangle{X: float32(inner), Y: float32(y), Width: float32(innerW), Height: float32(t.ButtonHeight)}
	if gui.Button(bounds, label) && st.HasSource {
		act.ToggleSource = true
	}
	y += t.ButtonHeight + 4

	bounds.Y = float32(y)
	if gui.Button(bounds, "Reset tension") {
		act.ResetTension = true
	}
	return act
}
