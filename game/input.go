package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tensionfield/shapes"
)

// shapeKeys maps number keys to shapes in menu order.
var shapeKeys = []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive, rl.KeySix, rl.KeySeven}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	for i, s := range shapes.All() {
		if i < len(shapeKeys) && rl.IsKeyPressed(shapeKeys[i]) {
			g.pending.Shape, g.pending.ShapeChosen = s, true
		}
	}

	if rl.IsKeyPressed(rl.KeyC) {
		g.pending.ToggleSource = true
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.pending.ResetTension = true
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.scene.Scatter()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	g.handleCameraInput()
}

// handleCameraInput orbits the camera on left-drag outside the controls panel.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.dragging = !g.controls.Contains(int32(rl.GetScreenWidth()), mouse.X, mouse.Y)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging {
		delta := rl.GetMouseDelta()
		g.camera.Orbit(float64(delta.X), float64(delta.Y))
	}
}
