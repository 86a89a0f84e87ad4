// Package renderer draws the particle cloud and its backdrop with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tensionfield/camera"
	"github.com/pthm-cable/tensionfield/components"
	"github.com/pthm-cable/tensionfield/field"
)

// CloudRenderer draws live particles as small additive-blended cubes.
type CloudRenderer struct {
	positions []r3.Vec // reused spin-applied copy of the live buffer
}

// NewCloudRenderer creates a new cloud renderer.
func NewCloudRenderer() *CloudRenderer {
	return &CloudRenderer{}
}

// Draw renders the field in the active 3D mode. Overlapping points brighten.
func (r *CloudRenderer) Draw(f *field.Field, color components.Color, size float32) {
	r.positions = f.Rotated(r.positions)

	c := ToColor(color)
	rl.BeginBlendMode(rl.BlendAdditive)
	for _, p := range r.positions {
		rl.DrawCube(ToVector3(p), size, size, size, c)
	}
	rl.EndBlendMode()
}

// Camera3D converts the orbit camera to a raylib camera.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   ToVector3(cam.Position()),
		Target:     ToVector3(cam.Target),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(cam.FOV),
		Projection: rl.CameraPerspective,
	}
}

// ToVector3 converts a gonum vector to a raylib vector.
func ToVector3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// ToColor converts a component colour to a raylib colour.
func ToColor(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
