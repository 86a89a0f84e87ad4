package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Star is a single backdrop point.
type Star struct {
	Pos   rl.Vector3
	Color rl.Color
}

// Starfield draws a static shell of faint stars around the scene.
type Starfield struct {
	stars      []Star
	background rl.Color
}

// NewStarfield scatters count stars in a spherical shell starting at radius
// and depth deep.
func NewStarfield(rng *rand.Rand, count int, radius, depth float64, background rl.Color) *Starfield {
	stars := make([]Star, count)
	for i := range stars {
		r := radius + depth*rng.Float64()
		theta := math.Acos(1 - 2*rng.Float64())
		phi := 2 * math.Pi * rng.Float64()
		sinT := math.Sin(theta)

		// Fainter further out
		shade := uint8(255 * (1 - 0.6*(r-radius)/math.Max(depth, 1e-9)))
		stars[i] = Star{
			Pos: rl.Vector3{
				X: float32(r * sinT * math.Cos(phi)),
				Y: float32(r * math.Cos(theta)),
				Z: float32(r * sinT * math.Sin(phi)),
			},
			Color: rl.Color{R: shade, G: shade, B: shade, A: 255},
		}
	}
	return &Starfield{stars: stars, background: background}
}

// Clear fills the frame with the background colour.
func (s *Starfield) Clear() {
	rl.ClearBackground(s.background)
}

// Draw renders the stars in the active 3D mode.
func (s *Starfield) Draw() {
	for i := range s.stars {
		rl.DrawPoint3D(s.stars[i].Pos, s.stars[i].Color)
	}
}
