package shapes

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// heartScanSteps is the resolution of the numeric scan over the heart curve.
const heartScanSteps = 1 << 16

// cube returns the box [-h, h]^3.
func cube(h float64) r3.Box {
	return r3.Box{Min: r3.Vec{X: -h, Y: -h, Z: -h}, Max: r3.Vec{X: h, Y: h, Z: h}}
}

var heartEnvelope = sync.OnceValue(func() r3.Box {
	minY, maxY := math.Inf(1), math.Inf(-1)
	var maxX float64
	for i := 0; i <= heartScanSteps; i++ {
		x, y := heartCurve(2 * math.Pi * float64(i) / heartScanSteps)
		maxX = math.Max(maxX, math.Abs(x))
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	// The scan can miss the true extremum by a sliver between samples.
	const pad = 1e-3
	hx := maxX*heartScale + pad
	return r3.Box{
		Min: r3.Vec{X: -hx, Y: minY*heartScale - pad, Z: -hx * 0.5},
		Max: r3.Vec{X: hx, Y: maxY*heartScale + pad, Z: hx * 0.5},
	}
})

// Envelope returns an axis-aligned box containing every point the shape's
// distribution can produce. Unknown shapes return an empty box.
func Envelope(shape Shape) r3.Box {
	switch shape {
	case Sphere:
		return cube(2.2)
	case Heart:
		return heartEnvelope()
	case Flower:
		return cube(3)
	case Saturn:
		return r3.Box{
			Min: r3.Vec{X: -SaturnRingOuter, Y: -SaturnSphereRadius, Z: -SaturnRingOuter},
			Max: r3.Vec{X: SaturnRingOuter, Y: SaturnSphereRadius, Z: SaturnRingOuter},
		}
	case Buddha:
		return r3.Box{
			Min: r3.Vec{X: -2.25, Y: -1.8, Z: -2.25},
			Max: r3.Vec{X: 2.25, Y: 2.4, Z: 2.25},
		}
	case Spiral:
		r := 0.2 * spiralTurns
		return r3.Box{Min: r3.Vec{X: -r, Y: -1, Z: -r}, Max: r3.Vec{X: r, Y: 1, Z: r}}
	case Firework:
		return cube(4)
	}
	return r3.Box{}
}

// ScaleBox scales a box about the origin by f (f >= 0).
func ScaleBox(b r3.Box, f float64) r3.Box {
	return r3.Box{Min: r3.Scale(f, b.Min), Max: r3.Scale(f, b.Max)}
}

// Contains reports whether p lies inside b, widened by tol on every side.
func Contains(b r3.Box, p r3.Vec, tol float64) bool {
	return p.X >= b.Min.X-tol && p.X <= b.Max.X+tol &&
		p.Y >= b.Min.Y-tol && p.Y <= b.Max.Y+tol &&
		p.Z >= b.Min.Z-tol && p.Z <= b.Max.Z+tol
}

// Radius returns the distance from the origin to the farthest corner of b.
func Radius(b r3.Box) float64 {
	return math.Max(r3.Norm(b.Min), r3.Norm(b.Max))
}
