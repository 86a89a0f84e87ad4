// Package shapes samples the target point sets the particle cloud morphs toward.
//
// Each shape is a probability distribution over 3D space. Generating a shape
// draws every point independently, so two calls with the same arguments agree
// in aggregate (extent, centroid, count) but not point-for-point.
package shapes

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Shape identifies one of the target geometries.
type Shape uint8

const (
	Sphere Shape = iota
	Heart
	Flower
	Saturn
	Buddha
	Spiral
	Firework

	numShapes
)

var shapeNames = [numShapes]string{
	Sphere:   "Sphere",
	Heart:    "Heart",
	Flower:   "Flower",
	Saturn:   "Saturn",
	Buddha:   "Buddha",
	Spiral:   "Spiral",
	Firework: "Firework",
}

var (
	// ErrUnknownShape is returned for shape identifiers outside the known set.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrInvalidCount is returned for non-positive point counts.
	ErrInvalidCount = errors.New("point count must be positive")
)

// String returns the display name of the shape.
func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// Valid reports whether s is one of the known shapes.
func (s Shape) Valid() bool {
	return s < numShapes
}

// All returns every shape in display order.
func All() []Shape {
	out := make([]Shape, numShapes)
	for i := range out {
		out[i] = Shape(i)
	}
	return out
}

// ParseShape looks up a shape by name (case-insensitive).
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// sampler draws a single point from a shape's distribution.
type sampler func(rng *rand.Rand) r3.Vec

var samplers = [numShapes]sampler{
	Sphere:   sampleSphere,
	Heart:    sampleHeart,
	Flower:   sampleFlower,
	Saturn:   sampleSaturn,
	Buddha:   sampleBuddha,
	Spiral:   sampleSpiral,
	Firework: sampleFirework,
}

// Generate returns count points sampled from the shape's distribution.
// It seeds a private generator per call and is safe for concurrent use.
func Generate(count int, shape Shape) ([]r3.Vec, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return GenerateRand(rng, count, shape)
}

// GenerateRand is Generate with a caller-supplied random source.
func GenerateRand(rng *rand.Rand, count int, shape Shape) ([]r3.Vec, error) {
	if count <= 0 {
		return nil, fmt.Errorf("generating %v: %w (got %d)", shape, ErrInvalidCount, count)
	}
	if !shape.Valid() {
		return nil, fmt.Errorf("generating %d points: %w: %v", count, ErrUnknownShape, shape)
	}

	sample := samplers[shape]
	points := make([]r3.Vec, count)
	for i := range points {
		points[i] = sample(rng)
	}
	return points, nil
}

// MustGenerate is like Generate but panics on invalid arguments.
func MustGenerate(count int, shape Shape) []r3.Vec {
	points, err := Generate(count, shape)
	if err != nil {
		panic(fmt.Sprintf("shapes: %v", err))
	}
	return points
}

// onSphere returns a point uniformly distributed on a sphere of radius r.
// Latitude is drawn through acos so the poles are not oversampled.
func onSphere(rng *rand.Rand, r float64) r3.Vec {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(rng.Float64()*2 - 1)
	return r3.Vec{
		X: r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Sin(phi) * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}

func sampleSphere(rng *rand.Rand) r3.Vec {
	return onSphere(rng, 2+rng.Float64()*0.2)
}

const heartScale = 0.15

// heartCurve evaluates the planar heart outline at parameter u (unscaled).
func heartCurve(u float64) (x, y float64) {
	s := math.Sin(u)
	x = 16 * s * s * s
	y = 13*math.Cos(u) - 5*math.Cos(2*u) - 2*math.Cos(3*u) - math.Cos(4*u)
	return x, y
}

func sampleHeart(rng *rand.Rand) r3.Vec {
	u := rng.Float64() * 2 * math.Pi
	v := rng.Float64() * math.Pi
	x, y := heartCurve(u)
	z := x * math.Cos(v) * 0.5
	return r3.Scale(heartScale, r3.Vec{X: x, Y: y, Z: z})
}

func sampleFlower(rng *rand.Rand) r3.Vec {
	u := rng.Float64() * 2 * math.Pi
	v := rng.Float64() * math.Pi
	r := 2 + math.Sin(5*u)*math.Sin(5*v)
	return r3.Vec{
		X: r * math.Sin(v) * math.Cos(u),
		Y: r * math.Sin(v) * math.Sin(u),
		Z: r * math.Cos(v),
	}
}

// Saturn mixture parameters.
const (
	SaturnSphereRadius = 1.5
	SaturnRingInner    = 3.0
	SaturnRingOuter    = 4.5
	SaturnRingHalf     = 0.05
	saturnRingWeight   = 0.4
)

func sampleSaturn(rng *rand.Rand) r3.Vec {
	if rng.Float64() >= saturnRingWeight {
		return onSphere(rng, SaturnSphereRadius)
	}
	theta := rng.Float64() * 2 * math.Pi
	r := SaturnRingInner + rng.Float64()*(SaturnRingOuter-SaturnRingInner)
	return r3.Vec{
		X: r * math.Cos(theta),
		Y: (rng.Float64() - 0.5) * 2 * SaturnRingHalf,
		Z: r * math.Sin(theta),
	}
}

const spiralTurns = 10 * math.Pi

func sampleSpiral(rng *rand.Rand) r3.Vec {
	a := rng.Float64() * spiralTurns
	r := 0.2 * a
	return r3.Vec{
		X: r * math.Cos(a),
		Y: (rng.Float64() - 0.5) * 2,
		Z: r * math.Sin(a),
	}
}

func sampleFirework(rng *rand.Rand) r3.Vec {
	return onSphere(rng, rng.Float64()*4)
}

// buddhaPart is one ellipsoid shell of the seated figure.
type buddhaPart struct {
	weight float64 // cumulative selection threshold
	radius float64
	scale  r3.Vec
	offset r3.Vec
}

var buddhaParts = [...]buddhaPart{
	{weight: 0.3, radius: 0.6, scale: r3.Vec{X: 1, Y: 1, Z: 1}, offset: r3.Vec{Y: 1.8}},        // head
	{weight: 0.8, radius: 1.1, scale: r3.Vec{X: 1.2, Y: 1.0, Z: 0.8}},                           // torso
	{weight: 1.0, radius: 1.5, scale: r3.Vec{X: 1.5, Y: 0.4, Z: 1.5}, offset: r3.Vec{Y: -1.2}}, // base
}

func sampleBuddha(rng *rand.Rand) r3.Vec {
	pick := rng.Float64()
	part := buddhaParts[len(buddhaParts)-1]
	for _, p := range buddhaParts {
		if pick < p.weight {
			part = p
			break
		}
	}
	p := onSphere(rng, part.radius)
	return r3.Add(r3.Vec{
		X: p.X * part.scale.X,
		Y: p.Y * part.scale.Y,
		Z: p.Z * part.scale.Z,
	}, part.offset)
}
