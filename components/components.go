// Package components defines ECS components for the particle cloud scene.
package components

import "github.com/pthm-cable/tensionfield/shapes"

// Morph records which shape the cloud is morphing toward.
type Morph struct {
	Shape shapes.Shape
	// Generation increments on every shape change; systems compare it with
	// the generation they last applied to detect a pending swap.
	Generation uint32
}

// Appearance holds the cosmetic display settings of a cloud.
type Appearance struct {
	Color     Color
	PointSize float32
}

// Spin is the rigid rotation of the cloud about the vertical axis (radians).
// Applied at render time, never baked into particle positions.
type Spin struct {
	Angle float64
}

// Tension holds both readings of the control signal as of the last update.
type Tension struct {
	Raw      float64 // latest value pushed by the source, clamped
	Smoothed float64 // value consumed by the simulation
}
