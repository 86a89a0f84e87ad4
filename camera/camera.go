// Package camera provides an orbit camera looking at the particle cloud.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orbits a fixed target at a fixed distance.
// Mouse drags change azimuth and elevation; zoom and pan are not offered.
type Camera struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Azimuth is the angle about the vertical axis, 0 = looking down -Z
	Azimuth float64

	// Elevation is the angle above the horizontal plane
	Elevation float64

	// Distance from Target
	Distance float64

	// FOV is the vertical field of view in degrees
	FOV float64

	// Sensitivity is radians of orbit per pixel of drag
	Sensitivity float64

	// Elevation constraints keep the camera off the poles
	MinElevation, MaxElevation float64
}

// New creates a camera on the +Z axis looking at the origin.
func New(distance, fov, sensitivity float64) *Camera {
	return &Camera{
		Distance:     distance,
		FOV:          fov,
		Sensitivity:  sensitivity,
		MinElevation: -1.4,
		MaxElevation: 1.4,
	}
}

// Position returns the camera position in world coordinates.
func (c *Camera) Position() r3.Vec {
	cosEl := math.Cos(c.Elevation)
	offset := r3.Vec{
		X: c.Distance * cosEl * math.Sin(c.Azimuth),
		Y: c.Distance * math.Sin(c.Elevation),
		Z: c.Distance * cosEl * math.Cos(c.Azimuth),
	}
	return r3.Add(c.Target, offset)
}

// Orbit rotates the camera by a mouse drag of (dx, dy) pixels.
// Dragging right swings the camera left around the target, like grabbing the scene.
func (c *Camera) Orbit(dx, dy float64) {
	c.Azimuth = wrapAngle(c.Azimuth - dx*c.Sensitivity)
	c.Elevation = clamp(c.Elevation+dy*c.Sensitivity, c.MinElevation, c.MaxElevation)
}

// Reset returns the camera to its starting angles.
func (c *Camera) Reset() {
	c.Azimuth = 0
	c.Elevation = 0
}

// Visible reports whether a sphere of the given radius around Target fits
// entirely within the vertical field of view.
func (c *Camera) Visible(radius float64) bool {
	half := c.FOV / 2 * math.Pi / 180
	return radius <= c.Distance*math.Sin(half)
}

// wrapAngle wraps a to [-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
