package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNew(t *testing.T) {
	cam := New(8, 45, 0.005)

	// Should sit on +Z looking at the origin
	pos := cam.Position()
	if math.Abs(pos.X) > 1e-12 || math.Abs(pos.Y) > 1e-12 || math.Abs(pos.Z-8) > 1e-12 {
		t.Errorf("expected camera at (0, 0, 8), got %v", pos)
	}
}

func TestPositionKeepsDistance(t *testing.T) {
	cam := New(8, 45, 0.005)

	testCases := []struct{ dx, dy float64 }{
		{100, 0},
		{0, 100},
		{-250, 40},
		{1000, -1000},
	}

	for _, tc := range testCases {
		cam.Orbit(tc.dx, tc.dy)
		d := r3.Norm(r3.Sub(cam.Position(), cam.Target))
		if math.Abs(d-8) > 1e-9 {
			t.Errorf("after orbit (%v,%v) distance = %v, want 8", tc.dx, tc.dy, d)
		}
	}
}

func TestOrbitDirection(t *testing.T) {
	cam := New(8, 45, 0.01)

	// Dragging right swings the camera toward -X
	cam.Orbit(10, 0)
	if pos := cam.Position(); pos.X >= 0 {
		t.Errorf("expected camera on -X side after right drag, got %v", pos)
	}

	// Dragging down raises the camera
	cam.Reset()
	cam.Orbit(0, 10)
	if pos := cam.Position(); pos.Y <= 0 {
		t.Errorf("expected camera above the plane after down drag, got %v", pos)
	}
}

func TestElevationClamp(t *testing.T) {
	cam := New(8, 45, 0.01)

	cam.Orbit(0, 1e6)
	if cam.Elevation != cam.MaxElevation {
		t.Errorf("expected elevation clamped to %v, got %v", cam.MaxElevation, cam.Elevation)
	}

	cam.Orbit(0, -1e6)
	if cam.Elevation != cam.MinElevation {
		t.Errorf("expected elevation clamped to %v, got %v", cam.MinElevation, cam.Elevation)
	}
}

func TestAzimuthWraps(t *testing.T) {
	cam := New(8, 45, 0.01)

	cam.Orbit(-1000, 0) // 10 radians
	if cam.Azimuth < -math.Pi || cam.Azimuth > math.Pi {
		t.Errorf("azimuth %v not wrapped to [-pi, pi]", cam.Azimuth)
	}
	want := wrapAngle(10)
	if math.Abs(cam.Azimuth-want) > 1e-9 {
		t.Errorf("azimuth = %v, want %v", cam.Azimuth, want)
	}
}

func TestVisible(t *testing.T) {
	cam := New(8, 45, 0.005)

	// 8 * sin(22.5°) ≈ 3.06
	if !cam.Visible(3) {
		t.Error("radius 3 should fit at distance 8")
	}
	if cam.Visible(4.5) {
		t.Error("radius 4.5 should not fit at distance 8")
	}
}

func TestReset(t *testing.T) {
	cam := New(8, 45, 0.01)
	cam.Orbit(123, 45)

	cam.Reset()

	if cam.Azimuth != 0 || cam.Elevation != 0 {
		t.Errorf("expected angles (0, 0), got (%v, %v)", cam.Azimuth, cam.Elevation)
	}
}
