package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/tensionfield/shapes"
)

// CloudStats summarises the live particle positions at one instant.
type CloudStats struct {
	Centroid    r3.Vec
	MeanRadius  float64 // mean distance from the centroid
	Spread      float64 // standard deviation of the distance from the centroid
	MaxRadius   float64
	TargetError float64 // mean distance from each particle to its scaled target
	EnvelopeFit float64 // fraction of particles inside the scaled shape envelope
}

// CloudScratch holds reusable buffers for ComputeCloudStats.
type CloudScratch struct {
	xs, ys, zs, radii, errs []float64
}

func (s *CloudScratch) reset(n int) {
	grow := func(b []float64) []float64 {
		if cap(b) < n {
			return make([]float64, n)
		}
		return b[:n]
	}
	s.xs, s.ys, s.zs = grow(s.xs), grow(s.ys), grow(s.zs)
	s.radii, s.errs = grow(s.radii), grow(s.errs)
}

// ComputeCloudStats measures how well the live positions match the targets
// scaled by scale. targets may be nil (no shape yet), leaving TargetError and
// EnvelopeFit at zero. scratch may be nil.
func ComputeCloudStats(live, targets []r3.Vec, scale float64, shape shapes.Shape, scratch *CloudScratch) CloudStats {
	n := len(live)
	if n == 0 {
		return CloudStats{}
	}
	if scratch == nil {
		scratch = &CloudScratch{}
	}
	scratch.reset(n)

	for i, p := range live {
		scratch.xs[i], scratch.ys[i], scratch.zs[i] = p.X, p.Y, p.Z
	}
	c := r3.Vec{
		X: stat.Mean(scratch.xs, nil),
		Y: stat.Mean(scratch.ys, nil),
		Z: stat.Mean(scratch.zs, nil),
	}
	for i, p := range live {
		scratch.radii[i] = r3.Norm(r3.Sub(p, c))
	}
	mean, std := stat.MeanStdDev(scratch.radii, nil)

	out := CloudStats{
		Centroid:   c,
		MeanRadius: mean,
		Spread:     std,
		MaxRadius:  floats.Max(scratch.radii),
	}

	if len(targets) != n {
		return out
	}
	env := shapes.ScaleBox(shapes.Envelope(shape), scale)
	inside := 0
	for i, p := range live {
		scratch.errs[i] = r3.Norm(r3.Sub(p, r3.Scale(scale, targets[i])))
		if shapes.Contains(env, p, 0) {
			inside++
		}
	}
	out.TargetError = floats.Sum(scratch.errs) / float64(n)
	out.EnvelopeFit = float64(inside) / float64(n)
	return out
}
