// Package field simulates the live particle cloud that morphs toward a target
// point set under the control of the tension signal.
package field

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tensionfield/signal"
)

// ErrTargetLength is returned when a target set does not match the particle count.
var ErrTargetLength = errors.New("target set length does not match particle count")

// Up is the axis the cloud spins about.
var Up = r3.Vec{Y: 1}

// Options holds the morph parameters.
type Options struct {
	LerpRate      float64 // exponential smoothing rate per second
	Compression   float64 // scale = 1 - tension*Compression
	Jitter        float64 // noise amplitude = tension*Jitter
	SpinRate      float64 // radians per second about Up
	InitialSpread float64 // side of the cube live points are scattered in at birth

	// ParallelThreshold is the particle count at which Step fans out to the
	// worker pool. Zero keeps stepping on the calling goroutine.
	ParallelThreshold int
	Workers           int // 0 = GOMAXPROCS
}

// DefaultOptions returns the stock morph parameters.
func DefaultOptions() Options {
	return Options{
		LerpRate:      3,
		Compression:   0.8,
		Jitter:        0.1,
		SpinRate:      0.1,
		InitialSpread: 10,
	}
}

// Field owns the live particle buffer.
//
// Step must be called from a single goroutine. SetTargets may be called from
// any goroutine: target sets are immutable snapshots swapped atomically, so a
// tick never observes a partially replaced set.
type Field struct {
	opts Options
	rng  *rand.Rand

	// front holds the current positions; Step writes into back and swaps.
	front, back []r3.Vec

	targets atomic.Pointer[[]r3.Vec]
	angle   float64

	pool *workerPool
}

// New creates a field of count particles scattered uniformly in a cube
// centred on the origin. Negative counts are treated as zero.
func New(count int, rng *rand.Rand, opts Options) *Field {
	if count < 0 {
		count = 0
	}
	f := &Field{
		opts:  opts,
		rng:   rng,
		front: make([]r3.Vec, count),
		back:  make([]r3.Vec, count),
	}
	f.scatter()
	if opts.ParallelThreshold > 0 && count >= opts.ParallelThreshold {
		f.pool = newWorkerPool(opts.Workers, rng)
	}
	return f
}

func (f *Field) scatter() {
	s := f.opts.InitialSpread
	for i := range f.front {
		f.front[i] = r3.Vec{
			X: (f.rng.Float64() - 0.5) * s,
			Y: (f.rng.Float64() - 0.5) * s,
			Z: (f.rng.Float64() - 0.5) * s,
		}
	}
	copy(f.back, f.front)
}

// Len returns the particle count.
func (f *Field) Len() int { return len(f.front) }

// Options returns the morph parameters the field was built with.
func (f *Field) Options() Options { return f.opts }

// SetTargets replaces the target set wholesale. Live positions are left
// untouched, so the cloud morphs continuously toward the new shape.
func (f *Field) SetTargets(points []r3.Vec) error {
	if len(points) != len(f.front) {
		return fmt.Errorf("%w: got %d, want %d", ErrTargetLength, len(points), len(f.front))
	}
	snapshot := make([]r3.Vec, len(points))
	copy(snapshot, points)
	f.targets.Store(&snapshot)
	return nil
}

// Targets returns the current target snapshot, or nil before the first
// SetTargets. The slice is shared and must not be modified.
func (f *Field) Targets() []r3.Vec {
	if p := f.targets.Load(); p != nil {
		return *p
	}
	return nil
}

// stepParams are the per-tick constants derived from tension and dt.
type stepParams struct {
	scale float64
	noise float64
	alpha float64
}

// Params returns the scale, noise amplitude and smoothing fraction a tick of
// length dt at the given tension would use.
func (f *Field) Params(dt, tension float64) (scale, noise, alpha float64) {
	p := f.params(dt, tension)
	return p.scale, p.noise, p.alpha
}

func (f *Field) params(dt, tension float64) stepParams {
	tension = signal.Clamp(tension)
	return stepParams{
		scale: 1 - tension*f.opts.Compression,
		noise: tension * f.opts.Jitter,
		alpha: math.Min(1, f.opts.LerpRate*dt),
	}
}

// Step advances the simulation by dt seconds at the given tension.
// Tension outside [0,1] is clamped.
func (f *Field) Step(dt, tension float64) {
	n := len(f.front)
	if dt <= 0 || n == 0 {
		return
	}
	f.angle = math.Mod(f.angle+f.opts.SpinRate*dt, 2*math.Pi)

	tp := f.targets.Load()
	if tp == nil {
		return
	}
	targets := *tp
	p := f.params(dt, tension)

	if f.pool != nil {
		f.pool.run(f, targets, p)
	} else {
		f.stepRange(0, n, targets, p, f.rng)
	}
	f.front, f.back = f.back, f.front
}

// stepRange moves particles [start, end) from front into back.
func (f *Field) stepRange(start, end int, targets []r3.Vec, p stepParams, rng *rand.Rand) {
	for i := start; i < end; i++ {
		desired := r3.Scale(p.scale, targets[i])
		if p.noise > 0 {
			desired.X += (rng.Float64() - 0.5) * p.noise
			desired.Y += (rng.Float64() - 0.5) * p.noise
			desired.Z += (rng.Float64() - 0.5) * p.noise
		}
		live := f.front[i]
		f.back[i] = r3.Add(live, r3.Scale(p.alpha, r3.Sub(desired, live)))
	}
}

// Angle returns the current spin about Up in radians, in [0, 2π).
func (f *Field) Angle() float64 { return f.angle }

// Positions copies the live positions into dst (grown as needed) and returns it.
func (f *Field) Positions(dst []r3.Vec) []r3.Vec {
	dst = grow(dst, len(f.front))
	copy(dst, f.front)
	return dst
}

// Rotated is like Positions but with the spin applied, ready for display.
func (f *Field) Rotated(dst []r3.Vec) []r3.Vec {
	dst = grow(dst, len(f.front))
	rot := r3.NewRotation(f.angle, Up)
	for i, p := range f.front {
		dst[i] = rot.Rotate(p)
	}
	return dst
}

// Reset scatters the live particles again and zeroes the spin.
// Targets are kept.
func (f *Field) Reset() {
	f.scatter()
	f.angle = 0
}

// Close stops the worker pool, if any. The field keeps working serially.
func (f *Field) Close() {
	if f.pool != nil {
		f.pool.stop()
		f.pool = nil
	}
}

func grow(dst []r3.Vec, n int) []r3.Vec {
	if cap(dst) < n {
		return make([]r3.Vec, n)
	}
	return dst[:n]
}
