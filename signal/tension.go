// Package signal carries the tension scalar from the asynchronous analysis
// source to the render loop.
//
// The source writes raw readings into a Cell at its own cadence. The render
// loop never waits on it: once per frame it advances a Smoother toward the
// latest raw value and hands the smoothed value to the field.
package signal

import (
	"math"
	"sync/atomic"
)

// Clamp limits v to [0, 1]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 1
	}
	return v
}

// Cell holds the latest raw tension. One goroutine writes, another reads;
// the value is stored as float bits so neither side ever locks.
type Cell struct {
	bits atomic.Uint64
}

// Set stores v clamped to [0, 1]. Out-of-range readings are expected from a
// noisy source and are never rejected.
func (c *Cell) Set(v float64) {
	c.bits.Store(math.Float64bits(Clamp(v)))
}

// Load returns the latest stored value (0 before any Set).
func (c *Cell) Load() float64 {
	return math.Float64frombits(c.bits.Load())
}

// Reset stores 0.
func (c *Cell) Reset() {
	c.bits.Store(0)
}

// Smoother eases the consumed tension toward the raw value by a fixed
// fraction per animation frame.
type Smoother struct {
	// Factor is the fraction of the remaining distance covered per frame.
	Factor float64
	// Snap jumps straight to the target once the gap is smaller than this.
	Snap float64

	value float64
}

// NewSmoother returns a smoother starting at 0.
func NewSmoother(factor, snap float64) *Smoother {
	return &Smoother{Factor: factor, Snap: snap}
}

// Advance takes one frame step toward target and returns the new value.
// Target and result are both clamped to [0, 1].
func (s *Smoother) Advance(target float64) float64 {
	target = Clamp(target)
	diff := target - s.value
	if math.Abs(diff) < s.Snap {
		s.value = target
	} else {
		s.value = Clamp(s.value + diff*s.Factor)
	}
	return s.value
}

// Value returns the current smoothed tension.
func (s *Smoother) Value() float64 { return s.value }

// Reset drops the smoothed value back to 0.
func (s *Smoother) Reset() { s.value = 0 }
