package telemetry

import "math"

// Collector accumulates per-frame samples within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int32
	windowStartTime float64

	// Samples for current window
	raw        []float64
	smoothed   []float64
	maxStep    float64
	lastSmooth float64
	haveLast   bool

	// Event counters for current window
	readingsAtStart uint64
	readings        uint64
	shapeChanges    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulated seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		raw:               make([]float64, 0, 1024),
		smoothed:          make([]float64, 0, 1024),
	}
}

// RecordFrame records the raw and smoothed tension used for one frame.
func (c *Collector) RecordFrame(raw, smoothed float64) {
	c.raw = append(c.raw, raw)
	c.smoothed = append(c.smoothed, smoothed)
	if c.haveLast {
		c.maxStep = math.Max(c.maxStep, math.Abs(smoothed-c.lastSmooth))
	}
	c.lastSmooth = smoothed
	c.haveLast = true
}

// RecordReadings records the source's running reading count.
func (c *Collector) RecordReadings(total uint64) {
	c.readings = total
}

// RecordShapeChange records a shape change.
func (c *Collector) RecordShapeChange() {
	c.shapeChanges++
}

// ShouldFlush returns true if enough simulated time has passed to flush the window.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec
}

// Scene describes the cloud at flush time.
type Scene struct {
	Shape     string
	Color     string
	Connected bool
	Cloud     CloudStats
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, simTime float64, scene Scene) WindowStats {
	raw := SummarizeTension(c.raw)
	smoothed := SummarizeTension(c.smoothed)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Shape:     scene.Shape,
		Color:     scene.Color,
		Connected: scene.Connected,

		Readings:     int(c.readings - c.readingsAtStart),
		ShapeChanges: c.shapeChanges,

		RawMean:      raw.Mean,
		SmoothedMean: smoothed.Mean,
		SmoothedP10:  smoothed.P10,
		SmoothedP50:  smoothed.P50,
		SmoothedP90:  smoothed.P90,
		MaxStep:      c.maxStep,

		CentroidX:   scene.Cloud.Centroid.X,
		CentroidY:   scene.Cloud.Centroid.Y,
		CentroidZ:   scene.Cloud.Centroid.Z,
		MeanRadius:  scene.Cloud.MeanRadius,
		Spread:      scene.Cloud.Spread,
		MaxRadius:   scene.Cloud.MaxRadius,
		TargetError: scene.Cloud.TargetError,
		EnvelopeFit: scene.Cloud.EnvelopeFit,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = simTime
	c.raw = c.raw[:0]
	c.smoothed = c.smoothed[:0]
	c.maxStep = 0
	c.readingsAtStart = c.readings
	c.shapeChanges = 0

	return stats
}

// WindowDuration returns the window length in simulated seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
