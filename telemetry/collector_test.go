package telemetry

import (
	"math"
	"testing"
)

func TestCollectorShouldFlush(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9.99) {
		t.Error("should not flush before the window elapses")
	}
	if !c.ShouldFlush(10) {
		t.Error("should flush once the window elapses")
	}

	c.Flush(600, 10, Scene{})
	if c.ShouldFlush(15) {
		t.Error("window should restart at the flush time")
	}
	if !c.ShouldFlush(20) {
		t.Error("should flush at the end of the second window")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1)

	c.RecordReadings(3)
	c.Flush(10, 1, Scene{}) // readings baseline = 3

	for _, v := range []float64{0, 0.1, 0.3, 0.6} {
		c.RecordFrame(1, v)
	}
	c.RecordShapeChange()
	c.RecordShapeChange()
	c.RecordReadings(8)

	s := c.Flush(20, 2, Scene{Shape: "Heart", Color: "#ffffff", Connected: true})

	if s.WindowStartTick != 10 || s.WindowEndTick != 20 {
		t.Errorf("window = [%d, %d], want [10, 20]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.Readings != 5 {
		t.Errorf("readings = %d, want 5", s.Readings)
	}
	if s.ShapeChanges != 2 {
		t.Errorf("shape changes = %d, want 2", s.ShapeChanges)
	}
	if s.RawMean != 1 {
		t.Errorf("raw mean = %v, want 1", s.RawMean)
	}
	if math.Abs(s.SmoothedMean-0.25) > 1e-12 {
		t.Errorf("smoothed mean = %v, want 0.25", s.SmoothedMean)
	}
	if math.Abs(s.MaxStep-0.3) > 1e-12 {
		t.Errorf("max step = %v, want 0.3", s.MaxStep)
	}
	if s.Shape != "Heart" || !s.Connected {
		t.Errorf("scene not carried into stats: %+v", s)
	}

	// Counters reset
	s = c.Flush(30, 3, Scene{})
	if s.Readings != 0 || s.ShapeChanges != 0 || s.MaxStep != 0 || s.SmoothedMean != 0 {
		t.Errorf("expected empty window after flush, got %+v", s)
	}
}

func TestCollectorMaxStepSpansWindows(t *testing.T) {
	c := NewCollector(1)
	c.RecordFrame(0, 0.5)
	c.Flush(1, 1, Scene{})

	c.RecordFrame(0, 0.6)
	s := c.Flush(2, 2, Scene{})

	// The first frame of a window still compares against the previous frame
	if math.Abs(s.MaxStep-0.1) > 1e-12 {
		t.Errorf("max step = %v, want 0.1", s.MaxStep)
	}
}
