package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/tensionfield/signal"
)

func TestSummarizeTension(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   TensionSummary
	}{
		{"empty", nil, TensionSummary{}},
		{"held value", []float64{0.4, 0.4, 0.4}, TensionSummary{Mean: 0.4, P10: 0.4, P50: 0.4, P90: 0.4}},
		// Ten evenly spread samples: decile k lands on the k-th sample
		{"unsorted ramp", []float64{1.0, 0.3, 0.7, 0.1, 0.5, 0.9, 0.2, 0.6, 0.8, 0.4}, TensionSummary{Mean: 0.55, P10: 0.1, P50: 0.5, P90: 0.9}},
		{"relaxed with a spike", []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, TensionSummary{Mean: 0.1, P10: 0, P50: 0, P90: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeTension(tt.values)
			if math.Abs(got.Mean-tt.want.Mean) > 1e-9 ||
				math.Abs(got.P10-tt.want.P10) > 1e-9 ||
				math.Abs(got.P50-tt.want.P50) > 1e-9 ||
				math.Abs(got.P90-tt.want.P90) > 1e-9 {
				t.Errorf("SummarizeTension(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSummarizeSmoothedRise(t *testing.T) {
	// A source jumping to full tension, smoothed over two seconds of frames
	sm := signal.NewSmoother(0.1, 0.01)
	values := make([]float64, 120)
	for i := range values {
		values[i] = sm.Advance(1)
	}

	got := SummarizeTension(values)
	if !(got.P10 <= got.P50 && got.P50 <= got.P90) {
		t.Errorf("deciles out of order: %+v", got)
	}
	if got.P90 != 1 {
		t.Errorf("p90 = %v, want the snapped value 1", got.P90)
	}
	if got.Mean <= 0.5 || got.Mean >= 1 {
		t.Errorf("mean = %v, want between 0.5 and 1", got.Mean)
	}
}

func TestCollectorDeciles(t *testing.T) {
	c := NewCollector(1)
	for i := 10; i >= 1; i-- {
		c.RecordFrame(0.5, float64(i)/10)
	}
	s := c.Flush(10, 1, Scene{})

	if math.Abs(s.SmoothedP10-0.1) > 1e-9 || math.Abs(s.SmoothedP50-0.5) > 1e-9 || math.Abs(s.SmoothedP90-0.9) > 1e-9 {
		t.Errorf("deciles = %v/%v/%v, want 0.1/0.5/0.9", s.SmoothedP10, s.SmoothedP50, s.SmoothedP90)
	}
	if math.Abs(s.RawMean-0.5) > 1e-12 {
		t.Errorf("raw mean = %v, want 0.5", s.RawMean)
	}
	// Frames arrive in falling order, 0.1 apart
	if math.Abs(s.MaxStep-0.1) > 1e-9 {
		t.Errorf("max step = %v, want 0.1", s.MaxStep)
	}
}
