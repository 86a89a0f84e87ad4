package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scene at window end
	Shape     string `csv:"shape"`
	Color     string `csv:"color"`
	Connected bool   `csv:"connected"`

	// Events during window
	Readings     int `csv:"readings"`
	ShapeChanges int `csv:"shape_changes"`

	// Tension distribution (sampled every frame)
	RawMean      float64 `csv:"raw_mean"`
	SmoothedMean float64 `csv:"smoothed_mean"`
	SmoothedP10  float64 `csv:"smoothed_p10"`
	SmoothedP50  float64 `csv:"smoothed_p50"`
	SmoothedP90  float64 `csv:"smoothed_p90"`
	// Largest frame-to-frame change of the smoothed value
	MaxStep float64 `csv:"max_step"`

	// Cloud geometry (sampled at window end)
	CentroidX   float64 `csv:"centroid_x"`
	CentroidY   float64 `csv:"centroid_y"`
	CentroidZ   float64 `csv:"centroid_z"`
	MeanRadius  float64 `csv:"mean_radius"`
	Spread      float64 `csv:"spread"`
	MaxRadius   float64 `csv:"max_radius"`
	TargetError float64 `csv:"target_error"`
	EnvelopeFit float64 `csv:"envelope_fit"`
}

// TensionSummary is the distribution of one window of tension samples.
type TensionSummary struct {
	Mean          float64
	P10, P50, P90 float64
}

// SummarizeTension returns the mean and deciles of values, or zeros when
// there are none. values is sorted in place.
func SummarizeTension(values []float64) TensionSummary {
	if len(values) == 0 {
		return TensionSummary{}
	}
	slices.Sort(values)
	return TensionSummary{
		Mean: stat.Mean(values, nil),
		P10:  stat.Quantile(0.1, stat.LinInterp, values, nil),
		P50:  stat.Quantile(0.5, stat.LinInterp, values, nil),
		P90:  stat.Quantile(0.9, stat.LinInterp, values, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("shape", s.Shape),
		slog.String("color", s.Color),
		slog.Bool("connected", s.Connected),
		slog.Int("readings", s.Readings),
		slog.Int("shape_changes", s.ShapeChanges),
		slog.Float64("raw_mean", s.RawMean),
		slog.Float64("smoothed_mean", s.SmoothedMean),
		slog.Float64("smoothed_p10", s.SmoothedP10),
		slog.Float64("smoothed_p50", s.SmoothedP50),
		slog.Float64("smoothed_p90", s.SmoothedP90),
		slog.Float64("max_step", s.MaxStep),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("centroid_z", s.CentroidZ),
		slog.Float64("mean_radius", s.MeanRadius),
		slog.Float64("spread", s.Spread),
		slog.Float64("max_radius", s.MaxRadius),
		slog.Float64("target_error", s.TargetError),
		slog.Float64("envelope_fit", s.EnvelopeFit),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"shape", s.Shape,
		"connected", s.Connected,
		"readings", s.Readings,
		"shape_changes", s.ShapeChanges,
		"raw_mean", s.RawMean,
		"smoothed_mean", s.SmoothedMean,
		"smoothed_p50", s.SmoothedP50,
		"max_step", s.MaxStep,
		"mean_radius", s.MeanRadius,
		"spread", s.Spread,
		"target_error", s.TargetError,
		"envelope_fit", s.EnvelopeFit,
	)
}
