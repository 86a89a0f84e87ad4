package main

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tensionfield/field"
	"github.com/pthm-cable/tensionfield/shapes"
)

// FitSpec describes the convergence a lerp rate should achieve.
type FitSpec struct {
	Shape     shapes.Shape
	Count     int
	Frames    int     // frames allowed to converge
	FPS       float64 // frame rate the frames are played at
	Remaining float64 // target fraction of the starting distance left after Frames
	MaxEvals  int
}

// FitResult is the outcome of a lerp rate fit.
type FitResult struct {
	LerpRate  float64
	Remaining float64 // achieved remaining fraction
	Evals     int
}

// remainingAfter runs a relaxed field from its initial scatter toward shape and
// returns the mean remaining distance as a fraction of the starting distance.
func remainingAfter(seed int64, spec FitSpec, targets []r3.Vec, rate float64) float64 {
	opts := field.DefaultOptions()
	opts.LerpRate = rate
	f := field.New(spec.Count, rand.New(rand.NewSource(seed)), opts)
	defer f.Close()
	if err := f.SetTargets(targets); err != nil {
		return math.Inf(1)
	}

	start := meanDistance(f.Positions(nil), targets)
	if start == 0 {
		return 0
	}
	dt := 1 / spec.FPS
	for range spec.Frames {
		f.Step(dt, 0)
	}
	return meanDistance(f.Positions(nil), targets) / start
}

func meanDistance(live, targets []r3.Vec) float64 {
	var sum float64
	for i := range live {
		sum += r3.Norm(r3.Sub(live[i], targets[i]))
	}
	return sum / float64(len(live))
}

// fitLerpRate finds the lerp rate that leaves spec.Remaining of the starting
// distance after spec.Frames frames. The rate is searched in log space so it
// stays positive.
func fitLerpRate(seed int64, spec FitSpec) (FitResult, error) {
	if spec.Frames <= 0 || spec.FPS <= 0 || spec.Remaining <= 0 || spec.Remaining >= 1 {
		return FitResult{}, fmt.Errorf("invalid fit spec: frames=%d fps=%v remaining=%v", spec.Frames, spec.FPS, spec.Remaining)
	}
	targets, err := shapes.GenerateRand(rand.New(rand.NewSource(seed)), spec.Count, spec.Shape)
	if err != nil {
		return FitResult{}, err
	}

	logTarget := math.Log(spec.Remaining)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			r := remainingAfter(seed, spec, targets, math.Exp(x[0]))
			if r <= 0 {
				r = 1e-300
			}
			d := math.Log(r) - logTarget
			return d * d
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: spec.MaxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 20,
		},
	}

	initX := []float64{math.Log(field.DefaultOptions().LerpRate)}
	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil && result == nil {
		return FitResult{}, fmt.Errorf("fitting lerp rate: %w", err)
	}

	rate := math.Exp(result.X[0])
	return FitResult{
		LerpRate:  rate,
		Remaining: remainingAfter(seed, spec, targets, rate),
		Evals:     result.Stats.FuncEvaluations,
	}, nil
}
