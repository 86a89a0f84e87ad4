package main

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tensionfield/shapes"
	"github.com/pthm-cable/tensionfield/telemetry"
)

// ShapeRow summarises one generated point set.
type ShapeRow struct {
	Shape       string  `csv:"shape"`
	Run         int     `csv:"run"`
	Count       int     `csv:"count"`
	CentroidX   float64 `csv:"centroid_x"`
	CentroidY   float64 `csv:"centroid_y"`
	CentroidZ   float64 `csv:"centroid_z"`
	MeanRadius  float64 `csv:"mean_radius"`
	Spread      float64 `csv:"spread"`
	MaxRadius   float64 `csv:"max_radius"`
	MinX        float64 `csv:"min_x"`
	MaxX        float64 `csv:"max_x"`
	MinY        float64 `csv:"min_y"`
	MaxY        float64 `csv:"max_y"`
	MinZ        float64 `csv:"min_z"`
	MaxZ        float64 `csv:"max_z"`
	EnvelopeFit float64 `csv:"envelope_fit"`
}

// measureShape generates runs point sets of count points and summarises each.
func measureShape(rng *rand.Rand, shape shapes.Shape, count, runs int) ([]ShapeRow, error) {
	rows := make([]ShapeRow, 0, runs)
	var scratch telemetry.CloudScratch
	xs := make([]float64, count)
	ys := make([]float64, count)
	zs := make([]float64, count)

	for run := range runs {
		points, err := shapes.GenerateRand(rng, count, shape)
		if err != nil {
			return nil, err
		}

		// Live == targets at scale 1: fit is the share inside the envelope
		cs := telemetry.ComputeCloudStats(points, points, 1, shape, &scratch)
		splitAxes(points, xs, ys, zs)

		rows = append(rows, ShapeRow{
			Shape:       shape.String(),
			Run:         run,
			Count:       count,
			CentroidX:   cs.Centroid.X,
			CentroidY:   cs.Centroid.Y,
			CentroidZ:   cs.Centroid.Z,
			MeanRadius:  cs.MeanRadius,
			Spread:      cs.Spread,
			MaxRadius:   cs.MaxRadius,
			MinX:        floats.Min(xs),
			MaxX:        floats.Max(xs),
			MinY:        floats.Min(ys),
			MaxY:        floats.Max(ys),
			MinZ:        floats.Min(zs),
			MaxZ:        floats.Max(zs),
			EnvelopeFit: cs.EnvelopeFit,
		})
	}
	return rows, nil
}

func splitAxes(points []r3.Vec, xs, ys, zs []float64) {
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
}
