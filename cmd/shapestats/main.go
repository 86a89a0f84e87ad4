// Command shapestats reports sample statistics for every shape distribution
// and can fit the morph lerp rate to a desired convergence time.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/tensionfield/config"
	"github.com/pthm-cable/tensionfield/shapes"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	count := flag.Int("count", 0, "Points per shape (0 = particles.count from config)")
	runs := flag.Int("runs", 5, "Independent point sets per shape")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	output := flag.String("output", "", "CSV output path (empty = stdout)")
	fit := flag.Bool("fit", false, "Fit the lerp rate instead of reporting shape statistics")
	fitShape := flag.String("fit-shape", "Heart", "Shape to converge toward when fitting")
	frames := flag.Int("frames", 120, "Frames allowed to converge when fitting")
	remaining := flag.Float64("remaining", 0.01, "Fraction of the starting distance left after -frames")
	maxEvals := flag.Int("max-evals", 200, "Maximum objective evaluations when fitting")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	n := *count
	if n <= 0 {
		n = cfg.Particles.Count
	}
	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	if *fit {
		shape, err := shapes.ParseShape(*fitShape)
		if err != nil {
			log.Fatalf("invalid -fit-shape: %v", err)
		}
		res, err := fitLerpRate(s, FitSpec{
			Shape:     shape,
			Count:     n,
			Frames:    *frames,
			FPS:       float64(cfg.Screen.TargetFPS),
			Remaining: *remaining,
			MaxEvals:  *maxEvals,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("lerp_rate: %.6f (remaining %.4f after %d frames at %d fps, %d evals)\n",
			res.LerpRate, res.Remaining, *frames, cfg.Screen.TargetFPS, res.Evals)
		return
	}

	rng := rand.New(rand.NewSource(s))
	var rows []ShapeRow
	for _, shape := range shapes.All() {
		r, err := measureShape(rng, shape, n, *runs)
		if err != nil {
			log.Fatalf("measuring %v: %v", shape, err)
		}
		rows = append(rows, r...)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create output: %v", err)
		}
		defer f.Close()
		w = f
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		log.Fatalf("writing csv: %v", err)
	}
}
