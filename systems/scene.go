// Package systems provides the ECS systems that drive the particle cloud.
package systems

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tensionfield/components"
	"github.com/pthm-cable/tensionfield/field"
	"github.com/pthm-cable/tensionfield/shapes"
	"github.com/pthm-cable/tensionfield/signal"
)

// SceneOptions configures a new Scene.
type SceneOptions struct {
	Count     int
	Field     field.Options
	Smoothing float64 // fraction of the gap closed per frame
	Snap      float64
	Shape     shapes.Shape
	Color     components.Color
	PointSize float32
}

// Scene holds the cloud entity and the state its systems act on.
//
// The tension cell is the only part shared with other goroutines; everything
// else belongs to the goroutine calling the Update methods.
type Scene struct {
	world *ecs.World
	cloud ecs.Entity

	cloudMap *ecs.Map4[
		components.Morph,
		components.Appearance,
		components.Spin,
		components.Tension,
	]
	cloudFilter *ecs.Filter4[
		components.Morph,
		components.Appearance,
		components.Spin,
		components.Tension,
	]

	morphMap      *ecs.Map1[components.Morph]
	appearanceMap *ecs.Map1[components.Appearance]
	spinMap       *ecs.Map1[components.Spin]
	tensionMap    *ecs.Map1[components.Tension]

	rng      *rand.Rand
	field    *field.Field
	cell     *signal.Cell
	smoother *signal.Smoother
}

// NewScene creates the cloud entity and sets its first target shape.
func NewScene(rng *rand.Rand, opts SceneOptions) (*Scene, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("creating scene: %w", shapes.ErrInvalidCount)
	}
	world := ecs.NewWorld()

	s := &Scene{
		world: world,
		cloudMap: ecs.NewMap4[
			components.Morph,
			components.Appearance,
			components.Spin,
			components.Tension,
		](world),
		cloudFilter: ecs.NewFilter4[
			components.Morph,
			components.Appearance,
			components.Spin,
			components.Tension,
		](world),
		morphMap:      ecs.NewMap1[components.Morph](world),
		appearanceMap: ecs.NewMap1[components.Appearance](world),
		spinMap:       ecs.NewMap1[components.Spin](world),
		tensionMap:    ecs.NewMap1[components.Tension](world),

		rng:      rng,
		field:    field.New(opts.Count, rng, opts.Field),
		cell:     &signal.Cell{},
		smoother: signal.NewSmoother(opts.Smoothing, opts.Snap),
	}

	morph := components.Morph{Shape: opts.Shape}
	look := components.Appearance{Color: opts.Color, PointSize: opts.PointSize}
	spin := components.Spin{}
	tension := components.Tension{}
	s.cloud = s.cloudMap.NewEntity(&morph, &look, &spin, &tension)

	if err := s.SetShape(opts.Shape); err != nil {
		s.field.Close()
		return nil, err
	}
	return s, nil
}

// Cell returns the raw tension cell sources write into.
func (s *Scene) Cell() *signal.Cell { return s.cell }

// Field returns the particle field.
func (s *Scene) Field() *field.Field { return s.field }

// SetShape generates a fresh target set for shape and swaps it in.
// Live positions are untouched, so particles flow from wherever they are.
func (s *Scene) SetShape(shape shapes.Shape) error {
	targets, err := shapes.GenerateRand(s.rng, s.field.Len(), shape)
	if err != nil {
		return fmt.Errorf("setting shape: %w", err)
	}
	if err := s.field.SetTargets(targets); err != nil {
		return fmt.Errorf("setting shape: %w", err)
	}

	morph := s.morphMap.Get(s.cloud)
	morph.Shape = shape
	morph.Generation++
	slog.Debug("shape changed", "shape", shape, "generation", morph.Generation)
	return nil
}

// SetColor changes the cloud colour.
func (s *Scene) SetColor(c components.Color) {
	s.appearanceMap.Get(s.cloud).Color = c
}

// ResetTension zeroes the raw and smoothed tension.
func (s *Scene) ResetTension() {
	s.cell.Reset()
	s.smoother.Reset()
	*s.tensionMap.Get(s.cloud) = components.Tension{}
}

// UpdateTension samples the raw cell and advances the smoother by one frame.
func (s *Scene) UpdateTension() (raw, smoothed float64) {
	raw = s.cell.Load()
	smoothed = s.smoother.Advance(raw)

	t := s.tensionMap.Get(s.cloud)
	t.Raw = raw
	t.Smoothed = smoothed
	return raw, smoothed
}

// UpdateMorph steps the field using the smoothed tension of the cloud.
func (s *Scene) UpdateMorph(dt float64) {
	query := s.cloudFilter.Query()
	for query.Next() {
		_, _, spin, tension := query.Get()
		s.field.Step(dt, tension.Smoothed)
		spin.Angle = s.field.Angle()
	}
}

// Scatter throws the live particles back into the starting cube and zeroes the
// spin. The cloud then reassembles into the current shape.
func (s *Scene) Scatter() {
	s.field.Reset()
	s.spinMap.Get(s.cloud).Angle = 0
}

// View is a read-only copy of the cloud's components.
type View struct {
	Shape      shapes.Shape
	Generation uint32
	Color      components.Color
	PointSize  float32
	Angle      float64
	Raw        float64
	Smoothed   float64
}

// View returns the current state of the cloud.
func (s *Scene) View() View {
	var v View
	query := s.cloudFilter.Query()
	for query.Next() {
		morph, look, spin, tension := query.Get()
		v = View{
			Shape:      morph.Shape,
			Generation: morph.Generation,
			Color:      look.Color,
			PointSize:  look.PointSize,
			Angle:      spin.Angle,
			Raw:        tension.Raw,
			Smoothed:   tension.Smoothed,
		}
	}
	return v
}

// Close stops the field's workers.
func (s *Scene) Close() {
	s.field.Close()
}
