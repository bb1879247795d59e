package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// boundRadiusFactor scales the initial extent of a universe into the radius
// of its Bound metric.
const boundRadiusFactor = 10

// Experiment is one configured run: a field, a stepper wired into a
// simulator, and the initial universe.
type Experiment struct {
	cfg       *config.Config
	field     *gravity.Field
	stepper   integrators.Stepper
	simulator *sim.Simulator
	universe  *universe.Universe
}

// New builds the experiment described by cfg using the default registry.
func New(cfg *config.Config) (*Experiment, error) {
	return NewRegistry().Setup(cfg)
}

// Setup validates cfg and wires the stepper, universe and metrics it names.
func (r *Registry) Setup(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	field := gravity.New()
	stepper, err := r.GetStepper(cfg.Stepper, field, cfg.Control)
	if err != nil {
		return nil, err
	}
	u, err := r.GetUniverse(cfg.Universe, UniverseSpec{Bodies: cfg.Bodies, Seed: cfg.Seed, Sampler: cfg.Sampler})
	if err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	s := sim.New(field, stepper)
	for _, m := range r.DefaultMetrics(field) {
		s.AddMetric(m)
	}
	if radius, err := extent(field, u); err == nil && radius > 0 {
		s.AddMetric(metrics.NewBound(field, boundRadiusFactor*radius))
	}

	return &Experiment{cfg: cfg, field: field, stepper: stepper, simulator: s, universe: u}, nil
}

// extent is the largest distance of a body from the center of gravity.
func extent(field *gravity.Field, u *universe.Universe) (float64, error) {
	c, err := field.CenterOfGravity(u)
	if err != nil {
		return 0, err
	}
	r := 0.0
	for _, p := range u.Positions {
		if d := vmath.Distance(p, c); d > r {
			r = d
		}
	}
	return r, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.universe, e.SimConfig())
}

// SimConfig translates the run configuration for the driver.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		H:           e.cfg.H,
		Duration:    e.cfg.Duration,
		MaxSteps:    e.cfg.MaxSteps,
		SampleEvery: e.cfg.SampleEvery,
		Adaptive:    e.cfg.Adaptive,
	}
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Field() *gravity.Field { return e.field }

func (e *Experiment) Stepper() integrators.Stepper { return e.stepper }

// Universe returns the initial universe. Run never modifies it.
func (e *Experiment) Universe() *universe.Universe { return e.universe }

func (e *Experiment) Config() *config.Config { return e.cfg }
