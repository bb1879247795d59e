package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

const endSlack = 1e-9

type Simulator struct {
	energy    EnergyFunc
	stepper   integrators.Stepper
	metrics   []Metric
	observers []Observer
}

func New(energy EnergyFunc, stepper integrators.Stepper) *Simulator {
	return &Simulator{
		energy:    energy,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Advance takes one step of size h and returns the step size to use next.
// Fixed-step steppers, or adaptive being false, return h unchanged.
func (s *Simulator) Advance(u *universe.Universe, h float64, adaptive bool) (float64, error) {
	if as, ok := s.stepper.(integrators.AdaptiveStepper); ok && adaptive {
		return as.StepAdaptive(u, h)
	}
	if err := s.stepper.Step(u, h); err != nil {
		return 0, err
	}
	return h, nil
}

// Run integrates a copy of u0 and returns the recorded trajectory. u0 is not
// modified. A failed step returns the partial result and a
// *SimulationError.
func (s *Simulator) Run(ctx context.Context, u0 *universe.Universe, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := u0.Validate(); err != nil {
		return nil, err
	}

	u := u0.Clone()
	e0, err := s.energy.TotalEnergy(u)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0),
		Final:   u,
		Metrics: make(map[string]float64),
	}
	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(u, 0)
	}
	result.Samples = append(result.Samples, sample(u, 0, cfg.H, e0))

	t := 0.0
	h := cfg.H
	for step := 0; s.more(cfg, step, t); step++ {
		select {
		case <-ctx.Done():
			s.finish(result, e0)
			return result, ctx.Err()
		default:
		}

		// the last step lands exactly on Duration, absorbing round-off in t
		hStep := h
		last := cfg.Duration > 0 && t+h*(1+endSlack) >= cfg.Duration
		if last {
			hStep = cfg.Duration - t
		}

		next, err := s.Advance(u, hStep, cfg.Adaptive)
		if err == nil && cfg.ValidateState {
			err = u.Validate()
		}
		if err != nil {
			s.finish(result, e0)
			return result, &SimulationError{Step: step, Time: t, H: hStep, Wrapped: err}
		}

		if last {
			t = cfg.Duration
		} else {
			t += hStep
		}
		h = next
		result.StepsTaken++
		result.Time = t
		result.StepSizes = append(result.StepSizes, hStep)

		for _, m := range s.metrics {
			m.Observe(u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(u, t, hStep)
		}

		if result.StepsTaken%every == 0 || !s.more(cfg, step+1, t) {
			e, err := s.energy.TotalEnergy(u)
			if err != nil {
				s.finish(result, e0)
				return result, &SimulationError{Step: step, Time: t, H: hStep, Wrapped: err}
			}
			result.Samples = append(result.Samples, sample(u, t, hStep, e))
		}
	}

	s.finish(result, e0)
	return result, nil
}

func (s *Simulator) more(cfg Config, step int, t float64) bool {
	if cfg.MaxSteps > 0 && step >= cfg.MaxSteps {
		return false
	}
	if cfg.Duration > 0 && t >= cfg.Duration {
		return false
	}
	return true
}

func (s *Simulator) finish(result *Result, e0 float64) {
	if n := len(result.Samples); n > 0 && e0 != 0 {
		last := result.Samples[n-1].Energy
		result.EnergyDrift = math.Abs(last-e0) / math.Abs(e0)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.H > 0) || !vmath.IsFinite(cfg.H) {
		return fmt.Errorf("%w: h must be positive and finite, got %g", ErrInvalidConfig, cfg.H)
	}
	if !vmath.IsFinite(cfg.Duration) || cfg.Duration < 0 {
		return fmt.Errorf("%w: duration must be finite and non-negative, got %g", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", ErrInvalidConfig, cfg.MaxSteps)
	}
	if cfg.Duration == 0 && cfg.MaxSteps == 0 {
		return fmt.Errorf("%w: need a duration or a step limit", ErrInvalidConfig)
	}
	return nil
}

func sample(u *universe.Universe, t, h, energy float64) Sample {
	p := make([]vmath.Vector, u.N())
	copy(p, u.Positions)
	return Sample{Time: t, H: h, Energy: energy, Positions: p}
}
