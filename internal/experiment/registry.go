package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
)

// Universe names understood by the registry.
const (
	UniverseEarthMoon = "earth-moon"
	UniverseRandom    = "random"
)

var (
	ErrUnknownStepper  = errors.New("experiment: unknown stepper")
	ErrUnknownUniverse = errors.New("experiment: unknown universe")
)

// UniverseSpec parameterizes universe construction.
type UniverseSpec struct {
	Bodies  int
	Seed    uint64
	Sampler universe.Sampler
}

type Registry struct {
	steppers  map[string]func(*gravity.Field, integrators.StepControl) integrators.Stepper
	universes map[string]func(UniverseSpec) (*universe.Universe, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		steppers:  make(map[string]func(*gravity.Field, integrators.StepControl) integrators.Stepper),
		universes: make(map[string]func(UniverseSpec) (*universe.Universe, error)),
	}

	r.steppers[integrators.NameEuler] = func(f *gravity.Field, _ integrators.StepControl) integrators.Stepper {
		return integrators.NewEuler(f)
	}
	r.steppers[integrators.NameRK4] = func(f *gravity.Field, _ integrators.StepControl) integrators.Stepper {
		return integrators.NewRK4(f)
	}
	r.steppers[integrators.NameRKN45] = func(f *gravity.Field, c integrators.StepControl) integrators.Stepper {
		s := integrators.NewRKN45(f)
		s.Control = c
		return s
	}
	r.steppers[integrators.NameNystrom45] = func(f *gravity.Field, c integrators.StepControl) integrators.Stepper {
		// the builtin tableau always validates
		s, _ := integrators.NewNystrom(f, integrators.RKN45Tableau())
		s.Control = c
		return s
	}
	r.steppers[integrators.NameRKN67] = func(f *gravity.Field, c integrators.StepControl) integrators.Stepper {
		s := integrators.NewRKN67(f)
		s.Control = c
		return s
	}

	r.universes[UniverseEarthMoon] = func(UniverseSpec) (*universe.Universe, error) {
		return universe.EarthMoon(), nil
	}
	r.universes[UniverseRandom] = func(spec UniverseSpec) (*universe.Universe, error) {
		return spec.Sampler.Sample(spec.Bodies, spec.Seed)
	}

	return r
}

// GetStepper builds the named stepper over field. Adaptive steppers use
// control; fixed-step steppers ignore it.
func (r *Registry) GetStepper(name string, field *gravity.Field, control integrators.StepControl) (integrators.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStepper, name)
	}
	return fn(field, control), nil
}

func (r *Registry) GetUniverse(name string, spec UniverseSpec) (*universe.Universe, error) {
	fn, ok := r.universes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUniverse, name)
	}
	return fn(spec)
}

// ListSteppers returns the stepper names, lowest order first.
func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.steppers))
	for _, name := range integrators.Names() {
		if _, ok := r.steppers[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (r *Registry) ListUniverses() []string {
	names := make([]string, 0, len(r.universes))
	for name := range r.universes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the conserved-quantity metrics every run reports.
func (r *Registry) DefaultMetrics(field *gravity.Field) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(field),
		metrics.NewMomentumDrift(field),
		metrics.NewAngularMomentumDrift(field),
		metrics.NewCenterDrift(field),
	}
}
