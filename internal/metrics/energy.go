package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/universe"
)

// EnergyDrift tracks |E(t) - E(0)| / |E(0)| and reports its maximum. An
// observation whose energy cannot be computed counts as infinite drift; the
// first computable energy becomes E(0).
type EnergyDrift struct {
	name    string
	field   *gravity.Field
	initial float64
	seeded  bool
	drifts  []float64
}

func NewEnergyDrift(field *gravity.Field) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		field: field,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(u *universe.Universe, t float64) {
	energy, err := e.field.TotalEnergy(u)
	if err != nil {
		e.drifts = append(e.drifts, math.Inf(1))
		return
	}
	if !e.seeded {
		e.initial = energy
		e.seeded = true
	}
	drift := 0.0
	if e.initial != 0 {
		drift = math.Abs(energy-e.initial) / math.Abs(e.initial)
	}
	e.drifts = append(e.drifts, drift)
}

func (e *EnergyDrift) Value() float64 {
	if len(e.drifts) == 0 {
		return 0
	}
	return floats.Max(e.drifts)
}

// History returns the relative drift after every observation.
func (e *EnergyDrift) History() []float64 {
	return e.drifts
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.seeded = false
	e.drifts = e.drifts[:0]
}
