package sim

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// EnergyFunc reports the total energy of a universe. *gravity.Field
// implements it.
type EnergyFunc interface {
	TotalEnergy(u *universe.Universe) (float64, error)
}

type Metric interface {
	Name() string
	Observe(u *universe.Universe, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(u *universe.Universe, t, h float64)
}

// Config controls one run. The run ends at Duration, after MaxSteps steps,
// or at whichever comes first when both are set.
type Config struct {
	H        float64
	Duration float64
	MaxSteps int
	// SampleEvery records every n-th step; zero or one records all of them.
	SampleEvery   int
	Adaptive      bool
	ValidateState bool
}

// Sample is one recorded point of a trajectory.
type Sample struct {
	Time      float64
	H         float64
	Energy    float64
	Positions []vmath.Vector
}

type Result struct {
	Samples     []Sample
	StepSizes   []float64
	StepsTaken  int
	Time        float64
	Final       *universe.Universe
	EnergyDrift float64
	Metrics     map[string]float64
}

// Times returns the sampled times.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}

// Energies returns the sampled total energies.
func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Energy
	}
	return out
}

// StepStats returns the mean and standard deviation of the step sizes taken.
func (r *Result) StepStats() (mean, std float64) {
	switch len(r.StepSizes) {
	case 0:
		return 0, 0
	case 1:
		return r.StepSizes[0], 0
	}
	return stat.MeanStdDev(r.StepSizes, nil)
}
