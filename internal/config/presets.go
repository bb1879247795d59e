package config

import (
	"sort"

	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/universe"
)

// earthMoonPeriod is one orbit of the earth-moon fixture in seconds.
const earthMoonPeriod = 2350687.41

var Presets = map[string]*Config{
	"earth-moon": {
		Universe: "earth-moon", Stepper: integrators.NameRKN45, Adaptive: true,
		H: 20, Duration: earthMoonPeriod, Bodies: 2, SampleEvery: 10,
	},
	"earth-moon-rk4": {
		Universe: "earth-moon", Stepper: integrators.NameRK4,
		H: 400, Duration: earthMoonPeriod, Bodies: 2, SampleEvery: 10,
	},
	"earth-moon-euler": {
		Universe: "earth-moon", Stepper: integrators.NameEuler,
		H: 20, Duration: earthMoonPeriod, Bodies: 2, SampleEvery: 1000,
	},
	"earth-moon-rkn67": {
		Universe: "earth-moon", Stepper: integrators.NameRKN67, Adaptive: true,
		H: 20, Duration: earthMoonPeriod, Bodies: 2, SampleEvery: 10,
	},
	"random3": {
		Universe: "random", Stepper: integrators.NameRKN45, Adaptive: true,
		H: 20, Duration: 3.15e7, Bodies: 3, Seed: 1, SampleEvery: 10,
	},
	"cluster": {
		Universe: "random", Stepper: integrators.NameRKN67, Adaptive: true,
		H: 20, Duration: 3.15e7, Bodies: 16, Seed: 7, SampleEvery: 20,
	},
}

func init() {
	for _, p := range Presets {
		p.Control = integrators.DefaultControl()
		p.Sampler = universe.DefaultSampler()
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
