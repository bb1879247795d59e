package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vmath"
)

type ExportData struct {
	Universe    string             `json:"universe"`
	Stepper     string             `json:"stepper"`
	H           float64            `json:"h"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Masses      []float64          `json:"masses"`
	Times       []float64          `json:"times"`
	StepSizes   []float64          `json:"step_sizes"`
	Energies    []float64          `json:"energies"`
	Positions   [][]vmath.Vector   `json:"positions"`
	Metrics     map[string]float64 `json:"metrics"`
}

func NewExportData(meta RunMetadata, samples []sim.Sample) ExportData {
	data := ExportData{
		Universe:    meta.Universe,
		Stepper:     meta.Stepper,
		H:           meta.H,
		Duration:    meta.Duration,
		Steps:       meta.StepsTaken,
		EnergyDrift: meta.EnergyDrift,
		Masses:      meta.Masses,
		Times:       make([]float64, len(samples)),
		StepSizes:   make([]float64, len(samples)),
		Energies:    make([]float64, len(samples)),
		Positions:   make([][]vmath.Vector, len(samples)),
		Metrics:     meta.Metrics,
	}
	for i, s := range samples {
		data.Times[i] = s.Time
		data.StepSizes[i] = s.H
		data.Energies[i] = s.Energy
		data.Positions[i] = s.Positions
	}
	return data
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
