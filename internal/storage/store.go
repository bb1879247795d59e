package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vmath"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// ErrCorruptTrajectory indicates a trajectory file that cannot be decoded.
var ErrCorruptTrajectory = errors.New("storage: corrupt trajectory")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Universe    string             `json:"universe"`
	Stepper     string             `json:"stepper"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        uint64             `json:"seed"`
	Bodies      int                `json:"bodies"`
	H           float64            `json:"h"`
	Duration    float64            `json:"duration"`
	Adaptive    bool               `json:"adaptive"`
	StepsTaken  int                `json:"steps_taken"`
	EndTime     float64            `json:"end_time"`
	EnergyDrift float64            `json:"energy_drift"`
	Masses      []float64          `json:"masses"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes meta and the sampled trajectory of result under a new run
// directory and returns the run id. Fields of meta derived from result are
// filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%s_%d", meta.Universe, meta.Stepper, now.UnixNano())
	meta.Timestamp = now
	meta.StepsTaken = result.StepsTaken
	meta.EndTime = result.Time
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics
	if result.Final != nil {
		meta.Bodies = result.Final.N()
		meta.Masses = append([]float64(nil), result.Final.Masses...)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeTrajectory(csv.NewWriter(csvFile), result.Samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeTrajectory(w *csv.Writer, samples []sim.Sample) error {
	if len(samples) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time", "h", "energy"}
	for i := range samples[0].Positions {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range samples {
		row := make([]string, 0, len(header))
		row = append(row, fmtFloat(smp.Time), fmtFloat(smp.H), fmtFloat(smp.Energy))
		for _, p := range smp.Positions {
			row = append(row, fmtFloat(p.X), fmtFloat(p.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads back the samples written by Save.
func (s *Store) LoadTrajectory(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTrajectory, err)
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	cols := len(records[0])
	if cols < 3 || (cols-3)%2 != 0 {
		return nil, fmt.Errorf("%w: %d columns", ErrCorruptTrajectory, cols)
	}
	n := (cols - 3) / 2

	samples := make([]sim.Sample, 0, len(records)-1)
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptTrajectory, line+2, err)
			}
			vals[j] = v
		}

		smp := sim.Sample{Time: vals[0], H: vals[1], Energy: vals[2], Positions: make([]vmath.Vector, n)}
		for i := 0; i < n; i++ {
			smp.Positions[i] = vmath.Vector{X: vals[3+2*i], Y: vals[4+2*i]}
		}
		samples = append(samples, smp)
	}

	return samples, nil
}
