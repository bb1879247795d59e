package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0, H: 20, Energy: -7.6e28, Positions: []vmath.Vector{{X: 0, Y: 0}, {X: 0, Y: 3.85e8}}},
			{Time: 20, H: 20, Energy: -7.600000000001e28, Positions: []vmath.Vector{{X: 1e-3, Y: 2e-3}, {X: 20440, Y: 3.8499999e8}}},
		},
		StepsTaken:  1,
		Time:        20,
		Final:       universe.EarthMoon(),
		EnergyDrift: 1.3e-13,
		Metrics: map[string]float64{
			"energy_drift": 1.5,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := testResult()
	runID, err := st.Save(RunMetadata{Universe: "earth-moon", Stepper: "rkn45", Seed: 42, H: 20, Duration: 20}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Universe != "earth-moon" || meta.Stepper != "rkn45" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Metrics["energy_drift"] != 1.5 {
		t.Errorf("expected metric 1.5, got %f", meta.Metrics["energy_drift"])
	}
	if meta.Bodies != 2 || !reflect.DeepEqual(meta.Masses, result.Final.Masses) {
		t.Errorf("bodies %d masses %v", meta.Bodies, meta.Masses)
	}
	if meta.StepsTaken != 1 || meta.EndTime != 20 || meta.EnergyDrift != 1.3e-13 {
		t.Errorf("run summary not recorded: %+v", meta)
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if !reflect.DeepEqual(samples, result.Samples) {
		t.Errorf("trajectory round trip lost precision:\n got %+v\nwant %+v", samples, result.Samples)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Universe: "random", Stepper: "rk4"}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Universe: "earth-moon", Stepper: "rkn67"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		t.Fatalf("trajectory.csv not created: %v", err)
	}
	header := "time,h,energy,x0,y0,x1,y1\n"
	if !bytes.HasPrefix(data, []byte(header)) {
		t.Errorf("unexpected header in %q", data)
	}
}

func TestLoadTrajectoryCorrupt(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data string
	}{
		{"odd position columns", "time,h,energy,x0\n0,1,2,3\n"},
		{"not a number", "time,h,energy,x0,y0\n0,1,abc,3,4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(filepath.Join(runDir, "trajectory.csv"), []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := st.LoadTrajectory("bad"); !errors.Is(err, ErrCorruptTrajectory) {
				t.Errorf("expected ErrCorruptTrajectory, got %v", err)
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	result := testResult()
	meta := RunMetadata{Universe: "earth-moon", Stepper: "rkn45", StepsTaken: 1, Masses: []float64{1, 2}}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExportData(meta, result.Samples)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Stepper != "rkn45" || got.Steps != 1 {
		t.Errorf("unexpected export header %+v", got)
	}
	if !reflect.DeepEqual(got.Times, []float64{0, 20}) {
		t.Errorf("times %v", got.Times)
	}
	if got.Positions[1][1].X != 20440 {
		t.Errorf("positions not exported: %v", got.Positions)
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, NewExportData(meta, result.Samples)); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
