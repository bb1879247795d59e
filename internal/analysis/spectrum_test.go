package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vmath"
)

func TestResampleLinear(t *testing.T) {
	times := []float64{0, 1, 3, 4}
	values := []float64{0, 2, 6, 8}

	out, dt, err := Resample(times, values, 8)
	if err != nil {
		t.Fatal(err)
	}
	if dt != 0.5 {
		t.Errorf("dt = %v, want 0.5", dt)
	}
	for i, v := range out {
		if want := 2 * float64(i) * dt; math.Abs(v-want) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestResampleErrors(t *testing.T) {
	tests := []struct {
		name   string
		times  []float64
		values []float64
		n      int
	}{
		{"length mismatch", []float64{0, 1}, []float64{0}, 8},
		{"one sample", []float64{0}, []float64{0}, 8},
		{"too few points", []float64{0, 1}, []float64{0, 1}, 2},
		{"zero span", []float64{1, 1}, []float64{0, 1}, 8},
		{"unsorted", []float64{0, 2, 1}, []float64{0, 1, 2}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Resample(tt.times, tt.values, tt.n); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDominantPeriodUneven(t *testing.T) {
	// uneven spacing, as an adaptive run records it
	var times, values []float64
	for tm := 0.0; tm < 100; tm += 0.05 + 0.1*math.Abs(math.Sin(tm)) {
		times = append(times, tm)
		values = append(values, 3+math.Sin(2*math.Pi*tm/10))
	}
	times = append(times, 100)
	values = append(values, 3)

	period, err := DominantPeriod(times, values)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(period-10) > 1e-9 {
		t.Errorf("period = %v, want 10", period)
	}
}

func TestDominantPeriodConstant(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	values := []float64{5, 5, 5, 5, 5, 5, 5, 5}
	if _, err := DominantPeriod(times, values); !errors.Is(err, ErrNoPeriod) {
		t.Errorf("expected ErrNoPeriod, got %v", err)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{10, 12, 10, 8, 10, 12, 10, 8})
	if len(ps) != 5 {
		t.Fatalf("expected 5 coefficients, got %d", len(ps))
	}
	if ps[0] > 1e-12 {
		t.Errorf("mean not removed: %v", ps[0])
	}
	if math.Abs(ps[2]-8) > 1e-12 {
		t.Errorf("ps[2] = %v, want 8", ps[2])
	}
}

func TestRelative(t *testing.T) {
	samples := []sim.Sample{
		{Positions: []vmath.Vector{{X: 1, Y: 1}, {X: 4, Y: -1}}},
		{Positions: []vmath.Vector{{X: 2, Y: 0}, {X: 2, Y: 5}}},
	}
	xs := Relative(samples, 0, 1, AxisX)
	ys := Relative(samples, 0, 1, AxisY)
	if xs[0] != 3 || xs[1] != 0 || ys[0] != -2 || ys[1] != 5 {
		t.Errorf("xs=%v ys=%v", xs, ys)
	}
}
