package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gravsim/internal/sim"
)

// minSamples is the shortest signal a spectrum is computed for.
const minSamples = 4

var (
	ErrTooShort = errors.New("analysis: signal too short")
	ErrNoPeriod = errors.New("analysis: no periodic component")
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Relative returns the coordinate of body j relative to body i for every
// sample.
func Relative(samples []sim.Sample, i, j int, axis Axis) []float64 {
	out := make([]float64, len(samples))
	for k, s := range samples {
		d := r2.Sub(s.Positions[j], s.Positions[i])
		if axis == AxisX {
			out[k] = d.X
		} else {
			out[k] = d.Y
		}
	}
	return out
}

// Resample linearly interpolates values taken at increasing times onto n
// points spaced dt apart starting at times[0], with n·dt spanning the whole
// signal.
func Resample(times, values []float64, n int) (out []float64, dt float64, err error) {
	if len(times) != len(values) {
		return nil, 0, fmt.Errorf("analysis: %d times for %d values", len(times), len(values))
	}
	if len(times) < 2 || n < minSamples {
		return nil, 0, ErrTooShort
	}
	if !sort.Float64sAreSorted(times) {
		return nil, 0, fmt.Errorf("analysis: times are not increasing")
	}
	span := times[len(times)-1] - times[0]
	if !(span > 0) {
		return nil, 0, ErrTooShort
	}

	dt = span / float64(n)
	out = make([]float64, n)
	k := 0
	for i := range out {
		t := times[0] + float64(i)*dt
		for k < len(times)-2 && times[k+1] < t {
			k++
		}
		t0, t1 := times[k], times[k+1]
		if t1 == t0 {
			out[i] = values[k]
			continue
		}
		w := (t - t0) / (t1 - t0)
		out[i] = values[k] + w*(values[k+1]-values[k])
	}
	return out, dt, nil
}

// PowerSpectrum returns the magnitude of the Fourier coefficients of data
// with its mean removed, for frequencies 0 through n/2 cycles per sample.
func PowerSpectrum(data []float64) []float64 {
	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	coeff := fft.FFTReal(centered)
	ps := make([]float64, len(data)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeff[i])
	}
	return ps
}

// DominantPeriod resamples the signal onto len(times) uniform points and
// returns the period of its strongest non-constant frequency.
func DominantPeriod(times, values []float64) (float64, error) {
	n := len(times)
	data, dt, err := Resample(times, values, n)
	if err != nil {
		return 0, err
	}

	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, ErrTooShort
	}
	peak := 1 + floats.MaxIdx(ps[1:])
	if ps[peak] == 0 {
		return 0, ErrNoPeriod
	}

	// bin k completes k cycles over the n·dt resampled span
	return float64(n) * dt / float64(peak), nil
}
