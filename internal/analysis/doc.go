// Package analysis extracts periodic structure from recorded trajectories.
//
// Trajectories sampled by the driver are unevenly spaced in time when an
// adaptive stepper is used, so signals are first resampled onto a uniform
// grid:
//
//	xs := analysis.Relative(samples, 0, 1, analysis.AxisX)
//	period, err := analysis.DominantPeriod(times, xs)
package analysis
