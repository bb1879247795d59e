package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/render"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

const secondsPerDay = 86400

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(headerStyle.Render(fmt.Sprintf("running %s with %s (%d bodies)", cfg.Universe, cfg.Stepper, exp.Universe().N())))
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("run stopped early: "+runErr.Error()))
	}

	runID, err := st.Save(storage.RunMetadata{
		Universe: cfg.Universe,
		Stepper:  cfg.Stepper,
		Seed:     cfg.Seed,
		H:        cfg.H,
		Duration: cfg.Duration,
		Adaptive: cfg.Adaptive,
	}, result)
	if err != nil {
		return err
	}

	mean, std := result.StepStats()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "completed in\t%v\n", elapsed)
	fmt.Fprintf(w, "run id\t%s\n", runID)
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	fmt.Fprintf(w, "simulated\t%.3f days\n", result.Time/secondsPerDay)
	fmt.Fprintf(w, "step size\t%.4g ± %.4g s\n", mean, std)
	fmt.Fprintf(w, "energy drift\t%.3e\n", result.EnergyDrift)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6e\n", name, result.Metrics[name])
	}

	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUNIVERSE\tTIME\tBODIES\tSTEPPER\tSTEPS\tDAYS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%.2f\t%.2e\n",
			run.ID,
			run.Universe,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Stepper,
			run.StepsTaken,
			run.EndTime/secondsPerDay,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("stepper: %s\n", meta.Stepper)
	fmt.Printf("samples: %d\n\n", len(samples))

	e0 := samples[0].Energy
	energyErr := make([]float64, len(samples))
	steps := make([]float64, len(samples))
	for i, s := range samples {
		if e0 != 0 {
			energyErr[i] = (s.Energy - e0) / math.Abs(e0)
		}
		steps[i] = s.H
	}

	fmt.Println(asciigraph.Plot(energyErr,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("relative energy error"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(steps,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("step size (s)"),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = runID + "." + format
	}

	switch format {
	case "json":
		if err := storage.ExportJSON(path, storage.NewExportData(*meta, samples)); err != nil {
			return err
		}
	case "svg":
		v := render.DefaultViewport()
		if viewScale > 0 {
			v.XScale, v.YScale = viewScale, viewScale
		}
		svg, err := export.TrajectoriesToSVG(samples, meta.Masses, v)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s (json, svg)", format)
	}

	fmt.Printf("exported %s to %s\n", runID, path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 || body < 1 || body >= len(samples[0].Positions) {
		return fmt.Errorf("body %d out of range", body)
	}

	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d over %.2f days\n\n", len(samples), times[len(times)-1]/secondsPerDay)
	for _, axis := range []struct {
		name string
		axis analysis.Axis
	}{{"x", analysis.AxisX}, {"y", analysis.AxisY}} {
		period, err := analysis.DominantPeriod(times, analysis.Relative(samples, 0, body, axis.axis))
		if err != nil {
			fmt.Printf("  %s: %v\n", axis.name, err)
			continue
		}
		fmt.Printf("  %s: dominant period %.4f days\n", axis.name, period/secondsPerDay)
	}
	return nil
}

// benchStepper times a fixed number of steps on a random universe and
// reports the simulated time and the relative energy error.
func benchStepper(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Universe = experiment.UniverseRandom
	cfg.Bodies = benchBodies
	cfg.Stepper = benchName
	cfg.H = benchH
	cfg.Seed = benchSeed
	cfg.Duration = 0
	cfg.MaxSteps = iters
	cfg.Adaptive = true

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	u := exp.Universe().Clone()
	field := exp.Field()
	e0, err := field.TotalEnergy(u)
	if err != nil {
		return err
	}

	s := exp.Simulator()
	timePassed, step := 0.0, cfg.H
	start := time.Now()
	for i := 0; i < iters; i++ {
		next, err := s.Advance(u, step, cfg.Adaptive)
		if err != nil {
			return &sim.SimulationError{Step: i, Time: timePassed, H: step, Wrapped: err}
		}
		timePassed += step
		step = next
	}
	realTime := time.Since(start).Seconds()

	e1, err := field.TotalEnergy(u)
	if err != nil {
		return err
	}
	relErr := (e1 - e0) / e0

	fmt.Printf("Simulated %f days in %f real seconds (error %E)\n", timePassed/secondsPerDay, realTime, relErr)
	fmt.Printf("Average %f simulated seconds per second (@%f iters/sec).\n", timePassed/realTime, float64(iters)/realTime)
	return nil
}

func compareSteppers(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("comparing steppers on %s (h=%g, duration=%.2f days)", base.Universe, base.H, base.Duration/secondsPerDay)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tSTEPS\tMEAN H\tENERGY DRIFT\tMOMENTUM DRIFT\tTIME")

	for _, name := range names {
		cfg := *base
		cfg.Stepper = name

		exp, err := experiment.New(&cfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			var simErr *sim.SimulationError
			if !errors.As(err, &simErr) {
				return err
			}
			fmt.Fprintf(w, "%s\tfailed at step %d: %v\n", name, simErr.Step, simErr.Wrapped)
			continue
		}

		mean, _ := result.StepStats()
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.2e\t%.2e\t%.2fms\n",
			name, result.StepsTaken, mean, result.EnergyDrift, result.Metrics["momentum_drift"],
			float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(exp.Simulator(), exp.Field(), exp.Universe().Clone(), viz.Options{
		Name:          cfg.Universe + " / " + cfg.Stepper,
		H:             cfg.H,
		Adaptive:      cfg.Adaptive,
		StepsPerFrame: stepsPerFrame,
		Scale:         viewScale,
		Theme:         theme,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tUNIVERSE\tBODIES\tSTEPPER\tH\tDAYS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%g\t%.1f\n", name, p.Universe, p.Bodies, p.Stepper, p.H, p.Duration/secondsPerDay)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
