package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
)

var (
	dataDir     string
	configFile  string
	preset      string
	universeArg string
	numBodies   int
	stepperName string
	h           float64
	duration    float64
	maxSteps    int
	adaptive    bool
	seed        uint64
	sampleEvery int
	tolerance   float64
	// bench
	iters       int
	benchBodies int
	benchName   string
	benchH      float64
	benchSeed   uint64
	// live
	stepsPerFrame int
	viewScale     float64
	theme         string
	// export
	format  string
	outPath string
	// analyze
	body int
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4757"))
)

// main registers the gravsim commands and executes the root command.
// It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "2D N-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy error and step sizes of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json, svg)")
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default <run_id>.<format>)")
	exportCmd.Flags().Float64Var(&viewScale, "scale", 0, "svg half-width in meters (default 2e9)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the orbital period of a body from its trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&body, "body", 1, "body whose orbit around body 0 is analyzed")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark a stepper on a random universe",
		Args:  cobra.NoArgs,
		RunE:  benchStepper,
	}
	benchCmd.Flags().IntVar(&iters, "iters", 100000, "number of steps")
	benchCmd.Flags().IntVar(&benchBodies, "bodies", 20, "number of bodies")
	benchCmd.Flags().StringVar(&benchName, "stepper", config.DefaultStepper, "stepper")
	benchCmd.Flags().Float64Var(&benchH, "h", config.DefaultH, "initial step size in seconds")
	benchCmd.Flags().Uint64Var(&benchSeed, "seed", config.DefaultSeed, "random seed")

	compareCmd := &cobra.Command{
		Use:   "compare [stepper]...",
		Short: "compare steppers on the same universe (default all)",
		RunE:  compareSteppers,
	}
	addRunFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 50, "steps per frame")
	liveCmd.Flags().Float64Var(&viewScale, "scale", 0, "view half-width in meters (default 2e9)")
	liveCmd.Flags().StringVar(&theme, "theme", "night", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addRunFlags(configCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, benchCmd, compareCmd, liveCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&universeArg, "universe", config.DefaultUniverse, "universe (earth-moon, random)")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (random)")
	cmd.Flags().StringVar(&stepperName, "stepper", config.DefaultStepper, "stepper")
	cmd.Flags().Float64Var(&h, "h", config.DefaultH, "initial step size in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step limit (0 for none)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", true, "let adaptive steppers choose the step size")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every nth step")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "adaptive error tolerance")
}

// resolveConfig builds the run configuration: a preset or the config file
// (with NBODY_* overrides) first, then any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	} else {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("universe") {
		cfg.Universe = universeArg
	}
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if flags.Changed("stepper") {
		cfg.Stepper = stepperName
	}
	if flags.Changed("h") {
		cfg.H = h
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("tolerance") {
		cfg.Control.Tolerance = tolerance
	}
	return cfg, cfg.Validate()
}
