package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/catchsim/internal/config"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/logging"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	preset     string
	runKey     string
	workers    int
	skipExist  bool
	count      int
	legacy     bool
	columns    []string
	grid       []string
	costName   string
	saveBest   bool

	// flagScenario receives the scenario flags; only Changed ones are applied.
	flagScenario = config.DefaultConfig().ToScenario()

	log = zap.NewNop()
)

// scenarioFlags maps command line flags onto scenario parameter names.
var scenarioFlags = []struct{ flag, param string }{
	{"dt", "dt"},
	{"time", "duration"},
	{"angle", "angle"},
	{"ball-x", "ball_x"},
	{"ball-y", "ball_y0"},
	{"train-x", "train_x0"},
	{"kp", "kp"},
	{"ki", "ki"},
	{"kd", "kd"},
	{"mass", "mass"},
	{"gravity", "gravity"},
	{"friction", "friction"},
}

func main() {
	err := newRootCmd().Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags whose default differs between
// commands (seed, width, height, output) are read from each command's own
// flag set instead of a shared variable.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "catchsim",
		Short:         "train catches a falling ball on an inclined track",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.NewFormat(logFormat, logLevel)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".catchsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one scenario and store it",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&runKey, "key", "", "run key (derived from the scenario if empty)")
	runCmd.Flags().Int64("seed", 0, "seed recorded with the run")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every scenario of a yaml batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addScenarioFlags(batchCmd)
	addRunnerFlags(batchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [suite]",
		Short: "run a generated scenario suite (random, angles, grid)",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	addRunnerFlags(sweepCmd)
	sweepCmd.Flags().Int64("seed", 1, "random seed")
	sweepCmd.Flags().IntVar(&count, "n", 50, "number of random scenarios")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search controller gains",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"kp=0:100:10", "kd=0:60:10"}, "param=from:to:step or param=v1,v2,...")
	tuneCmd.Flags().StringVar(&costName, "cost", "catch", "cost function (catch, tracking)")
	tuneCmd.Flags().BoolVar(&saveBest, "save", false, "run and store the best scenario")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [key]",
		Short: "show the outcome and metrics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [key]",
		Short: "plot run columns against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to plot")
	addSizeFlags(plotCmd, 80, 12)

	importCmd := &cobra.Command{
		Use:   "import [csv...]",
		Short: "import existing datasets named by scenario key",
		Args:  cobra.MinimumNArgs(1),
		RunE:  importRuns,
	}
	addScenarioFlags(importCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [key]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&legacy, "legacy", false, "write the 4-column schema")
	exportCSVCmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [key]",
		Short: "export run metadata and data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [key]",
		Short: "render a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringP("output", "o", "", "output file (<key>.svg if empty)")
	addSizeFlags(exportSVGCmd, 900, 600)

	replayCmd := &cobra.Command{
		Use:   "replay [key]",
		Short: "step through a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	addSizeFlags(replayCmd, 60, 15)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				sc := config.GetPreset(name).ToScenario()
				fmt.Printf("  %-10s angle=%g ball_x=%g train_x0=%g kp=%g ki=%g kd=%g\n",
					name, sc.AngleDeg, sc.BallX, sc.TrainX0, sc.Kp, sc.Ki, sc.Kd)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, batchCmd, sweepCmd, tuneCmd, listCmd, showCmd, plotCmd,
		importCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, replayCmd, presetsCmd)
	return rootCmd
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&flagScenario.Dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&flagScenario.Duration, "time", config.DefaultDuration, "duration")
	f.Float64Var(&flagScenario.AngleDeg, "angle", config.DefaultAngle, "track angle in degrees")
	f.Float64Var(&flagScenario.BallX, "ball-x", config.DefaultBallX, "ball x position")
	f.Float64Var(&flagScenario.BallY0, "ball-y", config.DefaultBallY, "ball drop height")
	f.Float64Var(&flagScenario.TrainX0, "train-x", config.DefaultTrainX, "train start position")
	f.Float64Var(&flagScenario.Kp, "kp", config.DefaultKp, "pid kp")
	f.Float64Var(&flagScenario.Ki, "ki", config.DefaultKi, "pid ki")
	f.Float64Var(&flagScenario.Kd, "kd", config.DefaultKd, "pid kd")
	f.Float64Var(&flagScenario.Mass, "mass", config.DefaultMass, "train mass")
	f.Float64Var(&flagScenario.Gravity, "gravity", config.DefaultGravity, "gravity")
	f.Float64Var(&flagScenario.Friction, "friction", config.DefaultFriction, "friction coefficient")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

func addRunnerFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&skipExist, "skip-existing", false, "skip scenarios already stored")
}

func addSizeFlags(cmd *cobra.Command, w, h int) {
	cmd.Flags().Int("width", w, "width")
	cmd.Flags().Int("height", h, "height")
}

func sizeFlags(cmd *cobra.Command) (int, int, error) {
	w, err := cmd.Flags().GetInt("width")
	if err != nil {
		return 0, 0, err
	}
	h, err := cmd.Flags().GetInt("height")
	return w, h, err
}

// baseConfig resolves the preset, then the config file over it.
func baseConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

// resolveScenario applies changed flags over the preset or config file.
// The seed is the --seed flag when given, else the config seed, else the
// command's default.
func resolveScenario(cmd *cobra.Command) (dynamo.Scenario, int64, error) {
	cfg, err := baseConfig()
	if err != nil {
		return dynamo.Scenario{}, 0, err
	}

	seed := cfg.Seed
	if cmd.Flags().Lookup("seed") != nil && (cfg.Seed == 0 || cmd.Flags().Changed("seed")) {
		if seed, err = cmd.Flags().GetInt64("seed"); err != nil {
			return dynamo.Scenario{}, 0, err
		}
	}

	sc := cfg.ToScenario()
	flagged := flagScenario.GetParams()
	for _, f := range scenarioFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		if err := sc.SetParam(f.param, flagged[f.param]); err != nil {
			return dynamo.Scenario{}, 0, err
		}
	}
	return sc, seed, nil
}
