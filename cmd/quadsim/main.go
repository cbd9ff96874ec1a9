package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skyward-labs/quadsim/internal/analysis"
	"github.com/skyward-labs/quadsim/internal/config"
	"github.com/skyward-labs/quadsim/internal/experiment"
	"github.com/skyward-labs/quadsim/internal/export"
	"github.com/skyward-labs/quadsim/internal/optim"
	"github.com/skyward-labs/quadsim/internal/sim"
	"github.com/skyward-labs/quadsim/internal/storage"
	"github.com/skyward-labs/quadsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	model      string
	integrator string
	controller string
	trajectory string
	dt         float64
	duration   float64
	verbose    bool
	logEvery   int

	sweeps    []string
	tuneOn    string
	svgOut    string
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quadsim",
		Short: "quadrotor flight dynamics and control simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".quadsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&logEvery, "log-every", 100, "ticks between progress log lines")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "run the same scenario with different integrators",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search controller gains against a metric",
		RunE:  tuneGains,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&sweeps, "sweep", nil, "gain sweep, e.g. kp.z=4,6,8 (repeatable)")
	tuneCmd.Flags().StringVar(&tuneOn, "metric", "tracking_rms", "metric to minimize")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the x-z flight path of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default <run_id>.svg, - for stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width [px]")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height [px]")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, compareCmd, tuneCmd, analyzeCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration name")
	cmd.Flags().StringVar(&model, "model", "quadrotor", "plant model (quadrotor|planar)")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler|rk4|rk45)")
	cmd.Flags().StringVar(&controller, "controller", "cascade", "controller (cascade|altitude|none)")
	cmd.Flags().StringVar(&trajectory, "trajectory", "hover", "reference trajectory (hover|jump|circle)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
}

// buildConfig layers preset, config file, and explicit CLI flags, in
// that order of increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = model
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("trajectory") {
		cfg.Trajectory = trajectory
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}

	return cfg, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	exp.Simulator().AddObserver(sim.NewTickLogger(log, logEvery, cfg.Gains.RateMin, cfg.Gains.RateMax))

	log.Info().
		Str("model", cfg.Model).
		Str("integrator", cfg.Integrator).
		Str("controller", cfg.Controller).
		Str("trajectory", cfg.Trajectory).
		Float64("dt", cfg.Dt).
		Float64("duration", cfg.Duration).
		Msg("starting run")

	start := time.Now()
	h, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Model, cfg.Integrator, cfg.Controller, cfg.Trajectory, cfg.Dt, cfg.Duration, h)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", runID).
		Int("steps", len(h.Times)).
		Dur("elapsed", elapsed).
		Msg("run complete")

	names := make([]string, 0, len(h.Metrics))
	for name := range h.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, h.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tCTRL\tTRAJ")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Trajectory,
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
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(h.Times))

	channels := []struct {
		caption string
		value   func(i int) float64
	}{
		{"altitude z [m]", func(i int) float64 { return h.States[i].Pos.Z }},
		{"reference z [m]", func(i int) float64 { return h.Refs[i].Pos.Z }},
		{"position x [m]", func(i int) float64 { return h.States[i].Pos.X }},
		{"position y [m]", func(i int) float64 { return h.States[i].Pos.Y }},
		{"velocity z [m/s]", func(i int) float64 { return h.States[i].Vel.Z }},
		{"rotor 1 [rad/s]", func(i int) float64 { return h.Commands[i][0] }},
	}

	for _, ch := range channels {
		data := make([]float64, len(h.Times))
		for i := range data {
			data[i] = ch.value(i)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ch.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(meta.Model, meta.Integrator, meta.Controller, meta.Trajectory, meta.Dt, meta.Duration, h)
}

func tuneGains(cmd *cobra.Command, args []string) error {
	if len(sweeps) == 0 {
		return fmt.Errorf("at least one --sweep is required")
	}

	params, err := parseSweeps(sweeps)
	if err != nil {
		return err
	}
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	points := 1
	for _, p := range params {
		points *= len(p.Values)
	}
	log.Info().
		Int("grid_points", points).
		Str("metric", tuneOn).
		Float64("duration", base.Duration).
		Msg("starting grid search")

	start := time.Now()
	gains, best, err := optim.NewGridSearch(params).Search(context.Background(), base, tuneOn)
	if err != nil {
		return err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("search complete")

	names := make([]string, 0, len(gains))
	for name := range gains {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("best gains:")
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, gains[name])
	}
	fmt.Printf("%s: %.6f\n", tuneOn, best)

	return nil
}

// parseSweeps turns "kp.z=4,6,8" specs into grid axes.
func parseSweeps(specs []string) ([]optim.Param, error) {
	params := make([]optim.Param, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("bad sweep %q: want name=v1,v2,...", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("bad sweep value in %q: %w", spec, err)
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("bad sweep %q: no values", spec)
		}
		params = append(params, optim.Param{Name: name, Values: values})
	}
	return params, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	svg := export.FlightPathSVG(h, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to draw", runID)
	}

	if svgOut == "-" {
		fmt.Println(svg)
		return nil
	}
	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Times) < 4 {
		return fmt.Errorf("run %s has too few samples to analyze", runID)
	}

	fmt.Printf("run: %s (%s, dt=%.4fs, %d samples)\n\n", meta.ID, meta.Model, meta.Dt, len(h.Times))

	channels := []struct {
		name  string
		value func(i int) float64
	}{
		{"altitude z", func(i int) float64 { return h.States[i].Pos.Z }},
		{"position x", func(i int) float64 { return h.States[i].Pos.X }},
		{"position y", func(i int) float64 { return h.States[i].Pos.Y }},
		{"pitch rate", func(i int) float64 { return h.States[i].Omega.Y }},
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tPEAK_FREQ [Hz]\tPEAK_POWER")

	var altitude analysis.Spectrum
	for i, ch := range channels {
		data := make([]float64, len(h.Times))
		for j := range data {
			data[j] = ch.value(j)
		}
		s := analysis.PowerSpectrum(data, meta.Dt)
		if i == 0 {
			altitude = s
		}
		freq, power := s.Peak()
		fmt.Fprintf(w, "%s\t%.3f\t%.4f\n", ch.name, freq, power)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(altitude.Power) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(altitude.Power[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("altitude spectrum (DC removed)"),
		)
		fmt.Println(graph)
	}

	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (%s/%s, dt=%.4f, duration=%.1fs)\n\n",
		base.Model, base.Trajectory, base.Dt, base.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_Z\tTRACKING_RMS\tENERGY_DRIFT\tTIME")

	for _, name := range args {
		cfg := *base
		cfg.Integrator = name

		exp, err := experiment.New(&cfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		h, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		finalZ := 0.0
		if len(h.States) > 0 {
			finalZ = h.States[len(h.States)-1].Pos.Z
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.2e\t%v\n",
			name, finalZ, h.Metrics["tracking_rms"], h.Metrics["energy_drift"], elapsed)
	}

	return w.Flush()
}
