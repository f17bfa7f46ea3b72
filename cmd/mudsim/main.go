package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mudsim/internal/config"
	"mudsim/internal/fluid"
	"mudsim/internal/metrics"
	"mudsim/internal/rheology"
	"mudsim/internal/sensitivity"
	"mudsim/internal/sim"
	"mudsim/internal/store"
	"mudsim/internal/viz"
)

var (
	dataDir      string
	configFile   string
	preset       string
	dt           float64
	horizon      float64
	refShearRate float64
	initialAlpha float64
	stepperName  string
	couplingName string
	gamma        float64
	noSave       bool
	// Flow curve range
	shearFrom float64
	shearTo   float64
	curveN    int
	// Sensitivity sweep
	extractorName string
	deltaFrac     float64
	// Export format
	format string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mudsim",
		Short: "smart nanoparticle drilling fluid simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mudsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a downhole activation scenario",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "compare conventional and activated flow curves",
		RunE:  flowCurves,
	}
	addScenarioFlags(curveCmd)
	curveCmd.Flags().Float64Var(&shearFrom, "from", 1, "lowest shear rate (1/s)")
	curveCmd.Flags().Float64Var(&shearTo, "to", 200, "highest shear rate (1/s)")
	curveCmd.Flags().IntVar(&curveN, "points", 60, "points per curve")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param...]",
		Short: "one-at-a-time parameter sensitivity sweep",
		Long:  "Perturbs each named parameter (default: all) and reports the finite-difference sensitivity of the chosen output.",
		RunE:  sweepParams,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&extractorName, "output", "final_yield_stress", "output to differentiate (final_yield_stress, final_viscosity, final_activation, mean_stress)")
	sweepCmd.Flags().Float64Var(&deltaFrac, "delta", 0.01, "relative perturbation size")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view of a scenario",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json or csv)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, curveCmd, sweepCmd, liveCmd, listCmd, plotCmd, exportCmd, deleteCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset (see presets command)")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&horizon, "time", config.DefaultHorizon, "horizon (s)")
	cmd.Flags().Float64Var(&refShearRate, "ref-shear", config.DefaultRefShearRate, "reference shear rate (1/s)")
	cmd.Flags().Float64Var(&initialAlpha, "alpha", 0, "initial activation fraction")
	cmd.Flags().StringVar(&stepperName, "stepper", "", "kinetics stepper (exponential or euler)")
	cmd.Flags().StringVar(&couplingName, "coupling", "", "coupling strategy (linear or power)")
	cmd.Flags().Float64Var(&gamma, "gamma", 0, "power coupling exponent")
}

// loadConfig resolves preset, config file, and flags, in that order of
// increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("ref-shear") {
		cfg.RefShearRate = refShearRate
	}
	if cmd.Flags().Changed("alpha") {
		cfg.InitialAlpha = initialAlpha
	}
	if cmd.Flags().Changed("stepper") {
		cfg.Stepper = stepperName
	}
	if cmd.Flags().Changed("coupling") {
		cfg.Coupling = couplingName
	}
	if cmd.Flags().Changed("gamma") {
		cfg.CouplingGamma = gamma
	}
	return cfg, nil
}

func openStore() (*store.Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return store.Open(filepath.Join(dataDir, "runs.db"))
}

func buildSimulator(sc sensitivity.Scenario) *sim.Simulator {
	s := sim.New(sc.Env, sc.Kinetics, sc.Stepper, sc.Coupler, sc.Base, sc.Max)
	s.AddMetric(metrics.NewMeanStress())
	s.AddMetric(metrics.NewFinalActivation())
	s.AddMetric(metrics.NewStability())
	s.AddMetric(metrics.NewFluidLoss())
	return s
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	fmt.Println("running downhole scenario...")
	start := time.Now()

	result, err := buildSimulator(sc).Run(context.Background(), sc.Config)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("frames: %d\n", len(result.Frames))

	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		runID, err := st.Save(preset, cfg.Stepper, cfg.Coupling, cfg.Dt, cfg.Horizon, cfg.RefShearRate, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	fmt.Println()
	fmt.Println(viz.AlphaSeries(result.Frames))
	fmt.Println(viz.YieldStressSeries(result.Frames))
	return nil
}

func printMetrics(vals map[string]float64) {
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, vals[name])
	}
}

func flowCurves(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	// The activated curve uses the parameter set the fluid actually
	// reaches at the end of the scenario, not the α = 1 ceiling.
	result, err := buildSimulator(sc).Run(context.Background(), sc.Config)
	if err != nil {
		return err
	}
	final := result.Final()

	cmp, err := rheology.Compare(sc.Base, final.Params, shearFrom, shearTo, curveN, cfg.RefShearRate)
	if err != nil {
		return err
	}

	fmt.Printf("final activation: %.4f\n", final.Alpha)
	fmt.Printf("yield stress: %.3f Pa -> %.3f Pa\n", sc.Base.YieldStress, final.Params.YieldStress)
	fmt.Printf("consistency: %.4f -> %.4f Pa·sⁿ\n\n", sc.Base.Consistency, final.Params.Consistency)
	fmt.Println(viz.FlowCurves(cmp))
	return nil
}

func sweepParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	extract, err := sensitivity.ExtractorByName(extractorName)
	if err != nil {
		return err
	}

	baseParams := sc.Params()
	names := args
	if len(names) == 0 {
		for name := range baseParams {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	perturbations := make([]sensitivity.Perturbation, 0, len(names))
	for _, name := range names {
		value, ok := baseParams[name]
		if !ok {
			return fmt.Errorf("%w: unknown parameter %q", fluid.ErrInvalidParameter, name)
		}
		delta := value * deltaFrac
		if delta == 0 {
			delta = deltaFrac
		}
		perturbations = append(perturbations, sensitivity.Perturbation{Param: name, Delta: delta})
	}

	fmt.Printf("sweeping %d parameters against %s...\n", len(perturbations), extract.Name)
	report, err := sensitivity.Run(context.Background(), sc, perturbations, extract)
	if err != nil {
		return err
	}

	fmt.Printf("baseline %s: %.6f\n\n", report.Extractor, report.BaselineOutput)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tDELTA\tOUTPUT\tSENSITIVITY")
	for _, name := range names {
		s := report.Scores[name]
		if s.Err != nil {
			fmt.Fprintf(w, "%s\t%.6g\terror: %v\t\n", s.Param, s.Delta, s.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.6f\t%.6f\n", s.Param, s.Delta, s.Output, s.Sensitivity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Printf("\n%d of %d perturbations failed\n", len(failed), len(perturbations))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	model := viz.NewModel(sc.Env, sc.Kinetics, sc.Stepper, sc.Coupler, sc.Base, sc.Max,
		cfg.Dt, cfg.RefShearRate, cfg.InitialAlpha)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tPRESET\tHORIZON\tDT\tSTEPPER\tCOUPLING\tSTABILITY")
	for _, run := range runs {
		presetName := run.Preset
		if presetName == "" {
			presetName = "-"
		}
		stability := "-"
		if v, ok := run.Metrics["stability"]; ok {
			stability = fmt.Sprintf("%.1f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%.2fs\t%s\t%s\t%s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			presetName,
			run.Horizon,
			run.Dt,
			run.Stepper,
			run.Coupling,
			stability,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("created: %s\n", meta.CreatedAt.Format(time.RFC3339))
	fmt.Printf("frames: %d\n\n", len(frames))

	fmt.Println(viz.AlphaSeries(frames))
	fmt.Println(viz.YieldStressSeries(frames))
	fmt.Println(viz.TimeSeries("temperature (°C)", frames, func(f fluid.Frame) float64 { return f.Cond.Temperature }, 8))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return store.ExportJSON(os.Stdout, meta, frames)
	case "csv":
		return store.ExportCSV(os.Stdout, frames)
	default:
		return fmt.Errorf("unknown format: %s (json or csv)", format)
	}
}
