package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/report"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

type options struct {
	dataDir     string
	dt          float32
	steps       int
	every       int
	configFile  string
	preset      string
	validate    bool
	format      string
	save        bool
	showSummary bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command with no
// arguments performs the reference two-body run and prints every step.
func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "two-body gravity integrator",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, args []string) error { return runSimulation(cmd, opts) },
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data", ".gravsim", "data directory")
	addRunFlags(rootCmd, opts)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and print each reported step",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runSimulation(cmd, opts) },
	}
	addRunFlags(runCmd, opts)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runLive(cmd, opts) },
	}
	addConfigFlags(liveCmd, opts)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return listRuns(cmd, opts) },
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot separation and speeds of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return plotRun(cmd, opts, args[0]) },
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id]",
		Short: "show statistics of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return summarizeRun(cmd, opts, args[0]) },
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return exportCSV(cmd, opts, args[0]) },
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return exportJSON(cmd, opts, args[0]) },
	}

	var svgWidth, svgHeight int
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the x/y trajectories of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snaps, err := loadRun(opts, args[0])
			if err != nil {
				return err
			}
			return export.TrajectorySVG(cmd.OutOrStdout(), snaps, svgWidth, svgHeight)
		},
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	var sweepDts, sweepMass1, sweepMass2 []float64
	var sweepMetric string
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a grid of configurations and compare a metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			simCfg, err := cfg.ToSim()
			if err != nil {
				return err
			}

			var names []string
			var ranges [][]float64
			for _, p := range []struct {
				name   string
				values []float64
			}{
				{optim.ParamDt, sweepDts},
				{optim.ParamMass1, sweepMass1},
				{optim.ParamMass2, sweepMass2},
			} {
				if len(p.values) > 0 {
					names = append(names, p.name)
					ranges = append(ranges, p.values)
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("nothing to sweep: set --dts, --mass1 or --mass2")
			}

			g, err := optim.NewGridSearch(names, ranges)
			if err != nil {
				return err
			}
			trials, bestIdx, err := g.Search(cmd.Context(), simCfg, sweepMetric)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
			for i, tr := range trials {
				cols := make([]string, len(names))
				for j, n := range names {
					cols[j] = fmt.Sprintf("%g", tr.Params[n])
				}
				value := fmt.Sprintf("%.6g", tr.Value)
				if tr.Err != nil {
					value = "error: " + tr.Err.Error()
				}
				mark := ""
				if i == bestIdx {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Join(cols, "\t"), value, mark)
			}
			return w.Flush()
		},
	}
	addConfigFlags(sweepCmd, opts)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", nil, "time steps to try")
	sweepCmd.Flags().Float64SliceVar(&sweepMass1, "mass1", nil, "body 1 masses to try")
	sweepCmd.Flags().Float64SliceVar(&sweepMass2, "mass2", nil, "body 2 masses to try")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDT\tSTEPS\tEVERY\tMASSES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%d\t%d\t%g / %g\n",
					name, p.Dt, p.Steps, p.ReportEvery, p.Bodies[0].Mass, p.Bodies[1].Mass)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, summaryCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, sweepCmd, presetsCmd)
	return rootCmd
}

func addConfigFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().Float32Var(&opts.dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().IntVar(&opts.steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "use preset configuration")
}

func addRunFlags(cmd *cobra.Command, opts *options) {
	addConfigFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.every, "every", config.DefaultReportEvery, "report every N steps")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "stop with an error once the state becomes NaN or Inf")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text, csv or none")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the run to the data directory")
	cmd.Flags().BoolVar(&opts.showSummary, "summary", false, "print a run summary to stderr")
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.preset != "" {
		cfg = config.GetPreset(opts.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", opts.preset, config.ListPresets())
		}
	}

	if opts.configFile != "" {
		if err := config.LoadInto(opts.configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = opts.dt
	}
	if flags.Changed("steps") {
		cfg.Steps = opts.steps
	}
	if flags.Lookup("every") != nil && flags.Changed("every") {
		cfg.ReportEvery = opts.every
	}
	if flags.Lookup("validate") != nil && flags.Changed("validate") {
		cfg.ValidateState = opts.validate
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	simCfg, err := cfg.ToSim()
	if err != nil {
		return err
	}

	s := sim.New()
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "text":
		s.AddObserver(report.NewText(out))
	case "csv":
		s.AddObserver(report.NewCSV(out))
	case "none":
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}

	var rec *report.Recorder
	if opts.save || opts.showSummary {
		rec = report.NewRecorder(0)
		s.AddObserver(rec)
	}

	status := cmd.ErrOrStderr()
	start := time.Now()

	result, runErr := s.Run(cmd.Context(), simCfg)
	if result == nil {
		return runErr
	}

	if opts.save {
		st := storage.New(opts.dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result, rec.Snapshots)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(status, "run id: %s\n", runID)
	}

	if opts.showSummary {
		title := cfg.Name
		if title == "" {
			title = "run"
		}
		info := viz.RunInfo{
			Title:      title,
			StepsTaken: result.StepsTaken,
			Steps:      simCfg.Steps,
			Time:       result.Time,
			Final:      sim.Snapshot{Step: result.StepsTaken, Time: result.Time, Bodies: result.Final},
			Metrics:    result.Metrics,
			Err:        runErr,
		}
		seps := rec.Separations()
		interval := float64(simCfg.Dt) * float64(simCfg.ReportEvery)
		fmt.Fprintln(status, viz.RenderSummary(info, analysis.Summarize(seps, interval), seps))
		fmt.Fprintf(status, "completed in %v\n", time.Since(start))
	}

	return runErr
}

func runLive(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	simCfg, err := cfg.ToSim()
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(simCfg), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, opts *options) error {
	st := storage.New(opts.dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTEPS\tDT\tEVERY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%gs\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Steps,
			run.Dt,
			run.ReportEvery,
		)
	}

	return w.Flush()
}

func loadRun(opts *options, runID string) (*storage.RunMetadata, []sim.Snapshot, error) {
	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	snaps, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, snaps, nil
}

func plotRun(cmd *cobra.Command, opts *options, runID string) error {
	meta, snaps, err := loadRun(opts, runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	series := []struct {
		caption string
		value   func(sim.Snapshot) float64
	}{
		{"separation (m)", func(s sim.Snapshot) float64 { return float64(s.Separation()) }},
		{"body 1 speed (m/s)", func(s sim.Snapshot) float64 { return float64(s.Bodies[0].Velocity.Norm()) }},
		{"body 2 speed (m/s)", func(s sim.Snapshot) float64 { return float64(s.Bodies[1].Velocity.Norm()) }},
	}

	// asciigraph cannot scale an axis over NaN or Inf
	data := make([][]float64, len(series))
	plotted := 0
	for i, sr := range series {
		for _, s := range snaps {
			if v := sr.value(s); !math.IsNaN(v) && !math.IsInf(v, 0) {
				data[i] = append(data[i], v)
			}
		}
		if len(data[i]) > 0 {
			plotted++
		}
	}
	if plotted == 0 {
		return fmt.Errorf("no finite data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "samples: %d\n\n", len(snaps))

	for i, sr := range series {
		if len(data[i]) == 0 {
			continue
		}
		caption := sr.caption
		if skipped := len(snaps) - len(data[i]); skipped > 0 {
			caption = fmt.Sprintf("%s, %d non-finite samples skipped", caption, skipped)
		}
		graph := asciigraph.Plot(data[i],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func summarizeRun(cmd *cobra.Command, opts *options, runID string) error {
	meta, snaps, err := loadRun(opts, runID)
	if err != nil {
		return err
	}

	rec := report.NewRecorder(0)
	for _, s := range snaps {
		_ = rec.OnStep(s)
	}

	info := viz.RunInfo{
		Title:      meta.ID,
		StepsTaken: meta.StepsTaken,
		Steps:      meta.Steps,
		Time:       meta.FinalTime,
		Metrics:    meta.Metrics,
	}
	if len(snaps) > 0 {
		info.Final = snaps[len(snaps)-1]
	}

	seps := rec.Separations()
	interval := float64(meta.Dt) * float64(meta.ReportEvery)
	fmt.Fprintln(cmd.OutOrStdout(), viz.RenderSummary(info, analysis.Summarize(seps, interval), seps))
	return nil
}

func exportCSV(cmd *cobra.Command, opts *options, runID string) error {
	_, snaps, err := loadRun(opts, runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write(report.CSVHeader); err != nil {
		return err
	}
	for _, s := range snaps {
		if err := w.Write(report.Row(s)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, opts *options, runID string) error {
	meta, snaps, err := loadRun(opts, runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), meta, snaps)
}
