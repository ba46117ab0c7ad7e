package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/export"
	"github.com/san-kum/particlesim/internal/gui"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/optim"
	"github.com/san-kum/particlesim/internal/scene"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	verbose    bool
	integrator string
	duration   float64
	ups        int
	frameRate  int
	force      bool
	theme      string
	trailEvery int
	sweepArgs  []string
	metricName string
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

func main() {
	rootCmd := &cobra.Command{
		Use:           "particlesim",
		Short:         "2D particle and spring mesh simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use a named scene")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and print metrics",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	sceneFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	runCmd.Flags().IntVar(&frameRate, "fps", 60, "frames per simulated second")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scene in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScene(cmd)
			if err != nil {
				return err
			}
			s, err := scene.Build(cfg)
			if err != nil {
				return err
			}
			th, err := tui.GetTheme(theme)
			if err != nil {
				return err
			}
			return tui.Run(s, cfg.Name, th)
		},
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "terminal", fmt.Sprintf("color theme %v", tui.ThemeNames()))

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a scene in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScene(cmd)
			if err != nil {
				return err
			}
			s, err := scene.Build(cfg)
			if err != nil {
				return err
			}
			return gui.Run(s, cfg.Name)
		},
	}
	sceneFlags(guiCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [out.svg]",
		Short: "run a scene headless and draw the final state as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	sceneFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	snapshotCmd.Flags().IntVar(&trailEvery, "trail", 16, "steps between trail points (0 disables trails)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search physics parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration per trial")
	sweepCmd.Flags().StringArrayVarP(&sweepArgs, "param", "p", nil,
		fmt.Sprintf("name=v1,v2,... (repeatable, one of %v)", config.Tunable))
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimise")
	_ = sweepCmd.MarkFlagRequired("param")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBALLS\tMESHES\tINTEGRATOR")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, len(cfg.Balls), len(cfg.Meshes), cfg.Integrator)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a scene file to edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg, err := loadScene(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s scene to %s\n", cfg.Name, path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, snapshotCmd, sweepCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator,
		fmt.Sprintf("integrator %v", integrators.Names()))
	cmd.Flags().IntVar(&ups, "ups", 0, "physics updates per second")
}

// loadScene resolves the scene from the default, a preset or a config file
// (the file wins), then applies any flags the user set explicitly.
func loadScene(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		slog.Debug("loaded preset", "name", preset)
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		slog.Debug("loaded config", "path", configFile, "balls", len(cfg.Balls), "meshes", len(cfg.Meshes))
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("ups") {
		cfg.Physics.UpdatesPerSecond = ups
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	if frameRate <= 0 {
		return fmt.Errorf("fps must be positive, got %d", frameRate)
	}

	s, err := scene.Build(cfg, sim.WithStateValidation())
	if err != nil {
		return err
	}

	series := metrics.NewSeries(max(cfg.Physics.UpdatesPerSecond/frameRate, 1))
	s.AddMetric(metrics.NewEnergy())
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewMomentum())
	// A particle crossing the whole domain in one step has blown up.
	s.AddMetric(metrics.NewStability(cfg.Physics.Width * float64(cfg.Physics.UpdatesPerSecond)))
	s.AddMetric(series)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(headerStyle.Render(fmt.Sprintf("particlesim :: %s", cfg.Name)))
	slog.Info("running", "integrator", cfg.Integrator, "duration", cfg.Duration, "particles", len(s.Particles()))

	result, err := s.Run(ctx, cfg.Duration, time.Second/time.Duration(frameRate))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "integrator\t%s\n", cfg.Integrator)
	fmt.Fprintf(w, "particles\t%d\n", len(s.Particles()))
	fmt.Fprintf(w, "springs\t%d\n", len(s.Springs()))
	fmt.Fprintf(w, "simulated\t%.3fs\n", result.Time)
	fmt.Fprintf(w, "wall time\t%v\n", result.Elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "steps\t%d\n", result.Steps)
	fmt.Fprintf(w, "collisions\t%d\n", result.Collisions)
	fmt.Fprintf(w, "wall hits\t%d\n", result.WallHits)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if len(series.Samples) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series.Samples,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy vs time"),
		))
	}
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	s, err := scene.Build(cfg, sim.WithStateValidation())
	if err != nil {
		return err
	}

	var trails *export.Trails
	if trailEvery > 0 {
		trails = export.NewTrails(trailEvery)
		s.AddObserver(trails)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	result, err := s.Run(ctx, cfg.Duration, time.Second/60)
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := export.SceneToSVG(f, s.Mesh(), s.Params(), trails); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Debug("snapshot written", "path", args[0], "steps", result.Steps)
	fmt.Printf("wrote %s at t=%.3fs\n", args[0], result.Time)
	return nil
}

func parseSweep(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func sweep(cmd *cobra.Command, args []string) error {
	base, err := loadScene(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseSweep(sweepArgs)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !slices.Contains(config.Tunable, name) {
			return fmt.Errorf("unknown physics parameter: %s (tunable: %v)", name, config.Tunable)
		}
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	build := func(params map[string]float64) (*sim.Simulator, error) {
		cfg := *base
		for name, v := range params {
			if err := cfg.SetPhysics(name, v); err != nil {
				return nil, err
			}
		}
		s, err := scene.Build(&cfg, sim.WithStateValidation())
		if err != nil {
			slog.Debug("trial rejected", "params", params, "err", err)
			return nil, err
		}
		s.AddMetric(metrics.NewEnergy())
		s.AddMetric(metrics.NewEnergyDrift())
		s.AddMetric(metrics.NewMomentum())
		s.AddMetric(metrics.NewStability(cfg.Physics.Width * float64(cfg.Physics.UpdatesPerSecond)))
		return s, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(headerStyle.Render(fmt.Sprintf("particlesim :: %s :: sweep %d trials", base.Name, g.Size())))
	trials, best, err := g.Search(ctx, build, base.Duration, time.Second/60, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t\n", strings.Join(names, "\t"), metricName)
	for i, t := range trials {
		cols := make([]string, len(names))
		for j, name := range names {
			cols[j] = strconv.FormatFloat(t.Params[name], 'g', -1, 64)
		}
		mark := ""
		if i == best {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\n", strings.Join(cols, "\t"), t.Value, mark)
	}
	return w.Flush()
}
