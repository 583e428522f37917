package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bouncelab/internal/analysis"
	"github.com/san-kum/bouncelab/internal/automation"
	"github.com/san-kum/bouncelab/internal/config"
	"github.com/san-kum/bouncelab/internal/metrics"
	"github.com/san-kum/bouncelab/internal/optim"
	"github.com/san-kum/bouncelab/internal/phys"
	"github.com/san-kum/bouncelab/internal/sim"
	"github.com/san-kum/bouncelab/internal/storage"
	"github.com/san-kum/bouncelab/internal/viz"
)

var (
	dataDir     string
	width       float64
	height      float64
	gravity     float64
	drag        float64
	friction    float64
	dt          float64
	maxDt       float64
	duration    float64
	ballX       float64
	ballY       float64
	radius      float64
	mass        float64
	restitution float64
	vx          float64
	vy          float64
	frameRate   int
	configFile  string
	outFile     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bouncelab",
		Short: "bouncing-ball physics simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bouncelab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot ball height over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the path of a run's CSV log",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [preset]",
		Short: "run and export data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	addScenarioFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "export a run's trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&outFile, "out", "trajectory.svg", "output file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the dominant bounce frequency of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted scenario from a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search friction and restitution for fastest settling",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneParams,
	}
	addScenarioFlags(tuneCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, analyzeCmd, scriptCmd, tuneCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "boundary width")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "boundary height")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity")
	cmd.Flags().Float64Var(&drag, "drag", config.DefaultDrag, "quadratic drag coefficient")
	cmd.Flags().Float64Var(&friction, "friction", config.DefaultFriction, "ground friction coefficient")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&maxDt, "max-dt", config.DefaultMaxDt, "timestep clamp")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&ballX, "x", config.DefaultWidth/2, "initial x")
	cmd.Flags().Float64Var(&ballY, "y", config.DefaultHeight/4, "initial y")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultRadius, "ball radius")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "ball mass (non-positive = immovable)")
	cmd.Flags().Float64Var(&restitution, "restitution", config.DefaultRestitution, "bounciness")
	cmd.Flags().Float64Var(&vx, "vx", 0, "initial x velocity")
	cmd.Flags().Float64Var(&vy, "vy", 0, "initial y velocity")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
}

// resolveConfig merges preset, config file and CLI flags, flags taking
// precedence over the file, the file over the preset.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := "custom"
	cfg := config.DefaultConfig()

	if len(args) > 0 {
		name = args[0]
		preset := config.GetPreset(name)
		if preset == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		*cfg = *preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flagged := func(n string) bool { return cmd.Flags().Changed(n) }
	if flagged("width") {
		cfg.World.Width = width
	}
	if flagged("height") {
		cfg.World.Height = height
	}
	if flagged("gravity") {
		cfg.World.Gravity = gravity
	}
	if flagged("drag") {
		cfg.World.Drag = drag
	}
	if flagged("friction") {
		cfg.World.Friction = friction
	}
	if flagged("dt") {
		cfg.Dt = dt
	}
	if flagged("max-dt") {
		cfg.MaxDt = maxDt
	}
	if flagged("time") {
		cfg.Duration = duration
	}
	if flagged("x") {
		cfg.Ball.X = ballX
	}
	if flagged("y") {
		cfg.Ball.Y = ballY
	}
	if flagged("radius") {
		cfg.Ball.Radius = radius
	}
	if flagged("mass") {
		cfg.Ball.Mass = mass
	}
	if flagged("restitution") {
		cfg.Ball.Restitution = restitution
	}
	if flagged("vx") {
		cfg.Ball.VX = vx
	}
	if flagged("vy") {
		cfg.Ball.VY = vy
	}

	return cfg, name, nil
}

func buildDriver(cfg *config.Config) (*sim.Driver, *metrics.Energy, *metrics.Bounces) {
	ball := cfg.NewBall()
	bounds := cfg.Bounds()
	driver := sim.New(ball, bounds, cfg.SimWorld())

	floor := bounds.Floor(ball.Radius)
	energy := metrics.NewEnergy(cfg.Ball.Mass, cfg.World.Gravity, floor)
	bounces := metrics.NewBounces(floor, 1.0)

	return driver, energy, bounces
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	driver, energy, bounces := buildDriver(cfg)
	floor := cfg.Bounds().Floor(cfg.Ball.Radius)

	driver.AddMetric(energy)
	driver.AddMetric(metrics.NewEnergyDrift(cfg.Ball.Mass, cfg.World.Gravity, floor))
	driver.AddMetric(bounces)
	driver.AddMetric(metrics.NewSettleTime(floor, 0.5, 10))

	fmt.Printf("running %s scenario...\n", name)
	start := time.Now()

	result, err := driver.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Preset:      name,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Gravity:     cfg.World.Gravity,
		Restitution: cfg.Ball.Restitution,
		Width:       cfg.World.Width,
		Height:      cfg.World.Height,
		Radius:      cfg.Ball.Radius,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	driver, energy, bounces := buildDriver(cfg)
	return viz.RunLive(driver, energy, bounces, cfg.Dt, frameRate, name)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  preset=%s  dt=%.4f  duration=%.1f  bounces=%.0f\n",
			run.ID, run.Preset, run.Dt, run.Duration, run.Metrics["bounces"])
	}

	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	heights := make([]float64, len(states))
	floor := phys.Bounds{Width: meta.Width, Height: meta.Height}.Floor(meta.Radius)
	for i, s := range states {
		heights[i] = floor - s[1]
	}

	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("height above floor (%s)", meta.ID))))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	if _, err := st.Load(args[0]); err != nil {
		return err
	}

	fmt.Println(st.CSVPath(args[0]))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	driver, energy, bounces := buildDriver(cfg)
	driver.AddMetric(energy)
	driver.AddMetric(bounces)

	result, err := driver.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	if outFile != "" {
		return storage.ExportJSON(outFile, name, cfg.Dt, cfg.Duration, result)
	}
	return storage.ExportJSONStdout(name, cfg.Dt, cfg.Duration, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) < 4 {
		return fmt.Errorf("run %s has too few samples", args[0])
	}

	floor := phys.Bounds{Width: meta.Width, Height: meta.Height}.Floor(meta.Radius)
	heights := make([]float64, len(states))
	for i, s := range states {
		heights[i] = floor - s[1]
	}

	freq := analysis.BounceFrequency(heights, 1/meta.Dt)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d (dt=%.4f)\n", len(heights), meta.Dt)
	fmt.Printf("dominant bounce frequency: %.3f Hz\n", freq)

	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	runIDs, err := automation.RunScenario(context.Background(), scenario, st)
	if err != nil {
		return err
	}

	fmt.Println("\nruns:")
	for _, id := range runIDs {
		fmt.Printf("  %s\n", id)
	}

	return nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	gs := optim.NewGridSearch(
		[]string{"friction", "restitution"},
		[][]float64{optim.Span(0.05, 0.5, 10), optim.Span(0.1, 0.9, 9)},
	)

	trial := func(params map[string]float64) (*sim.Result, error) {
		trialCfg := *cfg
		trialCfg.World.Friction = params["friction"]
		trialCfg.Ball.Restitution = params["restitution"]

		ball := trialCfg.NewBall()
		bounds := trialCfg.Bounds()
		driver := sim.New(ball, bounds, trialCfg.SimWorld())
		driver.AddMetric(metrics.NewSettleTime(bounds.Floor(ball.Radius), 0.5, 10))

		return driver.Run(context.Background(), sim.Config{Dt: trialCfg.Dt, Duration: trialCfg.Duration})
	}

	fmt.Printf("tuning %s scenario for fastest settling...\n", name)
	best, val, err := gs.Search(context.Background(), trial, "settle_time")
	if err != nil {
		return err
	}
	if best == nil {
		fmt.Println("no parameter combination settled within the duration")
		return nil
	}

	fmt.Printf("best settle time: %.3fs\n", val)
	fmt.Printf("  friction: %.3f\n", best["friction"])
	fmt.Printf("  restitution: %.3f\n", best["restitution"])

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	svg := viz.TrajectorySVG(states, meta.Width, meta.Height, 4.0)
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", outFile)
	return nil
}
