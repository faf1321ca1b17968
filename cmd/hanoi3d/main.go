package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/san-kum/hanoi3d/internal/app"
	"github.com/san-kum/hanoi3d/internal/config"
	"github.com/san-kum/hanoi3d/internal/gui"
	"github.com/san-kum/hanoi3d/internal/term"
	"github.com/san-kum/hanoi3d/internal/tui"
)

var (
	dataDir     string
	configFile  string
	preset      string
	logLevel    string
	textureDir  string
	theme       string
	withPhysics bool
	numDisks    int
	fps         int
	duration    float64
	fixedStep   float64
	gravity     float64
	every       int
	live        bool
	sound       bool
	meshCells   int
	solveTo     string
	solveWait   float64
	saveTo      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "hanoi3d",
		Short:        "draggable 3d tower of hanoi with rigid body physics",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".hanoi3d", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "preset as group/name")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&textureDir, "textures", "", "texture directory")
	pf.BoolVar(&withPhysics, "physics", false, "enable the physics world")
	pf.IntVar(&numDisks, "disks", 3, "number of disks")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal view (default)",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "slate", "colour theme ("+strings.Join(tui.ThemeNames(), ", ")+")")
	rootCmd.Flags().AddFlagSet(tuiCmd.Flags())

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "raw tcell terminal view",
		RunE:  runTerm,
	}
	termCmd.Flags().BoolVar(&sound, "sound", true, "chime on pickup and drop")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "raylib window",
		RunE:  runGUI,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run the physics headless and store the trace",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")
	simulateCmd.Flags().Float64Var(&fixedStep, "dt", config.DefaultFixedStep, "fixed physics step")
	simulateCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "vertical gravity")
	simulateCmd.Flags().IntVar(&every, "every", 1, "record one sample per n steps")
	simulateCmd.Flags().BoolVar(&live, "live", false, "draw frames to the terminal while running")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body heights of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [file]",
		Short: "export run data to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	exportMeshCmd := &cobra.Command{
		Use:   "export-mesh [file]",
		Short: "tessellate the scene shapes and write them as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportMesh,
	}
	exportMeshCmd.Flags().IntVar(&meshCells, "cells", 0, "marching cubes resolution (0 picks one per shape)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [group]",
		Short: "simulate every preset of a group in parallel and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&every, "every", 1, "record one sample per n steps")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "plot body heights of a run as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "render the scene wireframe to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "play a scripted scenario, or the generated solution when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().StringVar(&solveTo, "to", "right", "target peg for the generated solution")
	scenarioCmd.Flags().Float64Var(&solveWait, "wait", 0.5, "pause after each generated move (seconds)")
	scenarioCmd.Flags().StringVar(&saveTo, "save", "", "write the scenario to this file instead of playing it")
	scenarioCmd.Flags().BoolVar(&live, "live", false, "draw frames to the terminal while running")

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(tuiCmd, termCmd, guiCmd, simulateCmd, listCmd, plotCmd, exportJSONCmd, exportMeshCmd, exportSVGCmd, snapshotCmd, sweepCmd, scenarioCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies, in order, the defaults, the preset, the config file
// and any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		group, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be group/name, got %q", preset)
		}
		cfg = config.GetPreset(group, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(group))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("physics") {
		cfg.Physics.Enabled = withPhysics
	}
	if flags.Changed("disks") {
		cfg.Disks = config.Tower(numDisks, 0.9, 0.2)
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("dt") {
		cfg.Physics.FixedStep = fixedStep
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = [3]float64{0, gravity, 0}
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "hanoi3d"})
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", logLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger sends logs to <data>/hanoi3d.log so full-screen views stay
// clean.
func fileLogger() (*log.Logger, func(), error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "hanoi3d.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f), func() { f.Close() }, nil
}

func newApp(cmd *cobra.Command, logger *log.Logger) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newAppFromConfig(cmd, cfg, logger)
}

func newAppFromConfig(cmd *cobra.Command, cfg *config.Config, logger *log.Logger) (*app.App, error) {
	return app.New(cmd.Context(), cfg, logger, app.WithTextureDir(textureDir))
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newApp(cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return tui.Run(cmd.Context(), a, theme)
}

func runTerm(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newApp(cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	var opts []term.Option
	if sound {
		opts = append(opts, term.WithChime(term.NewChime(logger)))
	}
	s := term.New(screen, a, logger, opts...)
	defer s.Close()

	if err := s.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	a, err := newApp(cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := gui.Run(cmd.Context(), a, logger); err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}
