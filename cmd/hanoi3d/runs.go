package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/hanoi3d/internal/app"
	"github.com/san-kum/hanoi3d/internal/automation"
	"github.com/san-kum/hanoi3d/internal/config"
	"github.com/san-kum/hanoi3d/internal/export"
	"github.com/san-kum/hanoi3d/internal/geometry"
	"github.com/san-kum/hanoi3d/internal/metrics"
	"github.com/san-kum/hanoi3d/internal/sim"
	"github.com/san-kum/hanoi3d/internal/storage"
	"github.com/san-kum/hanoi3d/internal/tui"
	"github.com/san-kum/hanoi3d/internal/viz"
)

const maxPlots = 6

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Physics.Enabled = true

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	a, err := newAppFromConfig(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	rec := storage.NewRecorder(every)
	mon := metrics.NewMonitor(cfg.Physics.Gravity[1])
	a.Physics().AddObserver(rec)
	a.Physics().AddObserver(mon)

	var onFrame func(uint64) error
	if live {
		var stop func()
		onFrame, stop = liveFrames(a, cfg)
		defer stop()
	}

	fmt.Printf("simulating %.2fs...\n", cfg.Duration)
	start := time.Now()
	frames, err := a.Simulate(cmd.Context(), cfg.Duration, onFrame)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	trace := rec.Trace()
	meta := storage.RunMetadata{
		Preset:      preset,
		Duration:    cfg.Duration,
		FixedStep:   cfg.Physics.FixedStep,
		MaxSubsteps: cfg.Physics.MaxSubsteps,
		Gravity:     cfg.Physics.Gravity,
		Metrics:     trace.Metrics(),
	}
	mon.AddTo(meta.Metrics)
	runID, err := st.Save(meta, trace)
	if err != nil {
		return err
	}
	logger.Info("run stored", "id", runID, "frames", frames, "samples", len(trace.Times))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", frames)
	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

// liveFrames paces fixed-step frames in real time and draws every frame that
// lands on the configured frame rate.
func liveFrames(a *app.App, cfg *config.Config) (func(uint64) error, func()) {
	r := tui.NewLiveRenderer(os.Stdout, a, 80, 24)
	r.Start()
	perRender := max(1, int(1/(cfg.Physics.FixedStep*float64(cfg.FPS))+0.5))
	pause := time.Duration(cfg.Physics.FixedStep * float64(time.Second))
	return func(frame uint64) error {
		time.Sleep(pause)
		if frame%uint64(perRender) != 0 {
			return nil
		}
		return r.Render(a.Scene())
	}, r.Stop
}

func runScenario(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var sc *automation.Scenario
	if len(args) == 1 {
		if sc, err = automation.LoadScenario(args[0]); err != nil {
			return err
		}
	} else {
		if _, err := app.PegIndex(solveTo); err != nil {
			return err
		}
		if solveTo == "left" {
			return fmt.Errorf("the tower already stands on the left peg")
		}
		sc = automation.Solve(len(cfg.Disks), "left", solveTo, solveWait)
	}
	if saveTo != "" {
		if err := automation.SaveScenario(saveTo, sc); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d steps) to %s\n", sc.Name, len(sc.Steps), saveTo)
		return nil
	}

	a, err := newAppFromConfig(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	runner := automation.NewRunner(a, logger)
	if live {
		var stop func()
		runner.OnFrame, stop = liveFrames(a, cfg)
		defer stop()
	}
	start := time.Now()
	if err := runner.Run(cmd.Context(), sc); err != nil {
		return err
	}
	fmt.Printf("%s: %d steps, %d frames in %v\n", sc.Name, len(sc.Steps), a.Frames(), time.Since(start))
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tSTEP\tBODIES\tSAMPLES")
	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FixedStep,
			len(run.Bodies),
			run.Samples,
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
	trace, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(trace.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(trace.Times))

	for i, body := range trace.Bodies {
		if i == maxPlots {
			break
		}
		graph := asciigraph.Plot(trace.Heights(i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(body+" height"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		return storage.ExportJSONFile(args[1], *meta, trace)
	}
	return storage.ExportJSON(os.Stdout, *meta, trace)
}

func exportMesh(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	a, err := newApp(cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var meshes []*geometry.Mesh
	for _, kind := range []string{"base", "cylinder"} {
		meshes = append(meshes, a.Structure().Shapes()[kind].Tessellate(meshCells))
	}
	for _, d := range a.Disks() {
		m := d.Shape().Tessellate(meshCells)
		m.Name = d.Object().Name
		meshes = append(meshes, m)
	}
	for _, m := range meshes {
		logger.Debug("tessellated", "shape", m.Name, "vertices", m.VertexCount(), "triangles", m.TriangleCount())
	}

	if len(args) == 0 {
		return storage.WriteJSON(os.Stdout, meshes)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.WriteJSON(f, meshes); err != nil {
		return err
	}
	logger.Info("meshes written", "file", args[0], "count", len(meshes))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	runs := sim.PresetRuns(args[0])
	if len(runs) == 0 {
		return fmt.Errorf("no presets for group: %s (available: %v)", args[0], config.PresetGroups())
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("simulating %d presets...\n", len(runs))
	start := time.Now()
	results := sim.NewEnsemble(runs, every, logger).Run(cmd.Context())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRUN\tFRAMES\tMAX_DISP\tMAX_SPEED")
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t%s\t-\t-\t-\n", r.Name, r.Err)
			continue
		}
		meta := storage.RunMetadata{
			Preset:      r.Name,
			Duration:    r.Config.Duration,
			FixedStep:   r.Config.Physics.FixedStep,
			MaxSubsteps: r.Config.Physics.MaxSubsteps,
			Gravity:     r.Config.Physics.Gravity,
			Metrics:     r.Metrics,
		}
		runID, err := st.Save(meta, r.Trace)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\n", r.Name, runID, r.Frames, meta.Metrics["max_displacement"], meta.Metrics["max_speed"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(results))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	trace, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	svg := export.HeightsToSVG(trace, 800, 400)
	if svg == "" {
		return fmt.Errorf("no data to plot")
	}
	return os.WriteFile(args[1], []byte(svg), 0644)
}

func snapshot(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, newLogger(os.Stderr))
	if err != nil {
		return err
	}
	defer a.Close()

	canvas := viz.NewCanvas(120, 40)
	viz.RenderScene(canvas, a.Scene(), a.Camera())
	return os.WriteFile(args[0], []byte(export.CanvasToSVG(canvas, 4)), 0644)
}

func listPresets(cmd *cobra.Command, args []string) error {
	groups := config.PresetGroups()
	if len(args) > 0 {
		groups = args
	}
	for _, g := range groups {
		presets := config.ListPresets(g)
		if len(presets) == 0 {
			fmt.Printf("no presets for group: %s\n", g)
			continue
		}
		fmt.Printf("%s:\n", g)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", g, p)
		}
	}
	return nil
}
