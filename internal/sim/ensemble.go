// Package sim runs several headless simulations side by side.
package sim

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/san-kum/hanoi3d/internal/app"
	"github.com/san-kum/hanoi3d/internal/config"
	"github.com/san-kum/hanoi3d/internal/metrics"
	"github.com/san-kum/hanoi3d/internal/storage"
)

// Run is one member of an ensemble.
type Run struct {
	Name   string
	Config *config.Config
}

type Result struct {
	Name    string
	Config  *config.Config
	Frames  uint64
	Trace   *storage.Trace
	Metrics map[string]float64
	Err     error
}

// Ensemble simulates each run in its own App and goroutine. Physics is
// forced on for every run.
type Ensemble struct {
	runs   []Run
	every  int
	logger *log.Logger
}

func NewEnsemble(runs []Run, every int, logger *log.Logger) *Ensemble {
	return &Ensemble{runs: runs, every: every, logger: logger.WithPrefix("sim")}
}

// Run blocks until every member has finished. Results keep the order of the
// runs; a failing member records its error without stopping the others.
func (e *Ensemble) Run(ctx context.Context) []Result {
	results := make([]Result, len(e.runs))

	var wg sync.WaitGroup
	for i, r := range e.runs {
		wg.Add(1)
		go func(idx int, r Run) {
			defer wg.Done()
			results[idx] = e.simulate(ctx, r)
		}(i, r)
	}
	wg.Wait()
	return results
}

func (e *Ensemble) simulate(ctx context.Context, r Run) Result {
	cfg := r.Config.Clone()
	cfg.Physics.Enabled = true
	res := Result{Name: r.Name, Config: cfg}

	a, err := app.New(ctx, cfg, e.logger.With("run", r.Name))
	if err != nil {
		res.Err = err
		return res
	}
	defer a.Close()

	rec := storage.NewRecorder(e.every)
	mon := metrics.NewMonitor(cfg.Physics.Gravity[1])
	a.Physics().AddObserver(rec)
	a.Physics().AddObserver(mon)
	res.Frames, res.Err = a.Simulate(ctx, cfg.Duration, nil)
	res.Trace = rec.Trace()
	res.Metrics = res.Trace.Metrics()
	mon.AddTo(res.Metrics)
	if res.Err != nil {
		e.logger.Error("run failed", "run", r.Name, "err", res.Err)
	}
	return res
}

// PresetRuns builds one run per preset in a group.
func PresetRuns(group string) []Run {
	names := config.ListPresets(group)
	runs := make([]Run, 0, len(names))
	for _, n := range names {
		runs = append(runs, Run{Name: group + "/" + n, Config: config.GetPreset(group, n)})
	}
	return runs
}
