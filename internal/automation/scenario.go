// Package automation plays scripted disk moves against an app.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/hanoi3d/internal/app"
)

var ErrEmptyStep = errors.New("automation: step has no action")

// Scenario defines a scripted sequence of disk moves and pauses.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Move    *Move   `yaml:"move,omitempty"`
	Wait    float64 `yaml:"wait,omitempty"`
	Physics *bool   `yaml:"physics,omitempty"`
}

// Move puts a disk on top of a peg ("left", "center" or "right").
type Move struct {
	Disk string `yaml:"disk"`
	Peg  string `yaml:"peg"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

func SaveScenario(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Solve returns the classic minimal solution for n disks named disk_0
// (largest) to disk_{n-1}, moving the tower from one peg to another. Each
// move is followed by a pause of wait seconds.
func Solve(n int, from, to string, wait float64) *Scenario {
	via := ""
	for _, p := range app.Pegs {
		if p != from && p != to {
			via = p
		}
	}
	sc := &Scenario{Name: fmt.Sprintf("solve_%d", n), Description: fmt.Sprintf("move %d disks from %s to %s", n, from, to)}
	var rec func(k int, from, to, via string)
	rec = func(k int, from, to, via string) {
		if k == 0 {
			return
		}
		rec(k-1, from, via, to)
		sc.Steps = append(sc.Steps, Step{Move: &Move{Disk: fmt.Sprintf("disk_%d", n-k), Peg: to}})
		if wait > 0 {
			sc.Steps = append(sc.Steps, Step{Wait: wait})
		}
		rec(k-1, via, to, from)
	}
	rec(n, from, to, via)
	return sc
}

// Runner plays scenarios against an App. Waits advance the app in fixed
// frames of Step seconds.
type Runner struct {
	app     *app.App
	logger  *log.Logger
	Step    float64
	OnFrame func(frame uint64) error
}

func NewRunner(a *app.App, logger *log.Logger) *Runner {
	return &Runner{app: a, logger: logger.WithPrefix("scenario"), Step: a.Config().Physics.FixedStep}
}

// Run executes every step in order and stops at the first error.
func (r *Runner) Run(ctx context.Context, sc *Scenario) error {
	r.logger.Info("running", "scenario", sc.Name, "steps", len(sc.Steps))
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.apply(ctx, step); err != nil {
			return fmt.Errorf("step %d/%d: %w", i+1, len(sc.Steps), err)
		}
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, step Step) error {
	switch {
	case step.Move != nil:
		peg, err := app.PegIndex(step.Move.Peg)
		if err != nil {
			return err
		}
		return r.app.MoveDisk(step.Move.Disk, peg)
	case step.Physics != nil:
		if ph := r.app.Physics(); ph != nil && *step.Physics {
			if err := ph.Wait(ctx); err != nil {
				return err
			}
		}
		r.app.SetStepping(*step.Physics)
		return nil
	case step.Wait > 0:
		n := int(math.Ceil(step.Wait/r.Step - 1e-9))
		for i := 0; i < n; i++ {
			r.app.Frame(r.Step)
			if r.OnFrame != nil {
				if err := r.OnFrame(r.app.Frames()); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return ErrEmptyStep
}
