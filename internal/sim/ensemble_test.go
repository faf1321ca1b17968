package sim

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/hanoi3d/internal/config"
)

func short(cfg *config.Config) *config.Config {
	cfg.Duration = 0.25
	return cfg
}

func TestEnsembleKeepsOrder(t *testing.T) {
	runs := []Run{
		{Name: "one", Config: short(config.DefaultConfig())},
		{Name: "two", Config: short(config.DefaultConfig())},
		{Name: "three", Config: short(config.DefaultConfig())},
	}
	runs[1].Config.Disks = config.Tower(5, 0.9, 0.2)

	results := NewEnsemble(runs, 1, log.New(io.Discard)).Run(context.Background())
	if len(results) != len(runs) {
		t.Fatalf("expected %d results, got %d", len(runs), len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Name, r.Err)
		}
		if r.Name != runs[i].Name {
			t.Errorf("result %d: expected %s, got %s", i, runs[i].Name, r.Name)
		}
		if r.Frames != 15 {
			t.Errorf("%s: expected 15 frames, got %d", r.Name, r.Frames)
		}
		if len(r.Trace.Times) == 0 {
			t.Errorf("%s: empty trace", r.Name)
		}
		if _, ok := r.Metrics["rest_fraction"]; !ok {
			t.Errorf("%s: missing rest metric", r.Name)
		}
	}
	if n := len(results[1].Trace.Bodies); n != 6 {
		t.Errorf("expected base and 5 disks in the second trace, got %d bodies", n)
	}
	if runs[0].Config.Physics.Enabled {
		t.Error("ensemble must not modify the caller's config")
	}
}

func TestEnsembleRecordsFailures(t *testing.T) {
	bad := config.DefaultConfig()
	bad.FPS = 0
	results := NewEnsemble([]Run{
		{Name: "bad", Config: bad},
		{Name: "good", Config: short(config.DefaultConfig())},
	}, 1, log.New(io.Discard)).Run(context.Background())

	if results[0].Err == nil {
		t.Error("invalid config should fail")
	}
	if results[1].Err != nil {
		t.Errorf("good run failed: %v", results[1].Err)
	}
}

func TestPresetRuns(t *testing.T) {
	runs := PresetRuns("physics")
	if len(runs) != len(config.ListPresets("physics")) {
		t.Fatalf("expected one run per preset, got %d", len(runs))
	}
	if runs[0].Name != "physics/bouncy" {
		t.Errorf("expected sorted names, got %s", runs[0].Name)
	}
	if PresetRuns("nope") == nil || len(PresetRuns("nope")) != 0 {
		t.Error("unknown group should give no runs")
	}
}
