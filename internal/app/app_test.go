package app

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/hanoi3d/internal/config"
	"github.com/san-kum/hanoi3d/internal/dynamics"
	"github.com/san-kum/hanoi3d/internal/physics"
	"github.com/san-kum/hanoi3d/internal/scene"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func newApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, quiet(), opts...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestDisksStackOnLeftCylinder(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newApp(t, cfg)

	left := a.Structure().LeftCylinderPosition()
	wantY := cfg.Structure.BaseHeight / 2
	for i, d := range a.Disks() {
		p := d.Object().Position
		if math.Abs(p.X()-left.X()) > 1e-9 || p.Z() != 0 {
			t.Errorf("disk %d not on the left peg: %v", i, p)
		}
		if math.Abs(p.Y()-wantY) > 1e-9 {
			t.Errorf("disk %d: expected y %f, got %f", i, wantY, p.Y())
		}
		wantY += d.HeightDisk()
	}

	if n := len(a.Scene().Root.Children); n != 1+len(cfg.Disks) {
		t.Errorf("expected structure plus %d disks, got %d children", len(cfg.Disks), n)
	}
	if got := len(a.Drag().Objects()); got != len(cfg.Disks) {
		t.Errorf("expected %d draggables, got %d", len(cfg.Disks), got)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FPS = 0
	if _, err := New(context.Background(), cfg, quiet()); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestPhysicsDisabledByDefault(t *testing.T) {
	a := newApp(t, config.DefaultConfig())
	if a.Physics() != nil {
		t.Fatal("physics should not be constructed by default")
	}
	before := a.Disks()[0].Object().Position
	a.SetStepping(true)
	a.Frame(1)
	if a.Stepping() {
		t.Error("stepping without physics should stay off")
	}
	if a.Disks()[0].Object().Position != before {
		t.Error("frame without physics should not move anything")
	}
	if a.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", a.Frames())
	}
}

func TestBodiesRegisterOnceWorldIsReady(t *testing.T) {
	gate := make(chan struct{})
	loader := dynamics.LoaderFunc(func(ctx context.Context) (*dynamics.Module, error) {
		select {
		case <-gate:
			return dynamics.NewModule(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	cfg := config.DefaultConfig()
	cfg.Physics.Enabled = true
	a := newApp(t, cfg, WithLoader(loader))

	a.Frame(1.0 / 60)
	if n := a.Physics().NumBodies(); n != 0 {
		t.Fatalf("expected no bodies before ready, got %d", n)
	}
	for _, d := range a.Disks() {
		if d.Object().Physics.Body != nil {
			t.Fatal("disk got a body before the world was ready")
		}
	}

	close(gate)
	if err := a.Physics().Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	a.Frame(1.0 / 60)

	if n := a.Physics().NumBodies(); n != 1+len(cfg.Disks) {
		t.Fatalf("expected base and disks registered, got %d", n)
	}
	base, ok := a.Physics().Body(a.Structure().Base())
	if !ok || !base.IsStatic() {
		t.Error("base should be a static body")
	}
}

func TestSteppingSettlesTower(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Enabled = true
	cfg.Physics.Stepping = true
	a := newApp(t, cfg)
	if err := a.Physics().Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	start := make([]float64, len(a.Disks()))
	for i, d := range a.Disks() {
		start[i] = d.Object().Position.Y()
	}
	for i := 0; i < 120; i++ {
		a.Frame(1.0 / 60)
	}
	for i, d := range a.Disks() {
		if y := d.Object().Position.Y(); math.Abs(y-start[i]) > 0.05 {
			t.Errorf("disk %d drifted from %f to %f", i, start[i], y)
		}
	}
}

func TestSimulateRunsFixedFrames(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Enabled = true
	a := newApp(t, cfg)

	var seen []uint64
	n, err := a.Simulate(context.Background(), 1, func(frame uint64) error {
		seen = append(seen, frame)
		return nil
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if n != 60 || len(seen) != 60 {
		t.Errorf("expected 60 frames, got %d (%d callbacks)", n, len(seen))
	}
	if !a.Stepping() {
		t.Error("simulate should leave stepping on")
	}
	if a.Physics().NumBodies() != 1+len(cfg.Disks) {
		t.Errorf("expected base and disks registered, got %d bodies", a.Physics().NumBodies())
	}
}

func TestSimulateErrors(t *testing.T) {
	a := newApp(t, config.DefaultConfig())
	if _, err := a.Simulate(context.Background(), 1, nil); !errors.Is(err, ErrNoPhysics) {
		t.Errorf("expected ErrNoPhysics, got %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Physics.Enabled = true
	a = newApp(t, cfg)
	boom := errors.New("boom")
	n, err := a.Simulate(context.Background(), 1, func(uint64) error { return boom })
	if !errors.Is(err, boom) || n != 1 {
		t.Errorf("expected to stop after one frame with boom, got %d, %v", n, err)
	}
}

func TestMoveDiskStacksOnPeg(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newApp(t, cfg)
	right := a.Structure().RightCylinderPosition()
	floor := cfg.Structure.BaseHeight / 2

	disks := a.Disks()
	top, middle := disks[2], disks[1]
	if err := a.MoveDisk(top.Object().Name, 2); err != nil {
		t.Fatal(err)
	}
	p := top.Object().Position
	if math.Abs(p.X()-right.X()) > 1e-9 || math.Abs(p.Y()-floor) > 1e-9 {
		t.Errorf("expected %s on the empty right peg at y=%f, got %v", top.Object().Name, floor, p)
	}

	if err := a.MoveDisk(middle.Object().Name, 2); err != nil {
		t.Fatal(err)
	}
	if y := middle.Object().Position.Y(); math.Abs(y-(floor+top.HeightDisk())) > 1e-9 {
		t.Errorf("expected %s stacked at %f, got %f", middle.Object().Name, floor+top.HeightDisk(), y)
	}

	if err := a.MoveDisk("nope", 0); !errors.Is(err, ErrUnknownDisk) {
		t.Errorf("expected ErrUnknownDisk, got %v", err)
	}
	if err := a.MoveDisk(top.Object().Name, 3); !errors.Is(err, ErrUnknownPeg) {
		t.Errorf("expected ErrUnknownPeg, got %v", err)
	}
	if i, err := PegIndex("center"); err != nil || i != 1 {
		t.Errorf("expected center at 1, got %d, %v", i, err)
	}
}

func TestSteppingToggle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Enabled = true
	a := newApp(t, cfg)
	if err := a.Physics().Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	a.Frame(1.0 / 60)

	top := a.Disks()[len(a.Disks())-1].Object()
	top.SetPosition(0, 3, 0)
	for i := 0; i < 30; i++ {
		a.Frame(1.0 / 60)
	}
	if top.Position.Y() != 3 {
		t.Fatalf("paused physics moved the disk to %v", top.Position)
	}

	a.ToggleStepping()
	if !a.Stepping() {
		t.Fatal("expected stepping on")
	}
	for i := 0; i < 30; i++ {
		a.Frame(1.0 / 60)
	}
	if y := top.Position.Y(); y >= 3 {
		t.Errorf("lifted disk should fall once stepping is on, y=%f", y)
	}
}

func TestRunRendersUntilCancelled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FPS = 200
	a := newApp(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var renders int
	err := a.Run(ctx, RendererFunc(func(sc *scene.Scene) error {
		if sc != a.Scene() {
			t.Error("renderer got a different scene")
		}
		renders++
		return nil
	}))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if renders == 0 || uint64(renders) != a.Frames() {
		t.Errorf("expected one render per frame, got %d renders and %d frames", renders, a.Frames())
	}
}

func TestRunStopsOnRenderError(t *testing.T) {
	a := newApp(t, config.DefaultConfig())
	boom := errors.New("boom")
	err := a.Run(context.Background(), RendererFunc(func(*scene.Scene) error { return boom }))
	if !errors.Is(err, boom) {
		t.Errorf("expected render error, got %v", err)
	}
	if a.Frames() != 1 {
		t.Errorf("expected to stop after the first frame, got %d", a.Frames())
	}
}

func TestFailedEngineLeavesSceneStatic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Enabled = true
	cfg.Physics.Stepping = true
	a := newApp(t, cfg, WithLoader(dynamics.LoaderFunc(func(context.Context) (*dynamics.Module, error) {
		return nil, errors.New("no engine")
	})))
	<-a.Physics().Ready()

	before := a.Disks()[0].Object().Position
	a.Frame(1.0 / 60)
	if a.Physics().State() != physics.StateFailed {
		t.Errorf("expected failed state, got %v", a.Physics().State())
	}
	if a.Disks()[0].Object().Position != before {
		t.Error("failed physics should not move anything")
	}
}

func TestZeroMassDiskIsStatic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Enabled = true
	cfg.Physics.Stepping = true
	cfg.Disks[0].Mass = 0
	a := newApp(t, cfg)
	if err := a.Physics().Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	a.Frame(1.0 / 60)

	bottom := a.Disks()[0]
	if bottom.Mass() != 0 {
		t.Fatalf("expected mass 0 to survive defaults, got %f", bottom.Mass())
	}
	body, ok := a.Physics().Body(bottom.Object())
	if !ok || !body.IsStatic() {
		t.Fatal("zero mass disk should register as a static body")
	}
	if _, ok := a.Physics().Body(a.Disks()[1].Object()); !ok {
		t.Fatal("expected the second disk registered")
	}

	before := bottom.Object().Position
	for i := 0; i < 60; i++ {
		a.Frame(1.0 / 60)
	}
	if bottom.Object().Position.Sub(before).Len() > 1e-9 {
		t.Errorf("static disk moved from %v to %v", before, bottom.Object().Position)
	}
}
