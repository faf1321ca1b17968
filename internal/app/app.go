package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/config"
	"github.com/san-kum/hanoi3d/internal/drag"
	"github.com/san-kum/hanoi3d/internal/dynamics"
	"github.com/san-kum/hanoi3d/internal/geometry"
	"github.com/san-kum/hanoi3d/internal/physics"
	"github.com/san-kum/hanoi3d/internal/scene"
	"github.com/san-kum/hanoi3d/internal/viz"
)

// Renderer draws one frame of the scene.
type Renderer interface {
	Render(sc *scene.Scene) error
}

type RendererFunc func(sc *scene.Scene) error

func (f RendererFunc) Render(sc *scene.Scene) error { return f(sc) }

type Option func(*App)

// WithLoader replaces the engine loader used when physics is enabled.
func WithLoader(l dynamics.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithTextureDir resolves texture references against dir.
func WithTextureDir(dir string) Option {
	return func(a *App) { a.textureDir = dir }
}

// App owns the scene and drives the frame loop.
type App struct {
	cfg    *config.Config
	logger *log.Logger

	loader     dynamics.Loader
	textureDir string

	scene     *scene.Scene
	camera    *viz.Camera
	structure *geometry.MainStructure
	disks     []*geometry.Disk
	controls  *drag.Controls
	drag      *drag.Manager
	physics   *physics.Manager

	stepping   atomic.Bool
	registered bool
	frames     uint64
}

func New(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	a := &App{cfg: cfg, logger: logger, scene: scene.New()}
	for _, opt := range opts {
		opt(a)
	}
	a.scene.View = scene.View{
		Position: mgl64.Vec3(cfg.Camera.Position),
		Target:   mgl64.Vec3(cfg.Camera.Target),
		FOV:      cfg.Camera.FOV,
	}
	a.camera = viz.NewCamera(a.scene.View)

	if err := a.build(); err != nil {
		return nil, err
	}

	a.controls = drag.NewControls(a.camera, 0, 0)
	a.controls.Enabled = cfg.Drag.Enabled
	draggables := make([]*scene.Object, 0, len(a.disks))
	for _, d := range a.disks {
		draggables = append(draggables, d.Object())
	}
	a.drag = drag.NewManager(draggables, a.controls, logger)

	if cfg.Physics.Enabled {
		a.physics = physics.NewManager(ctx, a.scene.Root, a.loader, physicsConfig(cfg.Physics), logger)
		a.stepping.Store(cfg.Physics.Stepping)
	}

	logger.Info("scene ready", "disks", len(a.disks), "physics", cfg.Physics.Enabled, "drag", cfg.Drag.Enabled)
	return a, nil
}

func (a *App) build() error {
	textures := geometry.NewTextureLoader(a.textureDir, a.logger)
	s := a.cfg.Structure

	structure, err := geometry.NewMainStructure(geometry.StructureParams{
		BaseWidth:       s.BaseWidth,
		BaseDepth:       s.BaseDepth,
		BaseHeight:      s.BaseHeight,
		CylinderRadius:  s.CylinderRadius,
		CylinderHeight:  s.CylinderHeight,
		BaseTexture:     textures.Resolve(s.BaseTexture),
		CylinderTexture: textures.Resolve(s.CylinderTexture),
	})
	if err != nil {
		return fmt.Errorf("build structure: %w", err)
	}
	a.structure = structure
	a.scene.Add(structure.Object())

	group := structure.Object()
	peg := group.WorldPoint(structure.LeftCylinderPosition())
	y := group.WorldPoint(mgl64.Vec3{0, structure.HeightBase() / 2, 0}).Y()

	for i, dc := range a.cfg.Disks {
		d, err := geometry.NewDisk(geometry.DiskParams{
			Name:       fmt.Sprintf("disk_%d", i),
			Radius:     dc.Radius,
			HoleRadius: dc.HoleRadius,
			Height:     dc.Height,
			Mass:       dc.Mass,
			Static:     dc.Mass == 0,
			Texture:    textures.Resolve(dc.Texture),
		})
		if err != nil {
			return fmt.Errorf("build disk %d: %w", i, err)
		}
		d.SetPosition(peg.X(), y, peg.Z())
		y += d.HeightDisk()
		a.disks = append(a.disks, d)
		a.scene.Add(d.Object())
	}
	return nil
}

func physicsConfig(p config.PhysicsConfig) physics.Config {
	return physics.Config{
		Gravity:          mgl64.Vec3(p.Gravity),
		FixedTimeStep:    p.FixedStep,
		MaxSubSteps:      p.MaxSubsteps,
		SolverIterations: p.SolverIterations,
		Restitution:      p.Restitution,
		Shape:            physics.ShapeMode(p.Shape),
		SeedTransform:    p.SeedTransform,
	}
}

// Frame advances the scene by dt seconds. Physics is stepped only while
// stepping is on; bodies are registered on the first frame after the world
// is ready.
func (a *App) Frame(dt float64) {
	a.frames++
	if a.physics == nil {
		return
	}
	if !a.registered {
		a.registerBodies()
	}
	if a.stepping.Load() {
		a.physics.Step(dt)
	}
}

func (a *App) registerBodies() {
	switch a.physics.State() {
	case physics.StateUninitialized:
		return
	case physics.StateReady:
	default:
		a.registered = true
		return
	}
	a.registered = true

	if _, err := a.physics.AddObject(a.structure.Base(), 0); err != nil {
		a.logger.Error("register base", "err", err)
	}
	for _, d := range a.disks {
		if _, err := a.physics.AddObject(d.Object(), d.Mass()); err != nil {
			a.logger.Error("register disk", "disk", d.Object().Name, "err", err)
		}
	}
	a.logger.Info("bodies registered", "count", a.physics.NumBodies())
}

// Run calls Frame and then Render once per tick at the configured fps until
// ctx is done or rendering fails.
func (a *App) Run(ctx context.Context, r Renderer) error {
	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			a.Frame(now.Sub(last).Seconds())
			last = now
			if err := r.Render(a.scene); err != nil {
				return fmt.Errorf("render frame %d: %w", a.frames, err)
			}
		}
	}
}

// Peg names in left to right order.
var Pegs = [3]string{"left", "center", "right"}

var (
	ErrUnknownDisk = errors.New("app: unknown disk")
	ErrUnknownPeg  = errors.New("app: unknown peg")
)

// PegIndex maps a peg name to its index.
func PegIndex(name string) (int, error) {
	for i, p := range Pegs {
		if p == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPeg, name)
}

// pegPosition is the world position of a peg's axis at the top of the base.
func (a *App) pegPosition(i int) mgl64.Vec3 {
	group := a.structure.Object()
	var local mgl64.Vec3
	switch i {
	case 0:
		local = a.structure.LeftCylinderPosition()
	case 1:
		local = a.structure.CenterCylinderPosition()
	default:
		local = a.structure.RightCylinderPosition()
	}
	p := group.WorldPoint(local)
	top := group.WorldPoint(mgl64.Vec3{0, a.structure.HeightBase() / 2, 0}).Y()
	return mgl64.Vec3{p.X(), top, p.Z()}
}

// MoveDisk lays the named disk flat on top of whatever is already stacked on
// the peg. While stepping, the physics bodies are resynced so the move sticks.
func (a *App) MoveDisk(name string, peg int) error {
	if peg < 0 || peg >= len(Pegs) {
		return fmt.Errorf("%w: %d", ErrUnknownPeg, peg)
	}
	var disk *geometry.Disk
	for _, d := range a.disks {
		if d.Object().Name == name {
			disk = d
		}
	}
	if disk == nil {
		return fmt.Errorf("%w: %q", ErrUnknownDisk, name)
	}

	base := a.pegPosition(peg)
	y := base.Y()
	for _, d := range a.disks {
		if d == disk {
			continue
		}
		p := d.Object().Position
		if math.Hypot(p.X()-base.X(), p.Z()-base.Z()) < d.Radius() {
			y = math.Max(y, p.Y()+d.HeightDisk())
		}
	}

	disk.SetRotation(-math.Pi/2, 0, 0)
	disk.SetPosition(base.X(), y, base.Z())
	if a.Stepping() {
		a.physics.SyncFromScene()
	}
	a.logger.Debug("disk moved", "disk", name, "peg", Pegs[peg], "y", y)
	return nil
}

// ErrNoPhysics is returned by Simulate when the config has physics off.
var ErrNoPhysics = errors.New("app: physics disabled")

// Simulate waits for the physics world, turns stepping on and advances the
// scene in fixed steps until duration seconds of simulated time have passed.
// onFrame, when non-nil, is called after every frame. It returns the number
// of frames run.
func (a *App) Simulate(ctx context.Context, duration float64, onFrame func(frame uint64) error) (uint64, error) {
	if a.physics == nil {
		return 0, ErrNoPhysics
	}
	if err := a.physics.Wait(ctx); err != nil {
		return 0, err
	}
	a.SetStepping(true)

	step := a.cfg.Physics.FixedStep
	n := int(math.Ceil(duration/step - 1e-9))
	start := a.frames
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return a.frames - start, err
		}
		a.Frame(step)
		if onFrame != nil {
			if err := onFrame(a.frames); err != nil {
				return a.frames - start, fmt.Errorf("frame %d: %w", a.frames, err)
			}
		}
	}
	return a.frames - start, nil
}

// SetStepping turns the physics loop on or off. Turning it on first moves
// every body to where its object currently is, so hand-dragged objects are
// picked up by the simulation.
func (a *App) SetStepping(on bool) {
	if a.physics == nil {
		return
	}
	if on && !a.stepping.Load() {
		a.physics.SyncFromScene()
	}
	a.stepping.Store(on)
	a.logger.Debug("stepping", "on", on)
}

func (a *App) ToggleStepping() { a.SetStepping(!a.Stepping()) }

func (a *App) Stepping() bool { return a.physics != nil && a.stepping.Load() }

func (a *App) Scene() *scene.Scene                { return a.scene }
func (a *App) Camera() *viz.Camera                { return a.camera }
func (a *App) Controls() *drag.Controls           { return a.controls }
func (a *App) Drag() *drag.Manager                { return a.drag }
func (a *App) Physics() *physics.Manager          { return a.physics }
func (a *App) Structure() *geometry.MainStructure { return a.structure }
func (a *App) Disks() []*geometry.Disk            { return a.disks }
func (a *App) Config() *config.Config             { return a.cfg }
func (a *App) Frames() uint64                     { return a.frames }

func (a *App) Close() error {
	a.drag.Close()
	if a.physics != nil {
		return a.physics.Close()
	}
	return nil
}
