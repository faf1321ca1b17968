package physics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/dynamics"
	"github.com/san-kum/hanoi3d/internal/scene"
)

type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome tells a caller of AddObject whether a body now exists.
type Outcome int

const (
	NotReady Outcome = iota
	Added
)

func (o Outcome) String() string {
	if o == Added {
		return "added"
	}
	return "not ready"
}

// Observer is notified after every Step that advanced the world.
type Observer interface {
	OnStep(t float64, objects []*scene.Object)
}

type ObserverFunc func(t float64, objects []*scene.Object)

func (f ObserverFunc) OnStep(t float64, objects []*scene.Object) { f(t, objects) }

type Manager struct {
	root   *scene.Object
	cfg    Config
	logger *log.Logger

	mu        sync.Mutex
	state     State
	err       error
	ready     chan struct{}
	readyOnce sync.Once
	module    *dynamics.Module
	world     *dynamics.World
	bodies    map[*scene.Object]*dynamics.RigidBody
	observers []Observer
}

// NewManager starts loading the engine module in the background and returns
// immediately. root is the subtree whose bodies Step writes back to.
func NewManager(ctx context.Context, root *scene.Object, loader dynamics.Loader, cfg Config, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Shape == "" {
		cfg.Shape = ShapeScale
	}
	m := &Manager{
		root:   root,
		cfg:    cfg,
		logger: logger.WithPrefix("physics"),
		ready:  make(chan struct{}),
		bodies: make(map[*scene.Object]*dynamics.RigidBody),
	}

	if err := cfg.validate(); err != nil {
		m.fail(err)
		return m
	}
	if loader == nil {
		loader = dynamics.DefaultLoader()
	}
	go m.init(ctx, loader)
	return m
}

func (m *Manager) init(ctx context.Context, loader dynamics.Loader) {
	start := time.Now()
	mod, err := loader.Load(ctx)
	if err == nil && mod == nil {
		err = errors.New("loader returned no module")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateClosed {
		return
	}
	if err != nil {
		m.failLocked(err)
		return
	}

	cc := mod.NewCollisionConfiguration()
	world := mod.NewWorld(mod.NewDispatcher(cc), mod.NewBroadphase(cc), mod.NewSolver(m.cfg.SolverIterations), cc)
	world.SetGravity(m.cfg.Gravity)

	m.module = mod
	m.world = world
	m.state = StateReady
	m.logger.Info("world ready", "gravity", m.cfg.Gravity, "took", time.Since(start))
	m.signal()
}

func (m *Manager) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLocked(err)
}

func (m *Manager) failLocked(err error) {
	m.state = StateFailed
	m.err = err
	m.logger.Error("engine initialisation failed", "err", err)
	m.signal()
}

func (m *Manager) signal() {
	m.readyOnce.Do(func() { close(m.ready) })
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Ready is closed once initialisation has finished, successfully or not, or
// the manager was closed.
func (m *Manager) Ready() <-chan struct{} { return m.ready }

// Wait blocks until initialisation finishes. It returns nil when the world
// is ready.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateErrLocked()
}

func (m *Manager) stateErrLocked() error {
	switch m.state {
	case StateReady:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: %w", ErrEngineFailed, m.err)
	case StateClosed:
		return ErrClosed
	}
	return ErrNotReady
}

// AddObject registers obj as a rigid body of the given mass. Mass 0 makes
// the body static. Registering the same object twice keeps the first body.
func (m *Manager) AddObject(obj *scene.Object, mass float64) (Outcome, error) {
	if obj == nil {
		return NotReady, ErrNilObject
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.stateErrLocked(); err != nil {
		return NotReady, err
	}
	if _, ok := m.bodies[obj]; ok {
		return Added, nil
	}

	shape := m.boxShape(obj)
	var inertia mgl64.Vec3
	if mass != 0 {
		inertia = shape.CalculateLocalInertia(mass)
	}

	start := dynamics.IdentityTransform()
	if m.cfg.SeedTransform {
		start = dynamics.NewTransform(worldPosition(obj), worldRotation(obj))
	}
	info := dynamics.NewRigidBodyConstructionInfo(mass, dynamics.NewDefaultMotionState(start), shape, inertia)
	info.Restitution = m.cfg.Restitution
	body := dynamics.NewRigidBody(info)

	m.world.AddRigidBody(body)
	m.bodies[obj] = body
	if obj.Physics == nil {
		obj.Physics = &scene.PhysicsHint{}
	}
	obj.Physics.Mass = mass
	obj.Physics.Body = body

	m.logger.Debug("body added", "object", obj.Name, "mass", mass, "half", shape.HalfExtents)
	return Added, nil
}

func (m *Manager) boxShape(obj *scene.Object) *dynamics.BoxShape {
	if m.cfg.Shape == ShapeBounds && obj.Geometry != nil {
		lo, hi := obj.Geometry.Bounds()
		half := mul(hi.Sub(lo).Mul(0.5), obj.Scale)
		center := mul(hi.Add(lo).Mul(0.5), obj.Scale)
		return m.module.NewOffsetBoxShape(half, center)
	}
	return m.module.NewBoxShape(obj.Scale.Mul(0.5))
}

// Body returns the rigid body registered for obj.
func (m *Manager) Body(obj *scene.Object) (*dynamics.RigidBody, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bodies[obj]
	return b, ok
}

func (m *Manager) NumBodies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bodies)
}

// SetGravity changes gravity on the live world.
func (m *Manager) SetGravity(g mgl64.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Gravity = g
	if m.world != nil {
		m.world.SetGravity(g)
	}
}

func (m *Manager) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Step advances the world by dt using the configured fixed time step and
// sub-step limit, then copies every body transform onto its object. It
// returns the number of internal steps taken; 0 when not ready.
func (m *Manager) Step(dt float64) int {
	m.mu.Lock()
	if m.state != StateReady {
		m.mu.Unlock()
		return 0
	}
	n := m.world.StepSimulation(dt, m.cfg.MaxSubSteps, m.cfg.FixedTimeStep)

	synced := make([]*scene.Object, 0, len(m.bodies))
	if m.root != nil {
		m.root.Traverse(func(obj *scene.Object) bool {
			if obj.Physics == nil || obj.Physics.Body == nil {
				return true
			}
			body, ok := m.bodies[obj]
			if !ok {
				return true
			}
			pos, rot := body.WorldTransform()
			setWorldTransform(obj, pos, rot)
			synced = append(synced, obj)
			return true
		})
	}
	t := m.world.Time()
	observers := append([]Observer(nil), m.observers...)
	m.mu.Unlock()

	if n > 0 {
		for _, o := range observers {
			o.OnStep(t, synced)
		}
	}
	return n
}

// SyncFromScene moves every body to its object's current world transform
// and stops it. Call it while stepping is paused, after objects were moved
// by hand.
func (m *Manager) SyncFromScene() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReady {
		return
	}
	for obj, body := range m.bodies {
		body.SetWorldTransform(dynamics.NewTransform(worldPosition(obj), worldRotation(obj)))
		body.SetLinearVelocity(mgl64.Vec3{})
		body.SetAngularVelocity(mgl64.Vec3{})
	}
}

// Run steps the world on a ticker at the fixed time step until ctx is
// done. It is meant for headless use; frontends call Step from their own
// frame loop instead.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Wait(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(m.cfg.FixedTimeStep * float64(time.Second)))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.Step(now.Sub(last).Seconds())
			last = now
			if m.State() != StateReady {
				return ErrClosed
			}
		}
	}
}

// Close removes every body from the world and clears the objects' body
// references. Later calls to AddObject return ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateClosed {
		return nil
	}
	for obj, body := range m.bodies {
		if m.world != nil {
			m.world.RemoveRigidBody(body)
		}
		if obj.Physics != nil && obj.Physics.Body == scene.Body(body) {
			obj.Physics.Body = nil
		}
	}
	m.bodies = make(map[*scene.Object]*dynamics.RigidBody)
	m.state = StateClosed
	m.signal()
	m.logger.Info("closed")
	return nil
}
