package dynamics

import (
	"github.com/akmonengine/feather"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFixedTimeStep = 1.0 / 60.0
	DefaultMaxSubSteps   = 10
)

// World is a discrete dynamics world advanced in fixed internal steps. Each
// internal step is one feather step split into the solver's substeps.
type World struct {
	world  *feather.World
	bodies []*RigidBody

	localTime  float64
	simTime    float64
	collisions int
}

func NewWorld(d *Dispatcher, bp *feather.SpatialGrid, s *Solver, cfg *CollisionConfiguration) *World {
	if d == nil {
		d = NewDispatcher(cfg)
	}
	if bp == nil {
		bp = NewBroadphase(cfg)
	}
	if s == nil {
		s = NewSolver(DefaultSolverIterations)
	}
	w := &World{
		world: &feather.World{
			Substeps:    s.Substeps,
			SpatialGrid: bp,
			Workers:     d.Workers,
			Events:      feather.NewEvents(),
		},
		bodies: make([]*RigidBody, 0),
	}
	w.world.Events.Subscribe(feather.COLLISION_ENTER, func(feather.Event) { w.collisions++ })
	return w
}

func (w *World) SetGravity(g mgl64.Vec3) { w.world.Gravity = g }
func (w *World) Gravity() mgl64.Vec3     { return w.world.Gravity }

func (w *World) AddRigidBody(b *RigidBody) {
	for _, existing := range w.bodies {
		if existing == b {
			return
		}
	}
	w.bodies = append(w.bodies, b)
	w.world.AddBody(b.actor)
}

func (w *World) RemoveRigidBody(b *RigidBody) bool {
	for i, existing := range w.bodies {
		if existing == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			w.world.RemoveBody(b.actor)
			return true
		}
	}
	return false
}

func (w *World) NumBodies() int { return len(w.bodies) }

func (w *World) Bodies() []*RigidBody {
	out := make([]*RigidBody, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Time is the total simulated time.
func (w *World) Time() float64 { return w.simTime }

// Collisions counts the contacts that started since the world was built.
func (w *World) Collisions() int { return w.collisions }

// StepSimulation advances the world by timeStep. With maxSubSteps > 0 the
// elapsed time is accumulated and consumed in whole fixedTimeStep slices,
// at most maxSubSteps per call; any remainder carries into the next call.
// With maxSubSteps == 0 a single variable step of timeStep is taken.
// It returns the number of internal steps performed.
func (w *World) StepSimulation(timeStep float64, maxSubSteps int, fixedTimeStep float64) int {
	if timeStep <= 0 {
		return 0
	}

	steps := 0
	if maxSubSteps > 0 && fixedTimeStep > 0 {
		w.localTime += timeStep
		if w.localTime >= fixedTimeStep {
			steps = int(w.localTime / fixedTimeStep)
			w.localTime -= float64(steps) * fixedTimeStep
		}
		if steps > maxSubSteps {
			steps = maxSubSteps
		}
	} else {
		fixedTimeStep = timeStep
		w.localTime = 0
		steps = 1
	}

	for i := 0; i < steps; i++ {
		w.internalStep(fixedTimeStep)
	}
	return steps
}

func (w *World) internalStep(dt float64) {
	w.world.Step(dt)
	for _, b := range w.bodies {
		b.sync()
	}
	w.simTime += dt
}
