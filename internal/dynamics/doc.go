// Package dynamics adapts the feather XPBD engine to the construction
// sequence of a classic rigid-body library.
//
// A [Module] is the factory a caller resolves once (possibly
// asynchronously, see [Loader]) and then uses to build the collaborators of
// a [World]:
//
//   - [CollisionConfiguration]: broadphase grid size and worker count
//   - broadphase: feather's uniform spatial grid ([Module.NewBroadphase])
//   - [Dispatcher]: the GJK/EPA narrow phase workers
//   - [Solver]: XPBD substeps per internal step
//
// # Example
//
//	mod, _ := dynamics.DefaultLoader().Load(ctx)
//	cfg := mod.NewCollisionConfiguration()
//	world := mod.NewWorld(mod.NewDispatcher(cfg), mod.NewBroadphase(cfg), mod.NewSolver(10), cfg)
//	world.SetGravity(mgl64.Vec3{0, -9.8, 0})
//	world.StepSimulation(1.0/60, 10, 1.0/60)
//
// Bodies with zero mass are static: they have infinite mass, are never
// integrated and only push dynamic bodies away. Resting bodies fall asleep
// inside feather; moving one through [RigidBody.SetWorldTransform] or giving
// it a velocity wakes it.
//
// # Thread Safety
//
// A World is NOT safe for concurrent use. Callers step and read it from one
// goroutine or guard it themselves.
package dynamics
