package dynamics

import (
	"context"

	"github.com/akmonengine/feather"
	"github.com/go-gl/mathgl/mgl64"
)

// Module is the engine factory. A caller obtains exactly one from a Loader
// and builds every engine object through it.
type Module struct {
	CellSize float64
	Cells    int
	Workers  int
}

func NewModule() *Module {
	return &Module{CellSize: DefaultCellSize, Cells: DefaultCells, Workers: DefaultWorkers}
}

func (m *Module) NewCollisionConfiguration() *CollisionConfiguration {
	return &CollisionConfiguration{CellSize: m.CellSize, Cells: m.Cells, Workers: m.Workers}
}

func (m *Module) NewDispatcher(cfg *CollisionConfiguration) *Dispatcher {
	return NewDispatcher(cfg)
}

func (m *Module) NewBroadphase(cfg *CollisionConfiguration) *feather.SpatialGrid {
	return NewBroadphase(cfg)
}

func (m *Module) NewSolver(iterations int) *Solver { return NewSolver(iterations) }

func (m *Module) NewWorld(d *Dispatcher, bp *feather.SpatialGrid, s *Solver, cfg *CollisionConfiguration) *World {
	return NewWorld(d, bp, s, cfg)
}

func (m *Module) NewBoxShape(halfExtents mgl64.Vec3) *BoxShape { return NewBoxShape(halfExtents) }

func (m *Module) NewOffsetBoxShape(halfExtents, offset mgl64.Vec3) *BoxShape {
	return NewOffsetBoxShape(halfExtents, offset)
}

// Loader resolves a Module. Load may block; callers run it off the frame
// loop.
type Loader interface {
	Load(ctx context.Context) (*Module, error)
}

type LoaderFunc func(ctx context.Context) (*Module, error)

func (f LoaderFunc) Load(ctx context.Context) (*Module, error) { return f(ctx) }

// DefaultLoader resolves the feather-backed module immediately unless ctx is
// already done.
func DefaultLoader() Loader {
	return LoaderFunc(func(ctx context.Context) (*Module, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewModule(), nil
	})
}
