package dynamics

import "github.com/akmonengine/feather"

const (
	DefaultCellSize = 1.0
	DefaultCells    = 1024
	DefaultWorkers  = 1
)

// CollisionConfiguration sizes the broadphase grid and the narrow phase
// worker pool. Zero fields take the defaults.
type CollisionConfiguration struct {
	CellSize float64
	Cells    int
	Workers  int
}

func (c *CollisionConfiguration) withDefaults() CollisionConfiguration {
	out := CollisionConfiguration{CellSize: DefaultCellSize, Cells: DefaultCells, Workers: DefaultWorkers}
	if c == nil {
		return out
	}
	if c.CellSize > 0 {
		out.CellSize = c.CellSize
	}
	if c.Cells > 0 {
		out.Cells = c.Cells
	}
	if c.Workers > 0 {
		out.Workers = c.Workers
	}
	return out
}

// Dispatcher runs the narrow phase over broadphase pairs.
type Dispatcher struct {
	Workers int
}

func NewDispatcher(cfg *CollisionConfiguration) *Dispatcher {
	return &Dispatcher{Workers: cfg.withDefaults().Workers}
}

// NewBroadphase returns the spatial hash grid that culls pairs before the
// narrow phase.
func NewBroadphase(cfg *CollisionConfiguration) *feather.SpatialGrid {
	c := cfg.withDefaults()
	return feather.NewSpatialGrid(c.CellSize, c.Cells)
}
