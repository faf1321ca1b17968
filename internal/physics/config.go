package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/dynamics"
)

// ShapeMode selects how a box collision shape is sized from an object.
type ShapeMode string

const (
	// ShapeScale uses half the object's scale as half extents.
	ShapeScale ShapeMode = "scale"
	// ShapeBounds fits the box to the object's geometry bounds.
	ShapeBounds ShapeMode = "bounds"
)

type Config struct {
	Gravity          mgl64.Vec3
	FixedTimeStep    float64
	MaxSubSteps      int
	SolverIterations int
	Restitution      float64
	Shape            ShapeMode
	// SeedTransform starts bodies at their object's world transform instead
	// of the identity.
	SeedTransform bool
}

func DefaultConfig() Config {
	return Config{
		Gravity:          mgl64.Vec3{0, -9.8, 0},
		FixedTimeStep:    dynamics.DefaultFixedTimeStep,
		MaxSubSteps:      dynamics.DefaultMaxSubSteps,
		SolverIterations: dynamics.DefaultSolverIterations,
		Restitution:      dynamics.DefaultRestitution,
		Shape:            ShapeScale,
	}
}

func (c Config) validate() error {
	if c.FixedTimeStep <= 0 {
		return fmt.Errorf("fixed time step must be positive, got %f", c.FixedTimeStep)
	}
	if c.MaxSubSteps < 0 {
		return fmt.Errorf("max sub steps must not be negative, got %d", c.MaxSubSteps)
	}
	switch c.Shape {
	case ShapeScale, ShapeBounds, "":
	default:
		return fmt.Errorf("unknown shape mode %q", c.Shape)
	}
	return nil
}
