package dynamics

import (
	"math"

	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// minHalfExtent keeps degenerate boxes from having zero volume.
const minHalfExtent = 1e-4

// BoxShape is a box collision shape described by its half extents.
type BoxShape struct {
	HalfExtents mgl64.Vec3
	// Offset is the box centre in body space.
	Offset mgl64.Vec3
}

func NewBoxShape(halfExtents mgl64.Vec3) *BoxShape {
	return &BoxShape{HalfExtents: halfExtents}
}

func NewOffsetBoxShape(halfExtents, offset mgl64.Vec3) *BoxShape {
	return &BoxShape{HalfExtents: halfExtents, Offset: offset}
}

func (b *BoxShape) box() *actor.Box {
	h := b.HalfExtents
	for i := range h {
		h[i] = math.Max(h[i], minHalfExtent)
	}
	return &actor.Box{HalfExtents: h}
}

// CalculateLocalInertia returns the diagonal inertia tensor of a solid box
// of the given mass.
func (b *BoxShape) CalculateLocalInertia(mass float64) mgl64.Vec3 {
	return diagonal(b.box().ComputeInertia(mass))
}

// AABB returns the axis-aligned box enclosing the shape under t.
func (b *BoxShape) AABB(t Transform) (min, max mgl64.Vec3) {
	box := b.box()
	box.ComputeAABB(b.centre(t))
	aabb := box.GetAABB()
	return aabb.Min, aabb.Max
}

// centre converts a body transform into the pose of the box centre.
func (b *BoxShape) centre(t Transform) actor.Transform {
	rot := t.Rotation.Normalize()
	return actor.Transform{
		Position:        t.Origin.Add(rot.Rotate(b.Offset)),
		Rotation:        rot,
		InverseRotation: rot.Inverse(),
	}
}

// origin is the inverse of centre.
func (b *BoxShape) origin(c actor.Transform) Transform {
	return Transform{
		Origin:   c.Position.Sub(c.Rotation.Rotate(b.Offset)),
		Rotation: c.Rotation,
	}
}

func diagonal(m mgl64.Mat3) mgl64.Vec3 {
	return mgl64.Vec3{m.At(0, 0), m.At(1, 1), m.At(2, 2)}
}
