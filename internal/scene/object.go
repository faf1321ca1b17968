package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the render-side view of a simulated rigid body. The scene keeps a
// reference only; the physics world owns the body's lifecycle.
type Body interface {
	WorldTransform() (mgl64.Vec3, mgl64.Quat)
}

// PhysicsHint is inert metadata until a physics manager consumes it.
type PhysicsHint struct {
	Mass float64
	Body Body
}

type Edge struct {
	Start, End mgl64.Vec3
}

// Geometry describes an object's shape in local coordinates.
type Geometry interface {
	Bounds() (min, max mgl64.Vec3)
	Edges() []Edge
}

type Object struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
	Geometry Geometry
	Texture  string
	Physics  *PhysicsHint

	Parent   *Object
	Children []*Object
}

func NewObject(name string, geom Geometry) *Object {
	return &Object{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Geometry: geom,
	}
}

// NewGroup returns an object without geometry that only carries children.
func NewGroup(name string) *Object {
	return NewObject(name, nil)
}

func (o *Object) Add(children ...*Object) {
	for _, c := range children {
		if c == nil || c == o {
			continue
		}
		if c.Parent != nil {
			c.Parent.Remove(c)
		}
		c.Parent = o
		o.Children = append(o.Children, c)
	}
}

func (o *Object) Remove(child *Object) bool {
	for i, c := range o.Children {
		if c == child {
			o.Children = append(o.Children[:i], o.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

func (o *Object) SetPosition(x, y, z float64) {
	o.Position = mgl64.Vec3{x, y, z}
}

// SetRotation sets the orientation from Euler angles in radians, applied in
// XYZ order.
func (o *Object) SetRotation(x, y, z float64) {
	o.Rotation = EulerXYZ(x, y, z)
}

func (o *Object) SetScale(x, y, z float64) {
	o.Scale = mgl64.Vec3{x, y, z}
}

// EulerXYZ converts intrinsic XYZ Euler angles to a quaternion.
func EulerXYZ(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}

func (o *Object) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(o.Position.X(), o.Position.Y(), o.Position.Z())
	s := mgl64.Scale3D(o.Scale.X(), o.Scale.Y(), o.Scale.Z())
	return t.Mul4(o.Rotation.Normalize().Mat4()).Mul4(s)
}

func (o *Object) WorldMatrix() mgl64.Mat4 {
	m := o.LocalMatrix()
	for p := o.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPoint maps a point in the object's local space to world space.
func (o *Object) WorldPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, o.WorldMatrix())
}

// WorldBounds returns the world-space axis-aligned box around the object's
// geometry. ok is false for objects without geometry.
func (o *Object) WorldBounds() (min, max mgl64.Vec3, ok bool) {
	if o.Geometry == nil {
		return min, max, false
	}
	lo, hi := o.Geometry.Bounds()
	m := o.WorldMatrix()
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < 8; i++ {
		c := mgl64.Vec3{lo.X(), lo.Y(), lo.Z()}
		if i&1 != 0 {
			c[0] = hi.X()
		}
		if i&2 != 0 {
			c[1] = hi.Y()
		}
		if i&4 != 0 {
			c[2] = hi.Z()
		}
		w := mgl64.TransformCoordinate(c, m)
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], w[k])
			max[k] = math.Max(max[k], w[k])
		}
	}
	return min, max, true
}

// Traverse visits o and every descendant depth first. Returning false from
// fn stops the walk.
func (o *Object) Traverse(fn func(*Object) bool) bool {
	if !fn(o) {
		return false
	}
	for _, c := range o.Children {
		if !c.Traverse(fn) {
			return false
		}
	}
	return true
}

func (o *Object) Find(name string) *Object {
	var found *Object
	o.Traverse(func(obj *Object) bool {
		if obj.Name == name {
			found = obj
			return false
		}
		return true
	})
	return found
}
