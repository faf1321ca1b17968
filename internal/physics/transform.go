package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

func worldPosition(obj *scene.Object) mgl64.Vec3 {
	return obj.WorldPoint(mgl64.Vec3{})
}

// worldRotation composes the rotations of obj and its ancestors. Scale is
// ignored.
func worldRotation(obj *scene.Object) mgl64.Quat {
	q := obj.Rotation
	for p := obj.Parent; p != nil; p = p.Parent {
		q = p.Rotation.Mul(q)
	}
	return q.Normalize()
}

// setWorldTransform writes a world-space pose onto obj, converting it into
// the parent's space when obj is nested.
func setWorldTransform(obj *scene.Object, pos mgl64.Vec3, rot mgl64.Quat) {
	if obj.Parent == nil {
		obj.Position = pos
		obj.Rotation = rot
		return
	}
	inv := obj.Parent.WorldMatrix().Inv()
	obj.Position = mgl64.TransformCoordinate(pos, inv)
	obj.Rotation = worldRotation(obj.Parent).Inverse().Mul(rot).Normalize()
}

func mul(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
