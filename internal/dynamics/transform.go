package dynamics

import "github.com/go-gl/mathgl/mgl64"

type Transform struct {
	Origin   mgl64.Vec3
	Rotation mgl64.Quat
}

func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

func NewTransform(origin mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{Origin: origin, Rotation: rotation.Normalize()}
}

// MotionState carries a body's simulated transform to whoever renders it.
type MotionState struct {
	transform Transform
}

func NewDefaultMotionState(t Transform) *MotionState {
	return &MotionState{transform: t}
}

func (m *MotionState) WorldTransform() Transform     { return m.transform }
func (m *MotionState) SetWorldTransform(t Transform) { m.transform = t }
