package dynamics

import (
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultRestitution = 0.0
	DefaultFriction    = 0.5
)

type RigidBodyConstructionInfo struct {
	Mass         float64
	MotionState  *MotionState
	Shape        *BoxShape
	LocalInertia mgl64.Vec3
	Restitution  float64
	Friction     float64
}

func NewRigidBodyConstructionInfo(mass float64, ms *MotionState, shape *BoxShape, localInertia mgl64.Vec3) RigidBodyConstructionInfo {
	return RigidBodyConstructionInfo{
		Mass:         mass,
		MotionState:  ms,
		Shape:        shape,
		LocalInertia: localInertia,
		Restitution:  DefaultRestitution,
		Friction:     DefaultFriction,
	}
}

// RigidBody is a box simulated by feather. Its motion state holds the body
// origin, which sits the shape's Offset away from the simulated box centre.
type RigidBody struct {
	actor       *actor.RigidBody
	shape       *BoxShape
	motionState *MotionState
	mass        float64
}

func NewRigidBody(info RigidBodyConstructionInfo) *RigidBody {
	ms := info.MotionState
	if ms == nil {
		ms = NewDefaultMotionState(IdentityTransform())
	}
	shape := info.Shape
	if shape == nil {
		shape = NewBoxShape(mgl64.Vec3{0.5, 0.5, 0.5})
	}

	box := shape.box()
	kind, density := actor.BodyTypeStatic, 0.0
	if info.Mass != 0 {
		kind = actor.BodyTypeDynamic
		density = info.Mass / box.ComputeMass(1)
	}

	b := &RigidBody{shape: shape, motionState: ms, mass: info.Mass}
	b.actor = actor.NewRigidBody(shape.centre(ms.WorldTransform()), box, kind, density)
	b.actor.Id = b
	b.actor.Material.Restitution = info.Restitution
	b.actor.Material.StaticFriction = info.Friction
	b.actor.Material.DynamicFriction = info.Friction
	if info.Mass != 0 && info.LocalInertia != (mgl64.Vec3{}) {
		b.actor.InertiaLocal = mgl64.Diag3(info.LocalInertia)
		b.actor.InverseInertiaLocal = b.actor.InertiaLocal.Inv()
	}
	return b
}

// IsStatic reports whether the body has infinite mass.
func (b *RigidBody) IsStatic() bool { return b.actor.BodyType == actor.BodyTypeStatic }

// IsSleeping reports whether feather has put the body to rest.
func (b *RigidBody) IsSleeping() bool { return b.actor.IsSleeping }

func (b *RigidBody) Mass() float64             { return b.mass }
func (b *RigidBody) Shape() *BoxShape          { return b.shape }
func (b *RigidBody) MotionState() *MotionState { return b.motionState }

func (b *RigidBody) InverseMass() float64 {
	if b.IsStatic() {
		return 0
	}
	return 1 / b.mass
}

func (b *RigidBody) InverseInertia() mgl64.Vec3 {
	if b.IsStatic() {
		return mgl64.Vec3{}
	}
	return diagonal(b.actor.InverseInertiaLocal)
}

func (b *RigidBody) LinearVelocity() mgl64.Vec3  { return b.actor.Velocity }
func (b *RigidBody) AngularVelocity() mgl64.Vec3 { return b.actor.AngularVelocity }

func (b *RigidBody) SetLinearVelocity(v mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.actor.Velocity = v
	b.actor.WakeUp()
}

func (b *RigidBody) SetAngularVelocity(w mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.actor.AngularVelocity = w
	b.actor.WakeUp()
}

func (b *RigidBody) ApplyCentralImpulse(j mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.actor.Velocity = b.actor.Velocity.Add(j.Mul(1 / b.mass))
	b.actor.WakeUp()
}

// WorldTransform exposes the motion state as position and rotation.
func (b *RigidBody) WorldTransform() (mgl64.Vec3, mgl64.Quat) {
	t := b.motionState.WorldTransform()
	return t.Origin, t.Rotation
}

// SetWorldTransform teleports the body and wakes it.
func (b *RigidBody) SetWorldTransform(t Transform) {
	b.motionState.SetWorldTransform(t)
	c := b.shape.centre(t)
	b.actor.Transform = c
	b.actor.PreviousTransform = c
	b.actor.Shape.ComputeAABB(c)
	b.actor.WakeUp()
}

func (b *RigidBody) AABB() (min, max mgl64.Vec3) {
	aabb := b.actor.Shape.GetAABB()
	return aabb.Min, aabb.Max
}

// sync copies the simulated pose into the motion state.
func (b *RigidBody) sync() {
	if b.IsStatic() {
		return
	}
	b.motionState.SetWorldTransform(b.shape.origin(b.actor.Transform))
}
