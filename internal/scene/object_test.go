package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type boxGeom struct{ half float64 }

func (b boxGeom) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	return mgl64.Vec3{-b.half, -b.half, -b.half}, mgl64.Vec3{b.half, b.half, b.half}
}

func (b boxGeom) Edges() []Edge { return nil }

func TestNewObjectDefaults(t *testing.T) {
	o := NewObject("a", nil)
	if o.Rotation.Sub(mgl64.QuatIdent()).Len() > 1e-9 {
		t.Errorf("expected identity rotation, got %v", o.Rotation)
	}
	if o.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("expected unit scale, got %v", o.Scale)
	}
}

func TestSetRotationMatchesAxisRotation(t *testing.T) {
	o := NewObject("disk", nil)
	o.SetRotation(-math.Pi/2, 0, 0)

	want := mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	if o.Rotation.Sub(want).Len() > 1e-9 {
		t.Errorf("expected %v, got %v", want, o.Rotation)
	}

	// +z in local space points to +y after the flat-on-ground rotation.
	up := o.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	if up.Sub(mgl64.Vec3{0, 1, 0}).Len() > 1e-9 {
		t.Errorf("expected +y, got %v", up)
	}
}

func TestWorldMatrixComposesParents(t *testing.T) {
	root := NewGroup("root")
	root.SetPosition(1, 2, 3)
	child := NewObject("child", nil)
	child.SetPosition(1, 0, 0)
	root.Add(child)

	p := child.WorldPoint(mgl64.Vec3{})
	if p.Sub(mgl64.Vec3{2, 2, 3}).Len() > 1e-9 {
		t.Errorf("expected (2,2,3), got %v", p)
	}

	root.SetRotation(0, math.Pi/2, 0)
	p = child.WorldPoint(mgl64.Vec3{})
	if p.Sub(mgl64.Vec3{1, 2, 2}).Len() > 1e-9 {
		t.Errorf("expected (1,2,2), got %v", p)
	}
}

func TestAddReparents(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewObject("c", nil)

	a.Add(c)
	b.Add(c)

	if len(a.Children) != 0 {
		t.Errorf("expected c removed from a, got %d children", len(a.Children))
	}
	if c.Parent != b {
		t.Error("expected c parented to b")
	}
}

func TestWorldBounds(t *testing.T) {
	o := NewObject("box", boxGeom{half: 1})
	o.SetPosition(0, 5, 0)
	o.SetScale(2, 1, 1)

	min, max, ok := o.WorldBounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if min.Sub(mgl64.Vec3{-2, 4, -1}).Len() > 1e-9 || max.Sub(mgl64.Vec3{2, 6, 1}).Len() > 1e-9 {
		t.Errorf("unexpected bounds %v %v", min, max)
	}

	if _, _, ok := NewGroup("g").WorldBounds(); ok {
		t.Error("groups have no bounds")
	}
}

func TestSceneBodies(t *testing.T) {
	s := New()
	a := NewObject("a", nil)
	b := NewObject("b", nil)
	b.Physics = &PhysicsHint{Mass: 1}
	g := NewGroup("g")
	g.Add(b)
	s.Add(a, g)

	if n := len(s.Objects()); n != 3 {
		t.Errorf("expected 3 objects, got %d", n)
	}
	if n := len(s.Bodies()); n != 0 {
		t.Errorf("hint without body is not a body, got %d", n)
	}
	if s.Root.Find("b") != b {
		t.Error("find failed")
	}
}
