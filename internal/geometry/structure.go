package geometry

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

type StructureParams struct {
	BaseWidth       float64
	BaseDepth       float64
	BaseHeight      float64
	CylinderRadius  float64
	CylinderHeight  float64
	BaseTexture     string
	CylinderTexture string
}

// MainStructure is a rectangular base with three upright cylinders, one in
// the middle of each third of the base width. The base is widened by one
// cylinder radius on each side.
type MainStructure struct {
	params    StructureParams
	group     *scene.Object
	base      *scene.Object
	cylinders [3]*scene.Object
}

func NewMainStructure(p StructureParams) (*MainStructure, error) {
	extendedWidth := p.BaseWidth + 2*p.CylinderRadius
	sectionWidth := p.BaseWidth / 3

	box, err := sdf.Box3D(v3.Vec{X: extendedWidth, Y: p.BaseHeight, Z: p.BaseDepth}, 0)
	if err != nil {
		return nil, fmt.Errorf("structure base: %w", err)
	}
	base := scene.NewObject("base", &Shape{
		Kind:  "base",
		solid: box,
		edges: boxEdges(extendedWidth, p.BaseHeight, p.BaseDepth),
	})
	base.Texture = p.BaseTexture
	base.Physics = &scene.PhysicsHint{Mass: DefaultMass}

	cyl, err := sdf.Cylinder3D(p.CylinderHeight, p.CylinderRadius, 0)
	if err != nil {
		return nil, fmt.Errorf("structure cylinder: %w", err)
	}
	// sdfx cylinders run along z; stand them up along y.
	upright := sdf.Transform3D(cyl, sdf.RotateX(math.Pi/2))

	s := &MainStructure{params: p, group: scene.NewGroup("structure"), base: base}
	s.group.Add(base)

	names := [3]string{"cylinder_left", "cylinder_center", "cylinder_right"}
	y := p.BaseHeight/2 + p.CylinderHeight/2
	for i := range s.cylinders {
		c := scene.NewObject(names[i], &Shape{
			Kind:  "cylinder",
			solid: upright,
			edges: cylinderEdges(p.CylinderRadius, p.CylinderHeight),
		})
		c.Texture = p.CylinderTexture
		c.Physics = &scene.PhysicsHint{Mass: DefaultMass}
		x := -extendedWidth/2 + p.CylinderRadius + float64(i)*sectionWidth + sectionWidth/2
		c.SetPosition(x, y, 0)
		s.cylinders[i] = c
		s.group.Add(c)
	}

	s.SetDefaultPosition()
	return s, nil
}

func cylinderEdges(r, h float64) []scene.Edge {
	edges := append(circle(r, -h/2, true), circle(r, h/2, true)...)
	for i := 0; i < 4; i++ {
		a := float64(i) * math.Pi / 2
		x, z := r*math.Cos(a), r*math.Sin(a)
		edges = append(edges, scene.Edge{Start: mgl64.Vec3{x, -h / 2, z}, End: mgl64.Vec3{x, h / 2, z}})
	}
	return edges
}

func (s *MainStructure) SetDefaultPosition() {
	s.group.SetPosition(0, 0, 0)
}

func (s *MainStructure) SetPosition(x, y, z float64) { s.group.SetPosition(x, y, z) }
func (s *MainStructure) SetRotation(x, y, z float64) { s.group.SetRotation(x, y, z) }

// Cylinder positions are relative to the structure group and returned as
// copies.
func (s *MainStructure) LeftCylinderPosition() mgl64.Vec3   { return s.cylinders[0].Position }
func (s *MainStructure) CenterCylinderPosition() mgl64.Vec3 { return s.cylinders[1].Position }
func (s *MainStructure) RightCylinderPosition() mgl64.Vec3  { return s.cylinders[2].Position }

func (s *MainStructure) HeightBase() float64     { return s.params.BaseHeight }
func (s *MainStructure) CylinderRadius() float64 { return s.params.CylinderRadius }
func (s *MainStructure) CylinderHeight() float64 { return s.params.CylinderHeight }
func (s *MainStructure) Object() *scene.Object   { return s.group }
func (s *MainStructure) Base() *scene.Object     { return s.base }
func (s *MainStructure) Cylinders() []*scene.Object {
	return []*scene.Object{s.cylinders[0], s.cylinders[1], s.cylinders[2]}
}

// Shapes returns the distinct solids of the structure keyed by part name.
func (s *MainStructure) Shapes() map[string]*Shape {
	out := map[string]*Shape{"base": s.base.Geometry.(*Shape)}
	out["cylinder"] = s.cylinders[0].Geometry.(*Shape)
	return out
}
