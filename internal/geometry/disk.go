package geometry

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

const (
	DefaultHoleRadius = 0.1
	DefaultDiskHeight = 0.1
	DefaultMass       = 1.0

	diskSpokes = 8
)

type DiskParams struct {
	Name       string
	Radius     float64
	HoleRadius float64
	Height     float64
	Texture    string
	Mass       float64
	// Static disks keep mass 0 instead of taking DefaultMass.
	Static bool
}

func (p DiskParams) withDefaults() DiskParams {
	if p.Name == "" {
		p.Name = "disk"
	}
	if p.HoleRadius == 0 {
		p.HoleRadius = DefaultHoleRadius
	}
	if p.Height == 0 {
		p.Height = DefaultDiskHeight
	}
	switch {
	case p.Static:
		p.Mass = 0
	case p.Mass == 0:
		p.Mass = DefaultMass
	}
	return p
}

// Disk is a flat ring: a circle with a concentric hole, extruded by its
// height along local +z and laid flat on the ground by default.
type Disk struct {
	params DiskParams
	shape  *Shape
	mesh   *scene.Object
}

func NewDisk(params DiskParams) (*Disk, error) {
	p := params.withDefaults()

	outer, err := sdf.Circle2D(p.Radius)
	if err != nil {
		return nil, fmt.Errorf("disk outer circle: %w", err)
	}
	hole, err := sdf.Circle2D(p.HoleRadius)
	if err != nil {
		return nil, fmt.Errorf("disk hole: %w", err)
	}
	ring := sdf.Extrude3D(sdf.Difference2D(outer, hole), p.Height)
	// Extrude3D is centred on z = 0; shift so the ring spans [0, height].
	solid := sdf.Transform3D(ring, sdf.Translate3d(v3.Vec{Z: p.Height / 2}))

	shape := &Shape{Kind: "disk", solid: solid, edges: diskEdges(p)}
	mesh := scene.NewObject(p.Name, shape)
	mesh.Texture = p.Texture
	mesh.Physics = &scene.PhysicsHint{Mass: p.Mass}

	d := &Disk{params: p, shape: shape, mesh: mesh}
	d.SetDefaultPosition()
	return d, nil
}

func diskEdges(p DiskParams) []scene.Edge {
	edges := make([]scene.Edge, 0, 4*circleSegments+2*diskSpokes)
	for _, r := range []float64{p.Radius, p.HoleRadius} {
		edges = append(edges, circle(r, 0, false)...)
		edges = append(edges, circle(r, p.Height, false)...)
	}
	for i := 0; i < diskSpokes; i++ {
		a := float64(i) * 2 * math.Pi / diskSpokes
		c, s := math.Cos(a), math.Sin(a)
		for _, r := range []float64{p.Radius, p.HoleRadius} {
			edges = append(edges, scene.Edge{
				Start: mgl64.Vec3{r * c, r * s, 0},
				End:   mgl64.Vec3{r * c, r * s, p.Height},
			})
		}
	}
	return edges
}

// SetDefaultPosition lays the disk flat at the origin (-90 degrees about x).
func (d *Disk) SetDefaultPosition() {
	d.mesh.SetRotation(-math.Pi/2, 0, 0)
	d.mesh.SetPosition(0, 0, 0)
}

func (d *Disk) SetPosition(x, y, z float64) { d.mesh.SetPosition(x, y, z) }
func (d *Disk) SetRotation(x, y, z float64) { d.mesh.SetRotation(x, y, z) }

func (d *Disk) HeightDisk() float64   { return d.params.Height }
func (d *Disk) Radius() float64       { return d.params.Radius }
func (d *Disk) HoleRadius() float64   { return d.params.HoleRadius }
func (d *Disk) Mass() float64         { return d.params.Mass }
func (d *Disk) Object() *scene.Object { return d.mesh }
func (d *Disk) Shape() *Shape         { return d.shape }
