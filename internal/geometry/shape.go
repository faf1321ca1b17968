package geometry

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

const (
	circleSegments = 32
	minMeshCells   = 16
	maxMeshCells   = 256
)

var _ scene.Geometry = (*Shape)(nil)

// Shape pairs an sdfx solid with the outline used for wireframe drawing.
type Shape struct {
	Kind  string
	solid sdf.SDF3
	edges []scene.Edge
}

func (s *Shape) Bounds() (min, max mgl64.Vec3) {
	bb := s.solid.BoundingBox()
	return toVec(bb.Min), toVec(bb.Max)
}

func (s *Shape) Edges() []scene.Edge { return s.edges }

// Contains reports whether the local-space point lies inside the solid.
func (s *Shape) Contains(p mgl64.Vec3) bool {
	return s.solid.Evaluate(v3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()}) <= 0
}

// Distance is the signed distance from p to the surface, negative inside.
func (s *Shape) Distance(p mgl64.Vec3) float64 {
	return s.solid.Evaluate(v3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()})
}

// Tessellate converts the solid to triangles with marching cubes. cells <= 0
// picks a resolution from the solid's proportions so thin extrusions still
// get at least two cells across their shortest side.
func (s *Shape) Tessellate(cells int) *Mesh {
	if cells <= 0 {
		cells = autoCells(s.solid.BoundingBox())
	}
	triangles := render.ToTriangles(s.solid, render.NewMarchingCubesUniform(cells))

	mesh := &Mesh{
		Name:     s.Kind,
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			mesh.Indices = append(mesh.Indices, uint32(i*3+j))
		}
	}
	return mesh
}

func autoCells(bb sdf.Box3) int {
	size := bb.Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	shortest := math.Min(size.X, math.Min(size.Y, size.Z))
	if shortest <= 0 {
		return minMeshCells
	}
	cells := int(math.Ceil(2 * longest / shortest))
	if cells < minMeshCells {
		cells = minMeshCells
	}
	if cells > maxMeshCells {
		cells = maxMeshCells
	}
	return cells
}

func toVec(v v3.Vec) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

// circle returns the segments of a circle of radius r in the plane y = 0 when
// yUp is set, otherwise in the plane z = h.
func circle(r, h float64, yUp bool) []scene.Edge {
	edges := make([]scene.Edge, 0, circleSegments)
	point := func(a float64) mgl64.Vec3 {
		if yUp {
			return mgl64.Vec3{r * math.Cos(a), h, r * math.Sin(a)}
		}
		return mgl64.Vec3{r * math.Cos(a), r * math.Sin(a), h}
	}
	step := 2 * math.Pi / circleSegments
	for i := 0; i < circleSegments; i++ {
		edges = append(edges, scene.Edge{Start: point(float64(i) * step), End: point(float64(i+1) * step)})
	}
	return edges
}

func boxEdges(w, h, d float64) []scene.Edge {
	x, y, z := w/2, h/2, d/2
	v := []mgl64.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	edges := make([]scene.Edge, 0, len(ei))
	for _, e := range ei {
		edges = append(edges, scene.Edge{Start: v[e[0]], End: v[e[1]]})
	}
	return edges
}
