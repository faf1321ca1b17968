package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

// Segment is a projected edge in pixel space.
type Segment struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Object         *scene.Object
}

// Project turns every edge below root into pixel segments sorted far to
// near. Edges with an endpoint behind the camera or far off the surface are
// dropped.
func Project(root *scene.Object, cam *Camera, w, h int) []Segment {
	segs := make([]Segment, 0)
	if root == nil || cam == nil {
		return segs
	}
	root.Traverse(func(o *scene.Object) bool {
		if o.Geometry == nil {
			return true
		}
		m := o.WorldMatrix()
		for _, e := range o.Geometry.Edges() {
			x1, y1, d1, ok1 := cam.Project(transform(e.Start, m), w, h)
			x2, y2, d2, ok2 := cam.Project(transform(e.End, m), w, h)
			if !ok1 || !ok2 || offSurface(x1, y1, w, h) || offSurface(x2, y2, w, h) {
				continue
			}
			segs = append(segs, Segment{x1, y1, x2, y2, (d1 + d2) / 2, o})
		}
		return true
	})
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth > segs[j].Depth })
	return segs
}

// Draw plots segments onto the canvas. When only is non-nil, segments of
// other objects are skipped.
func Draw(c *Canvas, segs []Segment, only func(*scene.Object) bool) {
	for _, s := range segs {
		if only != nil && !only(s.Object) {
			continue
		}
		if s.X1 == s.X2 && s.Y1 == s.Y2 {
			c.Set(s.X1, s.Y1)
			continue
		}
		c.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
	}
}

// RenderScene clears the canvas and draws the scene's wireframe.
func RenderScene(c *Canvas, sc *scene.Scene, cam *Camera) {
	if c == nil || sc == nil || cam == nil {
		return
	}
	c.Clear()
	Draw(c, Project(sc.Root, cam, c.DotWidth(), c.DotHeight()), nil)
}

func transform(p mgl64.Vec3, m mgl64.Mat4) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, m)
}

func offSurface(x, y, w, h int) bool {
	return x < -4*w || x > 5*w || y < -4*h || y > 5*h
}
