package drag

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

// Projector maps between world space and a w x h surface. depth is the
// distance along the view direction; ok is false behind the camera.
type Projector interface {
	Project(p mgl64.Vec3, w, h int) (x, y int, depth float64, ok bool)
	Unproject(x, y int, depth float64, w, h int) mgl64.Vec3
}

type EventKind int

const (
	HoverOn EventKind = iota
	HoverOff
	DragStart
	Drag
	DragEnd
)

func (k EventKind) String() string {
	switch k {
	case HoverOn:
		return "hoveron"
	case HoverOff:
		return "hoveroff"
	case DragStart:
		return "dragstart"
	case Drag:
		return "drag"
	case DragEnd:
		return "dragend"
	}
	return "unknown"
}

type Event struct {
	Kind   EventKind
	Object *scene.Object
	// Point is the world-space point under the pointer.
	Point mgl64.Vec3
}

type Listener func(Event)

type listener struct {
	id int
	fn Listener
}

// Controls picks objects under a pointer and drags them parallel to the
// view plane. Controls is driven from a single UI goroutine.
type Controls struct {
	Enabled bool

	projector Projector
	width     int
	height    int
	objects   []*scene.Object

	listeners map[EventKind][]listener
	nextID    int

	hovered  *scene.Object
	selected *scene.Object
	depth    float64
	offset   mgl64.Vec3
}

func NewControls(p Projector, width, height int) *Controls {
	return &Controls{
		Enabled:   true,
		projector: p,
		width:     width,
		height:    height,
		listeners: make(map[EventKind][]listener),
	}
}

func (c *Controls) SetViewport(w, h int) {
	c.width, c.height = w, h
}

func (c *Controls) Viewport() (int, int) { return c.width, c.height }

// SetObjects replaces the pickable set.
func (c *Controls) SetObjects(objs []*scene.Object) {
	c.objects = append(c.objects[:0:0], objs...)
	if c.hovered != nil && !contains(c.objects, c.hovered) {
		c.emit(Event{Kind: HoverOff, Object: c.hovered})
		c.hovered = nil
	}
}

func (c *Controls) Objects() []*scene.Object {
	return append([]*scene.Object(nil), c.objects...)
}

// On registers fn for kind and returns a function that removes it.
func (c *Controls) On(kind EventKind, fn Listener) func() {
	c.nextID++
	id := c.nextID
	c.listeners[kind] = append(c.listeners[kind], listener{id: id, fn: fn})
	return func() {
		ls := c.listeners[kind]
		for i, l := range ls {
			if l.id == id {
				c.listeners[kind] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

func (c *Controls) emit(e Event) {
	for _, l := range c.listeners[e.Kind] {
		l.fn(e)
	}
}

func (c *Controls) Hovered() *scene.Object  { return c.hovered }
func (c *Controls) Selected() *scene.Object { return c.selected }
func (c *Controls) Dragging() bool          { return c.selected != nil }

func (c *Controls) PointerDown(x, y int) {
	if !c.Enabled || c.projector == nil {
		return
	}
	obj, hit, ok := c.Pick(x, y)
	if !ok {
		return
	}
	_, _, depth, visible := c.projector.Project(hit, c.width, c.height)
	if !visible {
		return
	}
	c.selected = obj
	c.depth = depth
	c.offset = worldPosition(obj).Sub(hit)
	c.emit(Event{Kind: DragStart, Object: obj, Point: hit})
}

func (c *Controls) PointerMove(x, y int) {
	if !c.Enabled || c.projector == nil {
		return
	}
	if c.selected != nil {
		p := c.projector.Unproject(x, y, c.depth, c.width, c.height)
		setWorldPosition(c.selected, p.Add(c.offset))
		c.emit(Event{Kind: Drag, Object: c.selected, Point: p})
		return
	}

	obj, hit, ok := c.Pick(x, y)
	if !ok {
		obj = nil
	}
	if obj == c.hovered {
		return
	}
	if c.hovered != nil {
		c.emit(Event{Kind: HoverOff, Object: c.hovered})
	}
	c.hovered = obj
	if obj != nil {
		c.emit(Event{Kind: HoverOn, Object: obj, Point: hit})
	}
}

func (c *Controls) PointerUp(x, y int) {
	if c.selected == nil {
		return
	}
	obj := c.selected
	c.selected = nil
	var p mgl64.Vec3
	if c.projector != nil {
		p = c.projector.Unproject(x, y, c.depth, c.width, c.height)
	}
	c.emit(Event{Kind: DragEnd, Object: obj, Point: p})
}

// Pick casts a ray through the pointer and returns the nearest object whose
// world bounds it crosses, with the entry point.
func (c *Controls) Pick(x, y int) (*scene.Object, mgl64.Vec3, bool) {
	if c.projector == nil {
		return nil, mgl64.Vec3{}, false
	}
	origin := c.projector.Unproject(x, y, 1, c.width, c.height)
	dir := c.projector.Unproject(x, y, 2, c.width, c.height).Sub(origin)
	if dir.Len() == 0 {
		return nil, mgl64.Vec3{}, false
	}
	dir = dir.Normalize()

	var best *scene.Object
	bestT := math.Inf(1)
	for _, obj := range c.objects {
		lo, hi, ok := obj.WorldBounds()
		if !ok {
			continue
		}
		if t, hit := intersectAABB(origin, dir, lo, hi); hit && t < bestT {
			best, bestT = obj, t
		}
	}
	if best == nil {
		return nil, mgl64.Vec3{}, false
	}
	return best, origin.Add(dir.Mul(bestT)), true
}

// intersectAABB is the slab test. It returns the entry distance along dir.
func intersectAABB(origin, dir, lo, hi mgl64.Vec3) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for k := 0; k < 3; k++ {
		if math.Abs(dir[k]) < 1e-12 {
			if origin[k] < lo[k] || origin[k] > hi[k] {
				return 0, false
			}
			continue
		}
		t1 := (lo[k] - origin[k]) / dir[k]
		t2 := (hi[k] - origin[k]) / dir[k]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		tmin = 0
	}
	return tmin, true
}

func worldPosition(o *scene.Object) mgl64.Vec3 {
	return o.WorldPoint(mgl64.Vec3{})
}

func setWorldPosition(o *scene.Object, p mgl64.Vec3) {
	if o.Parent == nil {
		o.Position = p
		return
	}
	o.Position = mgl64.TransformCoordinate(p, o.Parent.WorldMatrix().Inv())
}

func contains(objs []*scene.Object, o *scene.Object) bool {
	for _, x := range objs {
		if x == o {
			return true
		}
	}
	return false
}
