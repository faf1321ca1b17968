package scene

import "github.com/go-gl/mathgl/mgl64"

// View holds the camera parameters shared by every frontend.
type View struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	FOV      float64
}

type Scene struct {
	Root *Object
	View View
}

func New() *Scene {
	return &Scene{
		Root: NewGroup("scene"),
		View: View{
			Position: mgl64.Vec3{0, 6, 14},
			Target:   mgl64.Vec3{0, 1, 0},
			FOV:      45,
		},
	}
}

func (s *Scene) Add(objs ...*Object) { s.Root.Add(objs...) }

// Objects returns every object below the root, depth first.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, 0)
	for _, c := range s.Root.Children {
		c.Traverse(func(o *Object) bool {
			out = append(out, o)
			return true
		})
	}
	return out
}

// Bodies returns the objects currently carrying a physics body.
func (s *Scene) Bodies() []*Object {
	out := make([]*Object, 0)
	s.Root.Traverse(func(o *Object) bool {
		if o.Physics != nil && o.Physics.Body != nil {
			out = append(out, o)
		}
		return true
	})
	return out
}
