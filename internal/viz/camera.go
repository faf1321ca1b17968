package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

const maxPitch = 1.5

// Camera orbits a target point. Projection works in any pixel space; the
// terminal frontends pass the canvas dot size.
type Camera struct {
	Target   mgl64.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
	FOV      float64 // vertical, degrees
	Near     float64
	Zoom     float64
}

// NewCamera places the camera at the scene's view position looking at its
// target.
func NewCamera(v scene.View) *Camera {
	d := v.Position.Sub(v.Target)
	dist := d.Len()
	c := &Camera{Target: v.Target, Distance: dist, FOV: v.FOV, Near: 0.1, Zoom: 1}
	if dist > 0 {
		c.Yaw = math.Atan2(d.X(), d.Z())
		c.Pitch = math.Asin(d.Y() / dist)
	}
	if c.FOV <= 0 {
		c.FOV = 45
	}
	return c
}

func (c *Camera) RotateYaw(a float64) { c.Yaw += a }

func (c *Camera) RotatePitch(a float64) {
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+a))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Eye is the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	dir := mgl64.Vec3{cp * math.Sin(c.Yaw), math.Sin(c.Pitch), cp * math.Cos(c.Yaw)}
	return c.Target.Add(dir.Mul(c.Distance))
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
}

func (c *Camera) focal(w, h int) float64 {
	half := float64(min(w, h)) / 2
	return half / math.Tan(mgl64.DegToRad(c.FOV)/2) * c.Zoom
}

// Project maps a world point to pixel coordinates on a w x h surface. ok is
// false for points closer than the near plane or behind the camera.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	v := mgl64.TransformCoordinate(p, c.View())
	depth = -v.Z()
	if depth < c.Near {
		return 0, 0, depth, false
	}
	f := c.focal(w, h)
	x = int(math.Round(float64(w)/2 + v.X()*f/depth))
	y = int(math.Round(float64(h)/2 - v.Y()*f/depth))
	return x, y, depth, true
}

// Unproject returns the world point under pixel (x, y) at the given depth.
func (c *Camera) Unproject(x, y int, depth float64, w, h int) mgl64.Vec3 {
	f := c.focal(w, h)
	v := mgl64.Vec3{
		(float64(x) - float64(w)/2) * depth / f,
		(float64(h)/2 - float64(y)) * depth / f,
		-depth,
	}
	return mgl64.TransformCoordinate(v, c.View().Inv())
}
