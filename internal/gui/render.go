package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
	"github.com/san-kum/hanoi3d/internal/viz"
)

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

// camera3D mirrors the orbit camera. Zoom narrows the field of view the same
// way it scales the focal length in viz.Camera.
func camera3D(c *viz.Camera) rl.Camera3D {
	half := mgl64.DegToRad(c.FOV) / 2
	fovy := 2 * math.Atan(math.Tan(half)/c.Zoom)
	return rl.NewCamera3D(vec3(c.Eye()), vec3(c.Target), rl.NewVector3(0, 1, 0), float32(mgl64.RadToDeg(fovy)), rl.CameraPerspective)
}

func (w *Window) drawScene() {
	rl.BeginMode3D(camera3D(w.app.Camera()))
	drawGrid(20, 1)

	hovered := w.app.Drag().Hovered()
	if sel := w.app.Controls().Selected(); sel != nil {
		hovered = sel
	}
	w.app.Scene().Root.Traverse(func(o *scene.Object) bool {
		if o.Geometry == nil {
			return true
		}
		col := colAccent
		if o == hovered {
			col = colHover
		}
		drawEdges(o, col)
		return true
	})
	rl.EndMode3D()
}

func drawEdges(o *scene.Object, col rl.Color) {
	m := o.WorldMatrix()
	for _, e := range o.Geometry.Edges() {
		a := mgl64.TransformCoordinate(e.Start, m)
		b := mgl64.TransformCoordinate(e.End, m)
		rl.DrawLine3D(vec3(a), vec3(b), col)
	}
}

func drawGrid(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, 0, -half), rl.NewVector3(pos, 0, half), colGrid)
		rl.DrawLine3D(rl.NewVector3(-half, 0, pos), rl.NewVector3(half, 0, pos), colGrid)
	}
}

func (w *Window) DrawHUD() {
	sw, sh := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	w.drawText("hanoi3d", 30, 30, 24, colSelect)

	status, col := "STATIC", colTextDim
	if ph := w.app.Physics(); ph != nil {
		status = ph.State().String()
		if w.app.Stepping() {
			status, col = "STEPPING", colSelect
		}
	}
	w.drawText(status, sw-150, 30, 16, col)

	name := "-"
	if h := w.app.Drag().Hovered(); h != nil {
		name = h.Name
	}
	w.drawText(fmt.Sprintf(":: %s", name), 140, 34, 16, colText)

	w.DrawTelemetry(30, sh-120)
	w.drawText("[DRAG] MOVE  [SPACE] PHYSICS  [RMB/ARROWS] ORBIT  [WHEEL] ZOOM  [Q] QUIT", sw-700, sh-40, 14, colTextDim)
	w.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, sh-40, 14, colTextDim)
}

// DrawTelemetry plots the watched disk's height as a line strip.
func (w *Window) DrawTelemetry(x, y int) {
	if len(w.Telemetry) < 2 {
		return
	}
	width, height := 400, 60

	lo, hi := w.Telemetry[0], w.Telemetry[0]
	for _, v := range w.Telemetry {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(w.Telemetry))
	for i, v := range w.Telemetry {
		px := float32(x) + float32(i)/float32(maxTelemetry)*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, colAccent)
	w.drawText(fmt.Sprintf("%s y=%.2f", w.watched, w.Telemetry[len(w.Telemetry)-1]), x+width+10, y+height-10, 14, colText)
}

func (w *Window) drawText(text string, x, y, size int, col rl.Color) {
	rl.DrawTextEx(w.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}
