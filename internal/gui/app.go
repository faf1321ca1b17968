package gui

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/app"
	"github.com/san-kum/hanoi3d/internal/drag"
)

// Greys for the scene; only the hovered disk gets colour.
var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colAccent  = rl.NewColor(180, 180, 180, 255)
	colSelect  = rl.NewColor(255, 255, 255, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
	colGrid    = rl.NewColor(30, 30, 30, 255)
	colHover   = rl.NewColor(255, 120, 220, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	maxTelemetry = 240
	orbitSpeed   = 0.005
)

// Window is the raylib frontend. The app's orbit camera drives both the
// raylib camera and drag picking, so what is drawn is what gets picked.
type Window struct {
	app    *app.App
	logger *log.Logger
	font   rl.Font

	// Telemetry holds recent heights of the watched disk.
	Telemetry []float64
	watched   string
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "hanoi3d")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont falls back to raylib's built-in font when the system font is
// missing.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func newWindow(a *app.App, logger *log.Logger) *Window {
	w := &Window{
		app:       a,
		logger:    logger.WithPrefix("gui"),
		font:      loadFont(),
		Telemetry: make([]float64, 0, maxTelemetry),
	}
	if disks := a.Disks(); len(disks) > 0 {
		w.watched = disks[len(disks)-1].Object().Name
	}
	a.Controls().SetViewport(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	a.Controls().On(drag.DragStart, func(e drag.Event) {
		w.watched = e.Object.Name
		w.Telemetry = w.Telemetry[:0]
	})
	return w
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, a *app.App, logger *log.Logger) error {
	initWindow(a.Config().FPS)
	defer rl.CloseWindow()

	w := newWindow(a, logger)
	defer rl.UnloadFont(w.font)
	w.logger.Info("window open", "width", rl.GetScreenWidth(), "height", rl.GetScreenHeight())

	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !w.Update() {
			return nil
		}
		w.Draw()
	}
	return nil
}

// Update handles input and advances the app by one frame. It reports false
// when the user asked to quit.
func (w *Window) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsWindowResized() {
		w.app.Controls().SetViewport(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	}

	cam := w.app.Camera()
	if rl.IsKeyPressed(rl.KeySpace) {
		w.app.ToggleStepping()
	}
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		cam.RotateYaw(-0.02)
	}
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		cam.RotateYaw(0.02)
	}
	if rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW) {
		cam.RotatePitch(0.02)
	}
	if rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS) {
		cam.RotatePitch(-0.02)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		cam.RotateYaw(-float64(delta.X) * orbitSpeed)
		cam.RotatePitch(float64(delta.Y) * orbitSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		cam.ZoomIn()
	} else if wheel < 0 {
		cam.ZoomOut()
	}

	c := w.app.Controls()
	mouse := rl.GetMousePosition()
	x, y := int(mouse.X), int(mouse.Y)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		c.PointerDown(x, y)
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		c.PointerUp(x, y)
	default:
		c.PointerMove(x, y)
	}

	w.app.Frame(float64(rl.GetFrameTime()))
	w.sample()
	return true
}

func (w *Window) sample() {
	obj := w.app.Scene().Root.Find(w.watched)
	if obj == nil {
		return
	}
	if len(w.Telemetry) == maxTelemetry {
		copy(w.Telemetry, w.Telemetry[1:])
		w.Telemetry = w.Telemetry[:maxTelemetry-1]
	}
	w.Telemetry = append(w.Telemetry, obj.WorldPoint(mgl64.Vec3{}).Y())
}

func (w *Window) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)
	w.drawScene()
	w.DrawHUD()
	rl.EndDrawing()
}
