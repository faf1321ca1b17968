package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/hanoi3d/internal/app"
	"github.com/san-kum/hanoi3d/internal/scene"
	"github.com/san-kum/hanoi3d/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer writes plain ANSI frames, for terminals or pipes where a
// full-screen program is unwanted. It satisfies app.Renderer.
type LiveRenderer struct {
	out    io.Writer
	app    *app.App
	canvas *viz.Canvas
	start  time.Time
}

func NewLiveRenderer(out io.Writer, a *app.App, width, height int) *LiveRenderer {
	return &LiveRenderer{out: out, app: a, canvas: viz.NewCanvas(width, height), start: time.Now()}
}

func (r *LiveRenderer) Render(sc *scene.Scene) error {
	viz.RenderScene(r.canvas, sc, r.app.Camera())

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  hanoi3d  t=%.2fs  frame %d\n", time.Since(r.start).Seconds(), r.app.Frames())
	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")
	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")
	for i, d := range r.app.Disks() {
		if i >= 4 {
			break
		}
		p := d.Object().Position
		fmt.Fprintf(&b, "  %s y=%.2f", d.Object().Name, p.Y())
	}
	b.WriteString("\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
