package term

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/hanoi3d/internal/app"
	"github.com/san-kum/hanoi3d/internal/drag"
	"github.com/san-kum/hanoi3d/internal/viz"
)

const (
	canvasTop  = 1
	rotateStep = math.Pi / 36
)

var (
	styleWire   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHover  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleMuted  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleActive = tcell.StyleDefault.Foreground(tcell.ColorLime)
)

// Screen drives the scene on a raw tcell screen. It is lighter than the
// bubbletea frontend and also plays a chime when objects are picked up.
type Screen struct {
	screen tcell.Screen
	app    *app.App
	logger *log.Logger
	chime  *Chime
	canvas *viz.Canvas
	unsub  []func()

	width, height int
	buttonDown    bool
}

type Option func(*Screen)

// WithChime plays tones on drag start and end.
func WithChime(c *Chime) Option {
	return func(s *Screen) { s.chime = c }
}

// New wraps an initialised tcell screen.
func New(screen tcell.Screen, a *app.App, logger *log.Logger, opts ...Option) *Screen {
	s := &Screen{screen: screen, app: a, logger: logger.WithPrefix("term")}
	for _, opt := range opts {
		opt(s)
	}
	s.resize(screen.Size())

	c := a.Controls()
	s.unsub = append(s.unsub,
		c.On(drag.DragStart, func(e drag.Event) {
			s.logger.Debug("pickup", "object", e.Object.Name)
			if s.chime != nil {
				s.chime.Pickup()
			}
		}),
		c.On(drag.DragEnd, func(e drag.Event) {
			s.logger.Debug("drop", "object", e.Object.Name, "at", e.Point)
			if s.chime != nil {
				s.chime.Release()
			}
		}),
	)
	return s
}

func (s *Screen) resize(w, h int) {
	s.width, s.height = w, h
	s.canvas = viz.NewCanvas(max(w, 10), max(h-2, 4))
	s.app.Controls().SetViewport(s.canvas.DotWidth(), s.canvas.DotHeight())
}

func toDots(x, y int) (int, int) {
	return x*2 + 1, (y-canvasTop)*4 + 2
}

// Handle applies one event and reports whether the loop should continue.
func (s *Screen) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventResize:
		s.resize(ev.Size())
		s.screen.Sync()
	}
	return true
}

func (s *Screen) handleKey(ev *tcell.EventKey) bool {
	cam := s.app.Camera()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		cam.RotateYaw(-rotateStep)
	case tcell.KeyRight:
		cam.RotateYaw(rotateStep)
	case tcell.KeyUp:
		cam.RotatePitch(rotateStep)
	case tcell.KeyDown:
		cam.RotatePitch(-rotateStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			s.app.ToggleStepping()
		case '+', '=':
			cam.ZoomIn()
		case '-', '_':
			cam.ZoomOut()
		}
	}
	return true
}

func (s *Screen) handleMouse(ev *tcell.EventMouse) {
	c := s.app.Controls()
	x, y := toDots(ev.Position())
	pressed := ev.Buttons()&tcell.Button1 != 0
	switch {
	case pressed && !s.buttonDown:
		s.buttonDown = true
		c.PointerDown(x, y)
	case !pressed && s.buttonDown:
		s.buttonDown = false
		c.PointerUp(x, y)
	default:
		c.PointerMove(x, y)
	}
}

// Draw renders the current scene into the tcell back buffer and shows it.
func (s *Screen) Draw() {
	s.screen.Clear()
	viz.RenderScene(s.canvas, s.app.Scene(), s.app.Camera())

	hovered := s.app.Drag().Hovered()
	if sel := s.app.Controls().Selected(); sel != nil {
		hovered = sel
	}
	var highlight *viz.Canvas
	if hovered != nil {
		highlight = viz.NewCanvas(s.canvas.Width, s.canvas.Height)
		viz.Draw(highlight, viz.Project(hovered, s.app.Camera(), highlight.DotWidth(), highlight.DotHeight()), nil)
	}

	for row, cells := range s.canvas.Grid {
		for col, r := range cells {
			style := styleWire
			if highlight != nil && !highlight.Empty(col, row) {
				style = styleHover
			}
			s.screen.SetContent(col, row+canvasTop, r, nil, style)
		}
	}

	status, statusStyle := "static", styleMuted
	if ph := s.app.Physics(); ph != nil {
		status = ph.State().String()
		if s.app.Stepping() {
			status, statusStyle = "stepping", styleActive
		}
	}
	x := s.drawText(0, 0, "hanoi3d ", styleTitle)
	s.drawText(x, 0, status, statusStyle)

	name := "-"
	if hovered != nil {
		name = hovered.Name
	}
	footer := fmt.Sprintf("%s | drag move  space physics  arrows orbit  +/- zoom  q quit", name)
	s.drawText(0, s.height-1, footer, styleMuted)
	s.screen.Show()
}

func (s *Screen) drawText(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= s.width {
			break
		}
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// Run polls events and advances the app at its configured frame rate until
// the user quits or ctx is cancelled.
func (s *Screen) Run(ctx context.Context) error {
	s.screen.EnableMouse()
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	fps := s.app.Config().FPS
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !s.Handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			s.app.Frame(now.Sub(last).Seconds())
			last = now
			s.Draw()
		}
	}
}

// Close unsubscribes from drag events, silences the chime and restores the
// terminal.
func (s *Screen) Close() {
	for _, fn := range s.unsub {
		fn()
	}
	s.unsub = nil
	if s.chime != nil {
		s.chime.Close()
	}
	s.screen.Fini()
}
