package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/hanoi3d/internal/app"
	"github.com/san-kum/hanoi3d/internal/viz"
)

const (
	canvasTop  = 2
	canvasLeft = 1
	chromeRows = 4
	rotateStep = math.Pi / 36
)

type tickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

type Model struct {
	app    *app.App
	canvas *viz.Canvas
	theme  int
	styles styles

	width, height int
	lastTick      time.Time
	fps           float64
}

func New(a *app.App, theme string) *Model {
	m := &Model{app: a, theme: themeIndex(theme), width: 80, height: 24}
	m.styles = newStyles(Themes[m.theme])
	m.resize(m.width, m.height)
	return m
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw := max(w-2*canvasLeft, 10)
	ch := max(h-chromeRows, 4)
	m.canvas = viz.NewCanvas(cw, ch)
	m.app.Controls().SetViewport(m.canvas.DotWidth(), m.canvas.DotHeight())
}

// toDots maps a terminal cell to the centre of its braille dots.
func (m *Model) toDots(x, y int) (int, int) {
	return (x-canvasLeft)*2 + 1, (y-canvasTop)*4 + 2
}

func (m *Model) Init() tea.Cmd { return tick(m.app.Config().FPS) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, tea.ClearScreen
	case tickMsg:
		now := time.Time(msg)
		dt := 1.0 / float64(m.app.Config().FPS)
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
			if dt > 0 {
				m.fps = 1 / dt
			}
		}
		m.lastTick = now
		m.app.Frame(dt)
		return m, tick(m.app.Config().FPS)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	cam := m.app.Camera()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ":
		m.app.ToggleStepping()
	case "left", "h":
		cam.RotateYaw(-rotateStep)
	case "right", "l":
		cam.RotateYaw(rotateStep)
	case "up", "k":
		cam.RotatePitch(rotateStep)
	case "down", "j":
		cam.RotatePitch(-rotateStep)
	case "+", "=":
		cam.ZoomIn()
	case "-", "_":
		cam.ZoomOut()
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	c := m.app.Controls()
	x, y := m.toDots(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			c.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		c.PointerMove(x, y)
	case tea.MouseActionRelease:
		c.PointerUp(x, y)
	}
}

func (m *Model) View() string {
	var b strings.Builder
	s := m.styles
	pad := strings.Repeat(" ", canvasLeft)

	status := s.paused.Render("○ static")
	if ph := m.app.Physics(); ph != nil {
		status = s.paused.Render("○ " + ph.State().String())
		if m.app.Stepping() {
			status = s.active.Render("● stepping")
		}
	}
	b.WriteString(fmt.Sprintf("%s%s  %s  %s\n", pad, s.title.Render("hanoi3d"), status, s.muted.Render(fmt.Sprintf("%.0ffps", m.fps))))
	b.WriteString(pad + s.muted.Render(strings.Repeat("─", m.canvas.Width)) + "\n")

	viz.RenderScene(m.canvas, m.app.Scene(), m.app.Camera())
	hovered := m.app.Drag().Hovered()
	if sel := m.app.Controls().Selected(); sel != nil {
		hovered = sel
	}
	var highlight *viz.Canvas
	if hovered != nil {
		highlight = viz.NewCanvas(m.canvas.Width, m.canvas.Height)
		segs := viz.Project(hovered, m.app.Camera(), highlight.DotWidth(), highlight.DotHeight())
		viz.Draw(highlight, segs, nil)
	}
	for row := 0; row < m.canvas.Height; row++ {
		b.WriteString(pad)
		b.WriteString(m.renderRow(row, highlight))
		b.WriteByte('\n')
	}

	name := "-"
	if hovered != nil {
		name = hovered.Name
	}
	b.WriteString(fmt.Sprintf("%s%s %s\n", pad, s.muted.Render("object"), s.hover.Render(name)))
	b.WriteString(pad + s.muted.Render("drag move  space physics  ←→↑↓ orbit  +/- zoom  t theme  q quit"))
	return b.String()
}

// renderRow styles runs of cells so hovered geometry stands out.
func (m *Model) renderRow(row int, highlight *viz.Canvas) string {
	cells := m.canvas.Grid[row]
	if highlight == nil {
		return m.styles.wire.Render(string(cells))
	}
	var b, run strings.Builder
	hot := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if hot {
			b.WriteString(m.styles.hover.Render(run.String()))
		} else {
			b.WriteString(m.styles.wire.Render(run.String()))
		}
		run.Reset()
	}
	for col, r := range cells {
		h := !highlight.Empty(col, row)
		if h != hot {
			flush()
			hot = h
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}

// Run starts the bubbletea program and blocks until it exits.
func Run(ctx context.Context, a *app.App, theme string) error {
	p := tea.NewProgram(New(a, theme), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
