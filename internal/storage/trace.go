package storage

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

// Trace holds body positions over time. Positions[i][b] is body b at
// Times[i].
type Trace struct {
	Bodies    []string
	Times     []float64
	Positions [][]mgl64.Vec3
}

func (t *Trace) Index(body string) int {
	for i, b := range t.Bodies {
		if b == body {
			return i
		}
	}
	return -1
}

// Heights returns the y coordinate of one body over time.
func (t *Trace) Heights(body int) []float64 {
	out := make([]float64, 0, len(t.Positions))
	for _, row := range t.Positions {
		if body < len(row) {
			out = append(out, row[body].Y())
		}
	}
	return out
}

// Metrics summarises the trace: the largest displacement of any body from
// its first sample and the largest per-sample speed.
func (t *Trace) Metrics() map[string]float64 {
	m := map[string]float64{"max_displacement": 0, "max_speed": 0}
	if len(t.Positions) == 0 {
		return m
	}
	first := t.Positions[0]
	for i, row := range t.Positions {
		for b, p := range row {
			m["max_displacement"] = math.Max(m["max_displacement"], p.Sub(first[b]).Len())
			if i == 0 {
				continue
			}
			dt := t.Times[i] - t.Times[i-1]
			if dt > 0 {
				m["max_speed"] = math.Max(m["max_speed"], p.Sub(t.Positions[i-1][b]).Len()/dt)
			}
		}
	}
	return m
}

// Recorder collects a Trace from physics steps. The body columns are fixed
// by the first step it sees.
type Recorder struct {
	// Every records one sample per Every steps; values below 1 record all.
	Every int

	mu    sync.Mutex
	trace Trace
	index map[string]int
	steps int
}

func NewRecorder(every int) *Recorder {
	return &Recorder{Every: every, index: make(map[string]int)}
}

func (r *Recorder) OnStep(t float64, objects []*scene.Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps++
	if r.Every > 1 && (r.steps-1)%r.Every != 0 {
		return
	}

	if len(r.trace.Bodies) == 0 {
		for _, o := range objects {
			if _, dup := r.index[o.Name]; dup {
				continue
			}
			r.index[o.Name] = len(r.trace.Bodies)
			r.trace.Bodies = append(r.trace.Bodies, o.Name)
		}
	}

	row := make([]mgl64.Vec3, len(r.trace.Bodies))
	if n := len(r.trace.Positions); n > 0 {
		copy(row, r.trace.Positions[n-1])
	}
	for _, o := range objects {
		if i, ok := r.index[o.Name]; ok {
			row[i] = o.WorldPoint(mgl64.Vec3{})
		}
	}
	r.trace.Times = append(r.trace.Times, t)
	r.trace.Positions = append(r.trace.Positions, row)
}

// Trace returns a copy of what has been recorded so far.
func (r *Recorder) Trace() *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := &Trace{
		Bodies:    append([]string(nil), r.trace.Bodies...),
		Times:     append([]float64(nil), r.trace.Times...),
		Positions: make([][]mgl64.Vec3, len(r.trace.Positions)),
	}
	for i, row := range r.trace.Positions {
		out.Positions[i] = append([]mgl64.Vec3(nil), row...)
	}
	return out
}
