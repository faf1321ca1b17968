// Package metrics turns physics steps into run summaries.
package metrics

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/hanoi3d/internal/scene"
)

// massive is the part of a rigid body the metrics read.
type massive interface {
	Mass() float64
	LinearVelocity() mgl64.Vec3
}

// Energy tracks the total mechanical energy of the stepped objects and its
// largest relative drift from the first sample. Angular terms are ignored.
type Energy struct {
	gravity float64

	mu       sync.Mutex
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

// NewEnergy measures potential energy against a vertical gravity g, which is
// negative for a downward pull.
func NewEnergy(g float64) *Energy {
	return &Energy{gravity: g}
}

func (e *Energy) OnStep(t float64, objects []*scene.Object) {
	total := 0.0
	for _, o := range objects {
		b, ok := bodyOf(o)
		if !ok || b.Mass() == 0 {
			continue
		}
		pos, _ := o.Physics.Body.WorldTransform()
		v := b.LinearVelocity()
		total += 0.5*b.Mass()*v.Dot(v) - b.Mass()*e.gravity*pos.Y()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.samples == 0 {
		e.initial = total
	}
	e.current = total
	e.samples++
	if e.initial != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(total-e.initial)/math.Abs(e.initial))
	}
}

func (e *Energy) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Energy) Drift() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxDrift
}

func (e *Energy) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initial, e.current, e.maxDrift, e.samples = 0, 0, 0, 0
}

func bodyOf(o *scene.Object) (massive, bool) {
	if o.Physics == nil || o.Physics.Body == nil {
		return nil, false
	}
	b, ok := o.Physics.Body.(massive)
	return b, ok
}
