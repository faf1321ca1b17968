package metrics

import (
	"sync"

	"github.com/san-kum/hanoi3d/internal/scene"
)

// Rest reports when the scene stopped moving: the time of the last step in
// which any dynamic body was faster than the threshold.
type Rest struct {
	threshold float64

	mu         sync.Mutex
	lastMoving float64
	moving     bool
	samples    int
	violations int
}

func NewRest(threshold float64) *Rest {
	return &Rest{threshold: threshold}
}

func (r *Rest) OnStep(t float64, objects []*scene.Object) {
	moving := false
	for _, o := range objects {
		b, ok := bodyOf(o)
		if ok && b.Mass() != 0 && b.LinearVelocity().Len() > r.threshold {
			moving = true
			break
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples++
	r.moving = moving
	if moving {
		r.violations++
		r.lastMoving = t
	}
}

// Settled reports whether the most recent step was at rest.
func (r *Rest) Settled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples > 0 && !r.moving
}

// Time is the last time anything moved, 0 if nothing ever did.
func (r *Rest) Time() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastMoving
}

// Fraction is the share of steps spent at rest, 1 with no samples.
func (r *Rest) Fraction() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.samples == 0 {
		return 1
	}
	return 1 - float64(r.violations)/float64(r.samples)
}

func (r *Rest) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastMoving, r.moving, r.samples, r.violations = 0, false, 0, 0
}
