package metrics

import "github.com/san-kum/hanoi3d/internal/scene"

const DefaultRestThreshold = 0.05

// Monitor bundles the energy and rest metrics behind one observer.
type Monitor struct {
	Energy *Energy
	Rest   *Rest
}

func NewMonitor(gravity float64) *Monitor {
	return &Monitor{Energy: NewEnergy(gravity), Rest: NewRest(DefaultRestThreshold)}
}

func (m *Monitor) OnStep(t float64, objects []*scene.Object) {
	m.Energy.OnStep(t, objects)
	m.Rest.OnStep(t, objects)
}

// AddTo writes the metrics into dst under fixed names.
func (m *Monitor) AddTo(dst map[string]float64) {
	dst["energy"] = m.Energy.Value()
	dst["energy_drift"] = m.Energy.Drift()
	dst["rest_time"] = m.Rest.Time()
	dst["rest_fraction"] = m.Rest.Fraction()
}
