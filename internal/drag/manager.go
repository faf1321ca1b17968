package drag

import (
	"github.com/charmbracelet/log"

	"github.com/san-kum/hanoi3d/internal/scene"
)

// Manager owns the list of draggable objects and keeps the controls in
// sync with it.
type Manager struct {
	objects  []*scene.Object
	controls *Controls
	logger   *log.Logger
	hovered  *scene.Object
	unsub    []func()
}

func NewManager(objects []*scene.Object, controls *Controls, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	m := &Manager{
		objects:  make([]*scene.Object, 0, len(objects)),
		controls: controls,
		logger:   logger.WithPrefix("drag"),
	}
	for _, o := range objects {
		if o != nil && !contains(m.objects, o) {
			m.objects = append(m.objects, o)
		}
	}
	controls.SetObjects(m.objects)
	m.unsub = append(m.unsub,
		controls.On(HoverOn, m.onHoverOn),
		controls.On(HoverOff, m.onHoverOff),
	)
	return m
}

// AddObject makes obj draggable and re-submits the whole list to the
// controls. Adding an object that is already managed changes nothing and
// returns false.
func (m *Manager) AddObject(obj *scene.Object) bool {
	if obj == nil || contains(m.objects, obj) {
		return false
	}
	m.objects = append(m.objects, obj)
	m.controls.SetObjects(m.objects)
	return true
}

func (m *Manager) Objects() []*scene.Object {
	return append([]*scene.Object(nil), m.objects...)
}

func (m *Manager) Controls() *Controls { return m.controls }

// Hovered is the object under the pointer, nil when none.
func (m *Manager) Hovered() *scene.Object { return m.hovered }

func (m *Manager) onHoverOn(e Event) {
	m.hovered = e.Object
	m.logger.Debug("hovered on", "object", e.Object.Name)
}

func (m *Manager) onHoverOff(e Event) {
	if m.hovered == e.Object {
		m.hovered = nil
	}
	m.logger.Debug("hovered off", "object", e.Object.Name)
}

// Close unregisters the hover listeners.
func (m *Manager) Close() {
	for _, fn := range m.unsub {
		fn()
	}
	m.unsub = nil
}
