package manager

import (
	"fmt"
	"sync"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Manager holds the live device collection. All methods are safe for
// concurrent use from the dispatch pipeline and the management plane.
type Manager struct {
	mu      sync.RWMutex
	devices map[string]*device.Device
	order   []string

	scenarios *scenario.Manager
	bus       *events.Bus
}

// New creates an empty device collection. The scenario manager and
// event bus are optional; nil disables cache invalidation and
// lifecycle events respectively.
func New(scenarios *scenario.Manager, bus *events.Bus) *Manager {
	return &Manager{
		devices:   make(map[string]*device.Device),
		scenarios: scenarios,
		bus:       bus,
	}
}

// Add registers a device. Serials must be unique within the
// collection.
func (m *Manager) Add(d *device.Device) error {
	serial := d.Serial()

	m.mu.Lock()
	if _, exists := m.devices[serial]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateSerial, serial)
	}
	m.devices[serial] = d
	m.order = append(m.order, serial)
	m.mu.Unlock()

	m.invalidateScenarios()
	if m.bus != nil {
		m.bus.Publish(events.TypeDeviceAdded, map[string]string{"serial": serial})
	}
	return nil
}

// Remove deletes a device by serial.
func (m *Manager) Remove(serial string) error {
	m.mu.Lock()
	if _, exists := m.devices[serial]; !exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, serial)
	}
	delete(m.devices, serial)
	for i, s := range m.order {
		if s == serial {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.invalidateScenarios()
	if m.bus != nil {
		m.bus.Publish(events.TypeDeviceRemoved, map[string]string{"serial": serial})
	}
	return nil
}

// Get returns a device by serial.
func (m *Manager) Get(serial string) (*device.Device, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[serial]
	return d, ok
}

// List returns every device in insertion order.
func (m *Manager) List() []*device.Device {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*device.Device, 0, len(m.order))
	for _, serial := range m.order {
		out = append(out, m.devices[serial])
	}
	return out
}

// Count returns the number of live devices.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.devices)
}

// ResolveTargets returns the devices a request header addresses:
// every device for broadcasts, at most one for targeted requests.
func (m *Manager) ResolveTargets(h protocol.Header) []*device.Device {
	if h.IsBroadcast() {
		return m.List()
	}

	d, ok := m.Get(h.TargetSerial())
	if !ok {
		return nil
	}
	return []*device.Device{d}
}

// ScenarioTarget builds the rule-resolution key for a device: its
// serial, matching type keys and collection labels.
func ScenarioTarget(d *device.Device) scenario.Target {
	caps := d.Caps()

	var types []string
	if caps.HasColor {
		types = append(types, "color")
	}
	if caps.HasMultizone {
		types = append(types, "multizone")
	}
	if caps.HasExtendedMultizone {
		types = append(types, "extended_multizone")
	}
	if caps.HasMatrix {
		types = append(types, "matrix")
	}
	if caps.HasHev {
		types = append(types, "hev")
	}
	if caps.HasInfrared {
		types = append(types, "infrared")
	}

	t := scenario.Target{Serial: d.Serial(), Types: types}
	d.WithState(func(s *device.State) {
		t.Location = s.Location.Label
		t.Group = s.Group.Label
	})
	return t
}

// NotifyMembershipChanged invalidates the scenario cache after a
// device's location or group changes.
func (m *Manager) NotifyMembershipChanged(serial string) {
	m.invalidateScenarios()
	if m.bus != nil {
		m.bus.Publish(events.TypeDeviceUpdated, map[string]string{"serial": serial})
	}
}

func (m *Manager) invalidateScenarios() {
	if m.scenarios != nil {
		m.scenarios.Invalidate()
	}
}
