package device

import (
	"encoding/json"
	"fmt"
	"sync"
)

// StateObserver receives a notification after a device commits a
// state mutation. Implementations must not block: the persistence
// engine and the event bridge both fan out from this hook.
type StateObserver interface {
	OnStateChanged(serial string)
}

// Device pairs a State with the synchronisation the dispatch pipeline
// and the management plane need. Handlers for one device run
// serialized under the device mutex; the management plane reads
// point-in-time snapshots.
type Device struct {
	mu    sync.Mutex
	state *State

	obsMu     sync.RWMutex
	observers []StateObserver
}

// New wraps a State. Most callers use the factory instead.
func New(state *State) *Device {
	return &Device{state: state}
}

// Serial returns the device serial without locking; serials are
// immutable after creation.
func (d *Device) Serial() string { return d.state.Serial }

// Caps returns the capability flags; immutable after creation.
func (d *Device) Caps() Capabilities { return d.state.Caps }

// WithState runs fn with exclusive access to the device state, then
// emits StateChanged if fn committed a mutation. This is the only way
// dispatch and the management plane touch live state.
func (d *Device) WithState(fn func(*State)) {
	d.mu.Lock()
	fn(d.state)
	changed := d.state.ConsumeDirty()
	d.mu.Unlock()

	if changed {
		d.notify()
	}
}

// Observe registers a state-change observer.
func (d *Device) Observe(obs StateObserver) {
	d.obsMu.Lock()
	d.observers = append(d.observers, obs)
	d.obsMu.Unlock()
}

func (d *Device) notify() {
	d.obsMu.RLock()
	observers := d.observers
	d.obsMu.RUnlock()
	for _, obs := range observers {
		obs.OnStateChanged(d.state.Serial)
	}
}

// Snapshot returns the JSON-serialized state, taken under the device
// lock. The schema mirrors the State sub-records and is what the
// persistence engine writes to disk.
func (d *Device) Snapshot() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := json.Marshal(d.state)
	if err != nil {
		// State contains only JSON-safe field types.
		panic(fmt.Sprintf("device state marshal: %v", err))
	}
	return data
}

// Restore overlays persisted state onto the device. Capability flags
// and identity come from the factory, not the snapshot; only mutable
// fields are applied, and sub-states the device does not carry are
// ignored.
func (d *Device) Restore(data []byte) error {
	var saved State
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("unmarshalling device state: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.state
	s.Label = saved.Label
	s.PowerLevel = saved.PowerLevel
	s.Color = saved.Color
	s.Location = saved.Location
	s.Group = saved.Group
	s.Waveform = saved.Waveform

	if s.Infrared != nil && saved.Infrared != nil {
		*s.Infrared = *saved.Infrared
	}
	if s.Hev != nil && saved.Hev != nil {
		*s.Hev = *saved.Hev
	}
	if s.Multizone != nil && saved.Multizone != nil && len(saved.Multizone.Colors) == len(s.Multizone.Colors) {
		copy(s.Multizone.Colors, saved.Multizone.Colors)
		s.Multizone.Effect = saved.Multizone.Effect
	}
	if s.Matrix != nil && saved.Matrix != nil && len(saved.Matrix.Tiles) == len(s.Matrix.Tiles) {
		for i := range s.Matrix.Tiles {
			for fb, buf := range saved.Matrix.Tiles[i].Buffers {
				if buf == nil {
					continue
				}
				if len(buf) != s.Matrix.TileWidth*s.Matrix.TileHeight {
					continue
				}
				s.Matrix.Tiles[i].Buffers[fb] = buf
			}
		}
		s.Matrix.Effect = saved.Matrix.Effect
	}
	if s.Relays != nil && saved.Relays != nil && len(saved.Relays.Powers) == len(s.Relays.Powers) {
		copy(s.Relays.Powers, saved.Relays.Powers)
	}

	return nil
}
