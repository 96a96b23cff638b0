package scenario

import (
	"math/rand"
	"time"

	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
)

// FirmwareVersion overrides the firmware identity handlers report.
type FirmwareVersion struct {
	Major uint16 `json:"major" yaml:"major"`
	Minor uint16 `json:"minor" yaml:"minor"`
}

// Rules is one scope's rule set. Nil or absent fields mean "no
// opinion"; during the merge the first scope that defines a field
// wins. All packet-type keys refer to the request packet type.
type Rules struct {
	// DropPackets maps packet type to drop probability in [0, 1].
	// A dropped request produces no response and no acknowledgement.
	DropPackets map[uint16]float64 `json:"drop_packets,omitempty" yaml:"drop_packets,omitempty"`

	// ResponseDelays maps packet type to a delay in seconds applied
	// after the handler runs and before responses are sent.
	ResponseDelays map[uint16]float64 `json:"response_delays,omitempty" yaml:"response_delays,omitempty"`

	// MalformedPackets lists packet types whose response payloads are
	// truncated to a random shorter length.
	MalformedPackets []uint16 `json:"malformed_packets,omitempty" yaml:"malformed_packets,omitempty"`

	// InvalidFieldValues lists packet types whose response payloads
	// are overwritten with 0xFF bytes.
	InvalidFieldValues []uint16 `json:"invalid_field_values,omitempty" yaml:"invalid_field_values,omitempty"`

	// PartialResponses lists packet types whose multi-packet response
	// runs are randomly truncated before sending.
	PartialResponses []uint16 `json:"partial_responses,omitempty" yaml:"partial_responses,omitempty"`

	// FirmwareVersion overrides the firmware version surfaced by
	// firmware-reporting handlers.
	FirmwareVersion *FirmwareVersion `json:"firmware_version,omitempty" yaml:"firmware_version,omitempty"`

	// SendUnhandled controls whether unregistered packet types get a
	// StateUnhandled reply (default) or silence.
	SendUnhandled *bool `json:"send_unhandled,omitempty" yaml:"send_unhandled,omitempty"`
}

// Merged is the per-device combination of all five scopes with the
// precedence applied. It is immutable once built; the pipeline reads
// it without locking.
type Merged struct {
	DropPackets        map[uint16]float64
	ResponseDelays     map[uint16]float64
	MalformedPackets   map[uint16]struct{}
	InvalidFieldValues map[uint16]struct{}
	PartialResponses   map[uint16]struct{}
	FirmwareVersion    *FirmwareVersion
	SendUnhandled      bool
}

// merge folds rule sets in precedence order (strongest first) into a
// Merged. For each field, the first set that defines it wins.
func merge(sets []*Rules) *Merged {
	m := &Merged{SendUnhandled: true}
	sendUnhandledSet := false

	for _, r := range sets {
		if r == nil {
			continue
		}
		if m.DropPackets == nil && len(r.DropPackets) > 0 {
			m.DropPackets = r.DropPackets
		}
		if m.ResponseDelays == nil && len(r.ResponseDelays) > 0 {
			m.ResponseDelays = r.ResponseDelays
		}
		if m.MalformedPackets == nil && len(r.MalformedPackets) > 0 {
			m.MalformedPackets = toSet(r.MalformedPackets)
		}
		if m.InvalidFieldValues == nil && len(r.InvalidFieldValues) > 0 {
			m.InvalidFieldValues = toSet(r.InvalidFieldValues)
		}
		if m.PartialResponses == nil && len(r.PartialResponses) > 0 {
			m.PartialResponses = toSet(r.PartialResponses)
		}
		if m.FirmwareVersion == nil && r.FirmwareVersion != nil {
			m.FirmwareVersion = r.FirmwareVersion
		}
		if !sendUnhandledSet && r.SendUnhandled != nil {
			m.SendUnhandled = *r.SendUnhandled
			sendUnhandledSet = true
		}
	}

	return m
}

func toSet(types []uint16) map[uint16]struct{} {
	set := make(map[uint16]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// ShouldDrop rolls against the drop probability for a packet type.
func (m *Merged) ShouldDrop(pktType uint16) bool {
	p, ok := m.DropPackets[pktType]
	if !ok || p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rand.Float64() < p
}

// DelayFor returns the configured response delay for a packet type,
// or zero.
func (m *Merged) DelayFor(pktType uint16) time.Duration {
	secs, ok := m.ResponseDelays[pktType]
	if !ok || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// IsMalformed reports whether responses to a packet type should be
// truncated.
func (m *Merged) IsMalformed(pktType uint16) bool {
	_, ok := m.MalformedPackets[pktType]
	return ok
}

// IsInvalid reports whether responses to a packet type should be
// replaced with 0xFF bytes.
func (m *Merged) IsInvalid(pktType uint16) bool {
	_, ok := m.InvalidFieldValues[pktType]
	return ok
}

// IsPartial reports whether a multi-packet response run for a packet
// type should be truncated.
func (m *Merged) IsPartial(pktType uint16) bool {
	_, ok := m.PartialResponses[pktType]
	return ok
}

// AffectsAcks reports whether any rule targets the Acknowledgement
// packet type. When it does, the transport skips the early-ack
// shortcut so the ack flows through the fault pipeline.
func (m *Merged) AffectsAcks() bool {
	if _, ok := m.DropPackets[protocol.TypeAcknowledgement]; ok {
		return true
	}
	if _, ok := m.ResponseDelays[protocol.TypeAcknowledgement]; ok {
		return true
	}
	if m.IsMalformed(protocol.TypeAcknowledgement) || m.IsInvalid(protocol.TypeAcknowledgement) {
		return true
	}
	return false
}
