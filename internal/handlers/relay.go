package handlers

import (
	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Relay-namespace handlers (packet types 816–818), dispatched only on
// devices with relays.

func handleGetRelayPower(s *device.State, req protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	g := req.(*protocol.GetRelayPower)
	return []protocol.Message{&protocol.StateRelayPower{
		RelayIndex: g.RelayIndex,
		Level:      s.RelayPower(int(g.RelayIndex)),
	}}
}

func handleSetRelayPower(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sr := req.(*protocol.SetRelayPower)
	s.SetRelayPower(int(sr.RelayIndex), sr.Level)
	if !resRequired {
		return nil
	}
	return []protocol.Message{&protocol.StateRelayPower{
		RelayIndex: sr.RelayIndex,
		Level:      s.RelayPower(int(sr.RelayIndex)),
	}}
}
