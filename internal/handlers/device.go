package handlers

import (
	"time"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Device-namespace handlers (packet types 2–59). These run on every
// device, switches included.

func handleGetService(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateService{
		Service: protocol.ServiceUDP,
		Port:    s.Port,
	}}
}

func handleGetHostInfo(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateHostInfo{Signal: s.WifiSignal}}
}

// firmwareVersion applies any scenario override to the reported
// firmware version.
func firmwareVersion(s *device.State, rules *scenario.Merged) (major, minor uint16) {
	if rules != nil && rules.FirmwareVersion != nil {
		return rules.FirmwareVersion.Major, rules.FirmwareVersion.Minor
	}
	return s.FirmwareMajor, s.FirmwareMinor
}

func handleGetHostFirmware(s *device.State, _ protocol.Message, rules *scenario.Merged, _ bool) []protocol.Message {
	major, minor := firmwareVersion(s, rules)
	return []protocol.Message{&protocol.StateHostFirmware{
		Build:        s.FirmwareBuild,
		VersionMajor: major,
		VersionMinor: minor,
	}}
}

func handleGetWifiInfo(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateWifiInfo{Signal: s.WifiSignal}}
}

func handleGetWifiFirmware(s *device.State, _ protocol.Message, rules *scenario.Merged, _ bool) []protocol.Message {
	major, minor := firmwareVersion(s, rules)
	return []protocol.Message{&protocol.StateWifiFirmware{
		Build:        s.FirmwareBuild,
		VersionMajor: major,
		VersionMinor: minor,
	}}
}

func handleGetPower(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StatePower{Level: s.PowerLevel}}
}

func handleSetPower(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sp := req.(*protocol.SetPower)
	s.SetPowerLevel(sp.Level)
	if !resRequired {
		return nil
	}
	return []protocol.Message{&protocol.StatePower{Level: s.PowerLevel}}
}

func handleGetLabel(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateLabel{Label: s.Label}}
}

func handleSetLabel(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sl := req.(*protocol.SetLabel)
	s.SetLabel(sl.Label)
	if !resRequired {
		return nil
	}
	return []protocol.Message{&protocol.StateLabel{Label: s.Label}}
}

func handleGetVersion(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateVersion{
		Vendor:  s.Vendor,
		Product: s.Product,
	}}
}

func handleGetInfo(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateInfo{
		Time:   uint64(time.Now().UnixNano()),
		Uptime: s.Uptime(),
	}}
}

func handleGetLocation(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateLocation{
		Location:  s.Location.ID,
		Label:     s.Location.Label,
		UpdatedAt: s.Location.UpdatedAt,
	}}
}

func handleSetLocation(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sl := req.(*protocol.SetLocation)
	s.SetLocation(device.Collection{ID: sl.Location, Label: sl.Label, UpdatedAt: sl.UpdatedAt})
	if !resRequired {
		return nil
	}
	return handleGetLocation(s, nil, nil, false)
}

func handleGetGroup(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateGroup{
		Group:     s.Group.ID,
		Label:     s.Group.Label,
		UpdatedAt: s.Group.UpdatedAt,
	}}
}

func handleSetGroup(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sg := req.(*protocol.SetGroup)
	s.SetGroup(device.Collection{ID: sg.Group, Label: sg.Label, UpdatedAt: sg.UpdatedAt})
	if !resRequired {
		return nil
	}
	return handleGetGroup(s, nil, nil, false)
}

func handleEchoRequest(_ *device.State, req protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	er := req.(*protocol.EchoRequest)
	return []protocol.Message{&protocol.EchoResponse{Payload: er.Payload}}
}
