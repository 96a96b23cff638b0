package handlers

import (
	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Light-namespace handlers (packet types 101–149). Infrared and HEV
// handlers rely on the pre-dispatch capability gate.

func lightState(s *device.State) *protocol.LightState {
	return &protocol.LightState{
		Color: s.Color,
		Power: s.PowerLevel,
		Label: s.Label,
	}
}

func handleLightGet(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{lightState(s)}
}

func handleLightSetColor(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sc := req.(*protocol.LightSetColor)
	s.SetColor(sc.Color)
	if !resRequired {
		return nil
	}
	return []protocol.Message{lightState(s)}
}

func handleSetWaveform(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	w := req.(*protocol.SetWaveform)
	s.SetWaveform(device.WaveformState{
		Transient: w.Transient,
		Color:     w.Color,
		Period:    w.Period,
		Cycles:    w.Cycles,
		SkewRatio: w.SkewRatio,
		Waveform:  w.Waveform,
	})
	if !resRequired {
		return nil
	}
	return []protocol.Message{lightState(s)}
}

func handleSetWaveformOptional(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	w := req.(*protocol.SetWaveformOptional)

	// Components the client does not want changed keep their current
	// value.
	color := w.Color
	if !w.SetHue {
		color.Hue = s.Color.Hue
	}
	if !w.SetSaturation {
		color.Saturation = s.Color.Saturation
	}
	if !w.SetBrightness {
		color.Brightness = s.Color.Brightness
	}
	if !w.SetKelvin {
		color.Kelvin = s.Color.Kelvin
	}

	s.SetWaveform(device.WaveformState{
		Transient: w.Transient,
		Color:     color,
		Period:    w.Period,
		Cycles:    w.Cycles,
		SkewRatio: w.SkewRatio,
		Waveform:  w.Waveform,
	})
	if !resRequired {
		return nil
	}
	return []protocol.Message{lightState(s)}
}

func handleLightGetPower(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.LightStatePower{Level: s.PowerLevel}}
}

func handleLightSetPower(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sp := req.(*protocol.LightSetPower)
	s.SetPowerLevel(sp.Level)
	if !resRequired {
		return nil
	}
	return []protocol.Message{&protocol.LightStatePower{Level: s.PowerLevel}}
}

func handleGetInfrared(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateInfrared{Brightness: s.InfraredBrightness()}}
}

func handleSetInfrared(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	si := req.(*protocol.SetInfrared)
	s.SetInfraredBrightness(si.Brightness)
	if !resRequired {
		return nil
	}
	return []protocol.Message{&protocol.StateInfrared{Brightness: s.InfraredBrightness()}}
}

func hevCycleState(s *device.State) *protocol.StateHevCycle {
	return &protocol.StateHevCycle{
		Duration:  s.Hev.CycleDuration,
		Remaining: s.Hev.CycleRemaining,
		LastPower: s.Hev.LastPower,
	}
}

func handleGetHevCycle(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{hevCycleState(s)}
}

func handleSetHevCycle(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sh := req.(*protocol.SetHevCycle)
	s.SetHevCycle(sh.Enable, sh.Duration)
	if !resRequired {
		return nil
	}
	return []protocol.Message{hevCycleState(s)}
}

func hevConfigState(s *device.State) *protocol.StateHevCycleConfiguration {
	return &protocol.StateHevCycleConfiguration{
		Indication: s.Hev.Indication,
		Duration:   s.Hev.DefaultDuration,
	}
}

func handleGetHevCycleConfiguration(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{hevConfigState(s)}
}

func handleSetHevCycleConfiguration(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sc := req.(*protocol.SetHevCycleConfiguration)
	s.SetHevConfiguration(sc.Indication, sc.Duration)
	if !resRequired {
		return nil
	}
	return []protocol.Message{hevConfigState(s)}
}

func handleGetLastHevCycleResult(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateLastHevCycleResult{Result: s.Hev.LastResult}}
}
