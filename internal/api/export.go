package api

import (
	"net/http"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/config"
)

// handleExportConfig serializes the running fleet and scenario store
// back to the YAML config schema, so a fleet built up through the API
// can be replayed at the next start.
func (s *Server) handleExportConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := config.Defaults()
	cfg.Scenarios = s.deps.Scenarios.Export()

	for _, d := range s.deps.Manager.List() {
		var dc config.DeviceConfig
		dc.Serial = d.Serial()
		d.WithState(func(st *device.State) {
			dc.ProductID = st.Product
			dc.Label = st.Label
			dc.ZoneCount = st.ZoneCount()
			dc.TileCount = st.TileCount()
			dc.Location = st.Location.Label
			dc.Group = st.Group.Label
			dc.FirmwareMajor = st.FirmwareMajor
			dc.FirmwareMinor = st.FirmwareMinor
			dc.FirmwareBuild = st.FirmwareBuild
		})
		cfg.Devices = append(cfg.Devices, dc)
	}

	data, err := cfg.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
