package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/manager"
	"github.com/Djelibeybi/lifx-emulator/internal/products"
)

// deviceSummary is the list/detail representation of a device.
type deviceSummary struct {
	Serial   string              `json:"serial"`
	Label    string              `json:"label"`
	Product  uint32              `json:"product"`
	Power    uint16              `json:"power_level"`
	Location string              `json:"location"`
	Group    string              `json:"group"`
	Caps     device.Capabilities `json:"caps"`
}

func summarize(d *device.Device) deviceSummary {
	out := deviceSummary{Serial: d.Serial(), Caps: d.Caps()}
	d.WithState(func(s *device.State) {
		out.Label = s.Label
		out.Product = s.Product
		out.Power = s.PowerLevel
		out.Location = s.Location.Label
		out.Group = s.Group.Label
	})
	return out
}

func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.deps.Manager.List()
	out := make([]deviceSummary, 0, len(devices))
	for _, d := range devices {
		out = append(out, summarize(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// createDeviceRequest mirrors the config file's device stanza.
type createDeviceRequest struct {
	Serial    string `json:"serial"`
	ProductID uint32 `json:"product_id"`
	Label     string `json:"label,omitempty"`
	ZoneCount int    `json:"zone_count,omitempty"`
	TileCount int    `json:"tile_count,omitempty"`
	Location  string `json:"location,omitempty"`
	Group     string `json:"group,omitempty"`
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var opts []device.Option
	if req.Label != "" {
		opts = append(opts, device.WithLabel(req.Label))
	}
	if req.ZoneCount > 0 {
		opts = append(opts, device.WithZoneCount(req.ZoneCount))
	}
	if req.TileCount > 0 {
		opts = append(opts, device.WithTileCount(req.TileCount))
	}
	if req.Location != "" {
		opts = append(opts, device.WithLocation(req.Location))
	}
	if req.Group != "" {
		opts = append(opts, device.WithGroup(req.Group))
	}

	d, err := device.NewFromProduct(req.ProductID, req.Serial, opts...)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := s.deps.Manager.Add(d); err != nil {
		if errors.Is(err, manager.ErrDuplicateSerial) {
			writeError(w, http.StatusConflict, "conflict", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	if s.deps.OnDeviceCreated != nil {
		s.deps.OnDeviceCreated(d)
	}

	writeJSON(w, http.StatusCreated, summarize(d))
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d, ok := s.deps.Manager.Get(chi.URLParam(r, "serial"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no such device")
		return
	}
	writeJSON(w, http.StatusOK, summarize(d))
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	serial := chi.URLParam(r, "serial")
	if err := s.deps.Manager.Remove(serial); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "no such device")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetDeviceState returns the full point-in-time state snapshot,
// the same JSON schema the persistence engine writes.
func (s *Server) handleGetDeviceState(w http.ResponseWriter, r *http.Request) {
	d, ok := s.deps.Manager.Get(chi.URLParam(r, "serial"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no such device")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Snapshot())
}

func (s *Server) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, products.All())
}
