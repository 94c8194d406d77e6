package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmackey/wortwatch/internal/device"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

type DeviceHandler struct {
	devices *store.DeviceStore
	logger  *slog.Logger
}

func NewDeviceHandler(ds *store.DeviceStore, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{devices: ds, logger: logger}
}

var deviceTypes = map[model.DeviceType]bool{
	model.DeviceHydrometer: true,
	model.DeviceController: true,
	model.DeviceHeater:     true,
	model.DeviceCooler:     true,
}

// Register creates a device and returns its ingest token. The token is
// only ever returned here; re-registering is the only recovery for a
// lost one.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string           `json:"name"`
		Type model.DeviceType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !deviceTypes[req.Type] {
		writeError(w, http.StatusBadRequest, "unknown device type")
		return
	}

	token, hash, err := device.IssueToken()
	if err != nil {
		h.logger.Error("issue device token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register device")
		return
	}
	d, err := h.devices.Create(req.Name, req.Type, hash)
	if err != nil {
		h.logger.Error("create device", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register device")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"device": d,
		"token":  token,
	})
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.devices.List()
	if err != nil {
		h.logger.Error("list devices", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list devices")
		return
	}
	if devices == nil {
		devices = []model.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.devices.Delete(id); err != nil {
		h.logger.Error("delete device", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete device")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
