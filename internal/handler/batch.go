package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
	"github.com/tmackey/wortwatch/internal/websocket"
)

type BatchHandler struct {
	batches *store.BatchStore
	recipes *store.RecipeStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewBatchHandler(bs *store.BatchStore, rs *store.RecipeStore, hub *websocket.Hub, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{batches: bs, recipes: rs, hub: hub, logger: logger}
}

// List returns all batches, optionally filtered by ?status=.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		batches []model.Batch
		err     error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		if !model.ValidStatus(model.BatchStatus(status)) {
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		batches, err = h.batches.ListByStatus(model.BatchStatus(status))
	} else {
		batches, err = h.batches.List()
	}
	if err != nil {
		h.logger.Error("list batches", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list batches")
		return
	}
	if batches == nil {
		batches = []model.Batch{}
	}
	writeJSON(w, http.StatusOK, batches)
}

func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	batch, err := h.batches.GetByID(id)
	if err != nil {
		h.logger.Error("get batch", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get batch")
		return
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipeID int64  `json:"recipe_id"`
		Name     string `json:"name"`
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

	recipe, err := h.recipes.GetByID(req.RecipeID)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusBadRequest, "recipe not found")
		return
	}

	batch, err := h.batches.Create(req.RecipeID, req.Name)
	if err != nil {
		h.logger.Error("create batch", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create batch")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("batch", "created", batch.ID, nil))
	writeJSON(w, http.StatusCreated, batch)
}

// UpdateStatus advances a batch through its lifecycle. Only forward
// transitions are allowed; milestone timestamps are stamped on entry.
func (h *BatchHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Status model.BatchStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !model.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	batch, err := h.batches.UpdateStatus(id, req.Status)
	if err != nil {
		if strings.Contains(err.Error(), "invalid status transition") {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("update batch status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("batch", "status_changed", batch.ID, map[string]any{"status": string(batch.Status)}))
	writeJSON(w, http.StatusOK, batch)
}

// UpdateMeasurements records measured OG and FG on a batch. Omitted
// fields keep their stored value.
func (h *BatchHandler) UpdateMeasurements(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		MeasuredOG *float64 `json:"measured_og"`
		MeasuredFG *float64 `json:"measured_fg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	for _, g := range []*float64{req.MeasuredOG, req.MeasuredFG} {
		if g != nil && (*g < 0.9 || *g > 1.2) {
			writeError(w, http.StatusBadRequest, "gravity out of range")
			return
		}
	}

	batch, err := h.batches.GetByID(id)
	if err != nil {
		h.logger.Error("get batch", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get batch")
		return
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	og := batch.MeasuredOG
	if req.MeasuredOG != nil {
		og = req.MeasuredOG
	}
	fg := batch.MeasuredFG
	if req.MeasuredFG != nil {
		fg = req.MeasuredFG
	}
	var abv *float64
	if og != nil && fg != nil {
		v := (*og - *fg) * 131.25
		abv = &v
	}

	batch, err = h.batches.UpdateMeasurements(id, req.MeasuredOG, req.MeasuredFG, abv)
	if err != nil {
		h.logger.Error("update batch measurements", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update measurements")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("batch", "updated", id, nil))
	writeJSON(w, http.StatusOK, batch)
}

// AssignDevices links a hydrometer and optional heater/cooler to a batch.
func (h *BatchHandler) AssignDevices(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		DeviceID *int64 `json:"device_id"`
		HeaterID *int64 `json:"heater_id"`
		CoolerID *int64 `json:"cooler_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	batch, err := h.batches.AssignDevices(id, req.DeviceID, req.HeaterID, req.CoolerID)
	if err != nil {
		h.logger.Error("assign batch devices", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to assign devices")
		return
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.batches.Delete(id); err != nil {
		h.logger.Error("delete batch", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete batch")
		return
	}
	h.hub.Broadcast(websocket.NewMessage("batch", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
