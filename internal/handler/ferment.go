package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmackey/wortwatch/internal/ferment"
	"github.com/tmackey/wortwatch/internal/middleware"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/push"
	"github.com/tmackey/wortwatch/internal/store"
	"github.com/tmackey/wortwatch/internal/websocket"
)

// activityWindow is how far back readings are pulled when deriving the
// gravity rate of change.
const activityWindow = 4 * time.Hour

type FermentHandler struct {
	readings *store.ReadingStore
	alerts   *store.AlertStore
	batches  *store.BatchStore
	recipes  *store.RecipeStore
	catalog  *store.CatalogStore
	hub      *websocket.Hub
	push     *push.Service
	logger   *slog.Logger
}

func NewFermentHandler(
	readings *store.ReadingStore,
	alerts *store.AlertStore,
	batches *store.BatchStore,
	recipes *store.RecipeStore,
	catalog *store.CatalogStore,
	hub *websocket.Hub,
	pushSvc *push.Service,
	logger *slog.Logger,
) *FermentHandler {
	return &FermentHandler{
		readings: readings,
		alerts:   alerts,
		batches:  batches,
		recipes:  recipes,
		catalog:  catalog,
		hub:      hub,
		push:     pushSvc,
		logger:   logger,
	}
}

type fermentStatusResponse struct {
	OG             *float64          `json:"og"`
	CurrentGravity *float64          `json:"current_gravity"`
	CurrentTempC   *float64          `json:"current_temp_c"`
	TargetFG       float64           `json:"target_fg"`
	ProgressPct    *float64          `json:"progress_pct"`
	AttenuationPct *float64          `json:"attenuation_pct"`
	Activity       *ferment.Activity `json:"activity"`
	ReadingCount   int               `json:"reading_count"`
	LastReadingAt  *time.Time        `json:"last_reading_at"`
}

// Status summarizes where a batch's fermentation stands: progress toward
// target FG, apparent attenuation, and the current activity band derived
// from the recent gravity rate.
func (h *FermentHandler) Status(w http.ResponseWriter, r *http.Request) {
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
	recipe, err := h.recipes.GetByID(batch.RecipeID)
	if err != nil || recipe == nil {
		h.logger.Error("get batch recipe", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return
	}

	all, err := h.readings.ListByBatch(id)
	if err != nil {
		h.logger.Error("list readings", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list readings")
		return
	}

	resp := fermentStatusResponse{
		TargetFG:     recipe.TargetFG,
		ReadingCount: len(all),
	}

	// Measured OG wins over the recipe target when the brewer recorded it.
	og := recipe.TargetOG
	if batch.MeasuredOG != nil {
		og = *batch.MeasuredOG
	}
	if og > 0 {
		resp.OG = &og
	}

	if len(all) > 0 {
		latest := all[len(all)-1]
		resp.CurrentGravity = &latest.Gravity
		resp.CurrentTempC = latest.TempC
		resp.LastReadingAt = &latest.RecordedAt

		if pct, ok := ferment.Progress(og, latest.Gravity, recipe.TargetFG); ok {
			resp.ProgressPct = &pct
		}
		if pct, ok := ferment.Attenuation(og, latest.Gravity); ok {
			resp.AttenuationPct = &pct
		}
		if act, ok := activityFrom(all); ok {
			resp.Activity = &act
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// activityFrom bands the gravity rate over the recent reading window. At
// least two readings inside the window are needed for a rate.
func activityFrom(all []model.GravityReading) (ferment.Activity, bool) {
	cutoff := all[len(all)-1].RecordedAt.Add(-activityWindow)
	var window []model.GravityReading
	for _, rd := range all {
		if rd.RecordedAt.After(cutoff) {
			window = append(window, rd)
		}
	}
	if len(window) < 2 {
		return "", false
	}
	first, last := window[0], window[len(window)-1]
	hours := last.RecordedAt.Sub(first.RecordedAt).Hours()
	if hours <= 0 {
		return "", false
	}
	rate := (first.Gravity - last.Gravity) / hours
	if rate < 0 {
		rate = 0
	}
	return ferment.Classify(rate), true
}

// ListReadings returns a batch's gravity readings oldest first.
func (h *FermentHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	readings, err := h.readings.ListByBatch(id)
	if err != nil {
		h.logger.Error("list readings", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list readings")
		return
	}
	if readings == nil {
		readings = []model.GravityReading{}
	}
	writeJSON(w, http.StatusOK, readings)
}

type readingRequest struct {
	Gravity    float64    `json:"gravity"`
	TempC      *float64   `json:"temp_c"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// CreateReading records a manual gravity reading against a batch.
func (h *FermentHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, nil)
}

// IngestReading records a reading reported by an authenticated device.
// The device must be the one assigned to the batch.
func (h *FermentHandler) IngestReading(w http.ResponseWriter, r *http.Request) {
	device := middleware.DeviceFromContext(r.Context())
	if device == nil {
		writeError(w, http.StatusUnauthorized, "device authentication required")
		return
	}
	h.ingest(w, r, device)
}

func (h *FermentHandler) ingest(w http.ResponseWriter, r *http.Request, device *model.Device) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Gravity < 0.9 || req.Gravity > 1.2 {
		writeError(w, http.StatusBadRequest, "gravity out of range")
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

	var deviceID *int64
	if device != nil {
		if batch.DeviceID == nil || *batch.DeviceID != device.ID {
			writeError(w, http.StatusForbidden, "device not assigned to batch")
			return
		}
		deviceID = &device.ID
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}

	reading, err := h.readings.Create(id, deviceID, req.Gravity, req.TempC, recordedAt)
	if err != nil {
		h.logger.Error("create reading", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create reading")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("reading", "created", id, map[string]any{
		"gravity": reading.Gravity,
		"temp_c":  reading.TempC,
	}))
	h.evaluateAlerts(batch, reading)

	writeJSON(w, http.StatusCreated, reading)
}

// Alert evaluation runs after every ingested reading. Each kind fires at
// most one open alert per batch; acknowledging clears the way for a new
// one.
func (h *FermentHandler) evaluateAlerts(batch *model.Batch, reading *model.GravityReading) {
	recipe, err := h.recipes.GetByID(batch.RecipeID)
	if err != nil || recipe == nil {
		h.logger.Error("get batch recipe", "batch_id", batch.ID, "error", err)
		return
	}

	if reading.TempC != nil && recipe.YeastStrainID != nil {
		yeast, err := h.catalog.GetYeast(*recipe.YeastStrainID)
		if err == nil && yeast != nil && yeast.TempMinC > 0 && yeast.TempMaxC > 0 {
			t := *reading.TempC
			if t < yeast.TempMinC || t > yeast.TempMaxC {
				h.raiseAlert(batch.ID, model.SeverityWarning, "temp_excursion",
					fmt.Sprintf("Fermentation temp %.1f°C is outside %s range %.0f-%.0f°C",
						t, yeast.Name, yeast.TempMinC, yeast.TempMaxC))
			}
		}
	}

	og := recipe.TargetOG
	if batch.MeasuredOG != nil {
		og = *batch.MeasuredOG
	}
	all, err := h.readings.ListByBatch(batch.ID)
	if err != nil {
		h.logger.Error("list readings", "batch_id", batch.ID, "error", err)
		return
	}
	act, ok := activityFrom(all)
	if !ok {
		return
	}
	pct, pok := ferment.Progress(og, reading.Gravity, recipe.TargetFG)
	if act == ferment.Complete && pok && pct < 80 {
		h.raiseAlert(batch.ID, model.SeverityWarning, "stalled",
			fmt.Sprintf("Gravity has stopped moving at %.0f%% of expected attenuation; fermentation may have stalled", pct))
	}
}

func (h *FermentHandler) raiseAlert(batchID int64, severity model.AlertSeverity, kind, message string) {
	open, err := h.alerts.HasOpen(batchID, kind)
	if err != nil {
		h.logger.Error("check open alert", "batch_id", batchID, "kind", kind, "error", err)
		return
	}
	if open {
		return
	}
	alert, err := h.alerts.Create(batchID, severity, kind, message)
	if err != nil {
		h.logger.Error("create alert", "batch_id", batchID, "kind", kind, "error", err)
		return
	}

	h.hub.Broadcast(websocket.NewMessage("alert", "created", batchID, map[string]any{
		"id":       alert.ID,
		"kind":     alert.Kind,
		"severity": string(alert.Severity),
		"message":  alert.Message,
	}))
	if h.push != nil {
		h.push.Broadcast(push.Payload{
			Title: "Fermentation alert",
			Body:  alert.Message,
			URL:   fmt.Sprintf("/batches/%d", batchID),
			Tag:   fmt.Sprintf("alert-%s-%d", kind, batchID),
		})
	}
}

// ListAlerts returns a batch's alerts, open ones first.
func (h *FermentHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	alerts, err := h.alerts.ListByBatch(id)
	if err != nil {
		h.logger.Error("list alerts", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	if alerts == nil {
		alerts = []model.FermentationAlert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

// AcknowledgeAlert marks an alert as seen.
func (h *FermentHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	alert, err := h.alerts.Acknowledge(id)
	if err != nil {
		h.logger.Error("acknowledge alert", "alert_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to acknowledge alert")
		return
	}
	if alert == nil {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	h.hub.Broadcast(websocket.NewMessage("alert", "acknowledged", alert.BatchID, map[string]any{"id": alert.ID}))
	writeJSON(w, http.StatusOK, alert)
}
