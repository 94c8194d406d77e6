package handler

import (
	"log/slog"
	"net/http"

	"github.com/tmackey/wortwatch/internal/ferment"
	"github.com/tmackey/wortwatch/internal/prediction"
	"github.com/tmackey/wortwatch/internal/store"
)

type PredictionHandler struct {
	predictions *prediction.Service
	batches     *store.BatchStore
	logger      *slog.Logger
}

func NewPredictionHandler(ps *prediction.Service, bs *store.BatchStore, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{predictions: ps, batches: bs, logger: logger}
}

type predictionResponse struct {
	prediction.Result
	AccuracyBand string `json:"accuracy_band,omitempty"`
}

// Get returns the cached prediction for a batch. ?model= selects the
// regression model; ?reload=true bypasses the cache.
func (h *PredictionHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	modelType := r.URL.Query().Get("model")
	var result prediction.Result
	if r.URL.Query().Get("reload") == "true" {
		result, err = h.predictions.Reload(id, modelType)
	} else {
		result, err = h.predictions.ForBatch(id, modelType)
	}
	if err != nil {
		h.logger.Warn("fetch prediction", "batch_id", id, "error", err)
		writeJSON(w, http.StatusOK, predictionResponse{Result: prediction.Result{
			Reason: "prediction service unavailable",
		}})
		return
	}

	resp := predictionResponse{Result: result}
	// Once the batch has a measured FG, report how close the prediction
	// landed.
	if result.Available && result.PredictedFG != nil && batch.MeasuredFG != nil {
		resp.AccuracyBand = ferment.AccuracyBand(*result.PredictedFG, *batch.MeasuredFG)
	}
	writeJSON(w, http.StatusOK, resp)
}
