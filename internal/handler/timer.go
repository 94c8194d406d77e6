package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
	"github.com/tmackey/wortwatch/internal/timer"
	"github.com/tmackey/wortwatch/internal/websocket"
)

type TimerHandler struct {
	timers  *timer.Manager
	batches *store.BatchStore
	recipes *store.RecipeStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewTimerHandler(tm *timer.Manager, bs *store.BatchStore, rs *store.RecipeStore, hub *websocket.Hub, logger *slog.Logger) *TimerHandler {
	return &TimerHandler{timers: tm, batches: bs, recipes: rs, hub: hub, logger: logger}
}

type timerResponse struct {
	Phase            model.TimerPhase `json:"phase"`
	Running          bool             `json:"running"`
	RemainingSeconds int              `json:"remaining_seconds"`
	DurationSeconds  int              `json:"duration_seconds"`
}

func timerJSON(st timer.State, remaining int) timerResponse {
	return timerResponse{
		Phase:            st.Phase,
		Running:          st.Running(),
		RemainingSeconds: remaining,
		DurationSeconds:  st.DurationSeconds,
	}
}

// loadBatchRecipe resolves the batch and its recipe, writing the error
// response itself when either is missing.
func (h *TimerHandler) loadBatchRecipe(w http.ResponseWriter, r *http.Request) (*model.Batch, *model.Recipe, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, nil, false
	}
	batch, err := h.batches.GetByID(id)
	if err != nil {
		h.logger.Error("get batch", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get batch")
		return nil, nil, false
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return nil, nil, false
	}
	recipe, err := h.recipes.GetByID(batch.RecipeID)
	if err != nil || recipe == nil {
		h.logger.Error("get batch recipe", "batch_id", batch.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return nil, nil, false
	}
	return batch, recipe, true
}

type startTimerRequest struct {
	DurationMinutes *int `json:"duration_minutes"`
}

// StartMash begins the mash countdown. The duration defaults to the
// recipe's mash time and may be overridden in the request.
func (h *TimerHandler) StartMash(w http.ResponseWriter, r *http.Request) {
	batch, recipe, ok := h.loadBatchRecipe(w, r)
	if !ok {
		return
	}
	minutes := recipe.MashTimeMin
	var req startTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.DurationMinutes != nil {
		minutes = *req.DurationMinutes
	}
	if minutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}

	st, err := h.timers.StartMash(batch.ID, minutes*60, recipe.Hops)
	if err != nil {
		h.logger.Error("start mash timer", "batch_id", batch.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start timer")
		return
	}
	h.broadcast(batch.ID, "mash_started", st)
	writeJSON(w, http.StatusOK, timerJSON(st, minutes*60))
}

// StartBoil begins the boil countdown. Hop-addition alerts fire from the
// recipe's boil hop schedule as the countdown reaches each addition time.
func (h *TimerHandler) StartBoil(w http.ResponseWriter, r *http.Request) {
	batch, recipe, ok := h.loadBatchRecipe(w, r)
	if !ok {
		return
	}
	minutes := recipe.BoilTimeMin
	var req startTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.DurationMinutes != nil {
		minutes = *req.DurationMinutes
	}
	if minutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}

	st, err := h.timers.StartBoil(batch.ID, minutes*60, recipe.Hops)
	if err != nil {
		h.logger.Error("start boil timer", "batch_id", batch.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start timer")
		return
	}
	h.broadcast(batch.ID, "boil_started", st)
	writeJSON(w, http.StatusOK, timerJSON(st, minutes*60))
}

func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "paused", func(id int64) (timer.State, error) {
		return h.timers.Pause(id)
	})
}

func (h *TimerHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "resumed", func(id int64) (timer.State, error) {
		return h.timers.Resume(id)
	})
}

// Adjust adds or subtracts time from the running countdown.
func (h *TimerHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeltaSeconds int `json:"delta_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.DeltaSeconds == 0 {
		writeError(w, http.StatusBadRequest, "delta_seconds is required")
		return
	}
	h.mutate(w, r, "adjusted", func(id int64) (timer.State, error) {
		return h.timers.Adjust(id, req.DeltaSeconds)
	})
}

func (h *TimerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "reset", func(id int64) (timer.State, error) {
		return h.timers.Reset(id)
	})
}

func (h *TimerHandler) mutate(w http.ResponseWriter, r *http.Request, action string, fn func(int64) (timer.State, error)) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	st, err := fn(id)
	if err != nil {
		if errors.Is(err, timer.ErrNoTimer) {
			writeError(w, http.StatusConflict, "no active timer for batch")
			return
		}
		h.logger.Error("timer "+action, "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update timer")
		return
	}

	_, remaining, _ := h.timers.StateOf(id)
	h.broadcast(id, action, st)
	writeJSON(w, http.StatusOK, timerJSON(st, remaining))
}

// State returns the live countdown for a batch. A batch with no active
// timer reports its persisted phase with zero remaining.
func (h *TimerHandler) State(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	st, remaining, ok := h.timers.StateOf(id)
	if !ok {
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
		st = timer.FromBatch(batch)
		remaining = 0
	}
	writeJSON(w, http.StatusOK, timerJSON(st, remaining))
}

func (h *TimerHandler) broadcast(batchID int64, action string, st timer.State) {
	_, remaining, _ := h.timers.StateOf(batchID)
	h.hub.Broadcast(websocket.NewMessage("timer", action, batchID, map[string]any{
		"phase":             string(st.Phase),
		"running":           st.Running(),
		"remaining_seconds": remaining,
	}))
}
