package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmackey/wortwatch/internal/checklist"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

type ChecklistHandler struct {
	checklists *checklist.Manager
	batches    *store.BatchStore
	recipes    *store.RecipeStore
	logger     *slog.Logger
}

func NewChecklistHandler(cm *checklist.Manager, bs *store.BatchStore, rs *store.RecipeStore, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{checklists: cm, batches: bs, recipes: rs, logger: logger}
}

func (h *ChecklistHandler) loadRecipe(w http.ResponseWriter, r *http.Request) (int64, *model.Recipe, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, nil, false
	}
	batch, err := h.batches.GetByID(id)
	if err != nil {
		h.logger.Error("get batch", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get batch")
		return 0, nil, false
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return 0, nil, false
	}
	recipe, err := h.recipes.GetByID(batch.RecipeID)
	if err != nil || recipe == nil {
		h.logger.Error("get batch recipe", "batch_id", batch.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return 0, nil, false
	}
	return id, recipe, true
}

// Get returns the merged checklist for a batch: freshly generated from
// the recipe with the saved checked flags and custom items overlaid.
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, recipe, ok := h.loadRecipe(w, r)
	if !ok {
		return
	}
	items, err := h.checklists.Load(id, recipe)
	if err != nil {
		h.logger.Error("load checklist", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load checklist")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ChecklistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, recipe, ok := h.loadRecipe(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	items, err := h.checklists.Toggle(id, recipe, req.ItemID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "checklist item not found")
			return
		}
		h.logger.Error("toggle checklist item", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update checklist")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ChecklistHandler) AddCustom(w http.ResponseWriter, r *http.Request) {
	id, recipe, ok := h.loadRecipe(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	items, err := h.checklists.AddCustom(id, recipe, req.Text)
	if err != nil {
		h.logger.Error("add checklist item", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update checklist")
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

func (h *ChecklistHandler) RemoveCustom(w http.ResponseWriter, r *http.Request) {
	id, recipe, ok := h.loadRecipe(w, r)
	if !ok {
		return
	}
	itemID := r.PathValue("itemID")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}

	items, err := h.checklists.RemoveCustom(id, recipe, itemID)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			writeError(w, http.StatusNotFound, "checklist item not found")
		case strings.Contains(err.Error(), "not a custom item"):
			writeError(w, http.StatusBadRequest, "only custom items can be removed")
		default:
			h.logger.Error("remove checklist item", "batch_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update checklist")
		}
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ChecklistHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, recipe, ok := h.loadRecipe(w, r)
	if !ok {
		return
	}
	items, err := h.checklists.ResetAll(id, recipe)
	if err != nil {
		h.logger.Error("reset checklist", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset checklist")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
