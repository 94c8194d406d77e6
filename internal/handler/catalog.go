package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

type CatalogHandler struct {
	catalog *store.CatalogStore
	logger  *slog.Logger
}

func NewCatalogHandler(cs *store.CatalogStore, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cs, logger: logger}
}

// ListStyles returns the seeded BJCP style guideline catalog.
func (h *CatalogHandler) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := h.catalog.ListStyles()
	if err != nil {
		h.logger.Error("list styles", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list styles")
		return
	}
	if styles == nil {
		styles = []model.Style{}
	}
	writeJSON(w, http.StatusOK, styles)
}

func (h *CatalogHandler) GetStyle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	style, err := h.catalog.GetStyle(id)
	if err != nil {
		h.logger.Error("get style", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get style")
		return
	}
	if style == nil {
		writeError(w, http.StatusNotFound, "style not found")
		return
	}
	writeJSON(w, http.StatusOK, style)
}

func (h *CatalogHandler) ListYeasts(w http.ResponseWriter, r *http.Request) {
	yeasts, err := h.catalog.ListYeasts()
	if err != nil {
		h.logger.Error("list yeasts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list yeasts")
		return
	}
	if yeasts == nil {
		yeasts = []model.YeastStrain{}
	}
	writeJSON(w, http.StatusOK, yeasts)
}

// CreateYeast adds a custom yeast strain alongside the seeded catalog.
func (h *CatalogHandler) CreateYeast(w http.ResponseWriter, r *http.Request) {
	var req model.YeastStrain
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.AttenuationMin < 0 || req.AttenuationMax > 100 || req.AttenuationMin > req.AttenuationMax {
		writeError(w, http.StatusBadRequest, "attenuation range is invalid")
		return
	}

	yeast, err := h.catalog.CreateYeast(&req)
	if err != nil {
		h.logger.Error("create yeast", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create yeast")
		return
	}
	writeJSON(w, http.StatusCreated, yeast)
}
