package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmackey/wortwatch/internal/brewcalc"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
	"github.com/tmackey/wortwatch/internal/websocket"
)

type RecipeHandler struct {
	recipes *store.RecipeStore
	catalog *store.CatalogStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewRecipeHandler(rs *store.RecipeStore, cs *store.CatalogStore, hub *websocket.Hub, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: rs, catalog: cs, hub: hub, logger: logger}
}

type fermentableRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	AmountKg    float64 `json:"amount_kg"`
	PotentialSG float64 `json:"potential_sg"`
	ColorSRM    float64 `json:"color_srm"`
}

type hopRequest struct {
	Name         string  `json:"name"`
	Origin       string  `json:"origin"`
	AlphaAcidPct float64 `json:"alpha_acid_pct"`
	AmountGrams  float64 `json:"amount_grams"`
	Use          string  `json:"use"`
	TimeMinutes  int     `json:"time_minutes"`
	Form         string  `json:"form"`
}

type recipeRequest struct {
	Name           string               `json:"name"`
	Author         string               `json:"author"`
	Style          string               `json:"style"`
	StyleID        *int64               `json:"style_id"`
	BatchSizeL     float64              `json:"batch_size_l"`
	BoilSizeL      float64              `json:"boil_size_l"`
	EfficiencyPct  float64              `json:"efficiency_pct"`
	BoilTimeMin    int                  `json:"boil_time_min"`
	MashTimeMin    int                  `json:"mash_time_min"`
	YeastStrainID  *int64               `json:"yeast_strain_id"`
	YeastName      string               `json:"yeast_name"`
	AttenuationPct float64              `json:"attenuation_pct"`
	Fermentables   []fermentableRequest `json:"fermentables"`
	Hops           []hopRequest         `json:"hops"`
}

func (req *recipeRequest) toModel() (*model.Recipe, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, "name is required"
	}
	if req.BatchSizeL <= 0 {
		return nil, "batch_size_l must be positive"
	}

	r := &model.Recipe{
		Name:           req.Name,
		Author:         req.Author,
		Style:          req.Style,
		StyleID:        req.StyleID,
		BatchSizeL:     req.BatchSizeL,
		BoilSizeL:      req.BoilSizeL,
		EfficiencyPct:  req.EfficiencyPct,
		BoilTimeMin:    req.BoilTimeMin,
		MashTimeMin:    req.MashTimeMin,
		YeastStrainID:  req.YeastStrainID,
		YeastName:      req.YeastName,
		AttenuationPct: req.AttenuationPct,
	}
	if r.EfficiencyPct <= 0 {
		r.EfficiencyPct = 75
	}
	if r.BoilTimeMin <= 0 {
		r.BoilTimeMin = 60
	}
	if r.MashTimeMin <= 0 {
		r.MashTimeMin = 60
	}

	for _, f := range req.Fermentables {
		if strings.TrimSpace(f.Name) == "" {
			return nil, "fermentable name is required"
		}
		ft := model.FermentableType(f.Type)
		if ft == "" {
			ft = model.FermentableBase
		}
		r.Fermentables = append(r.Fermentables, model.Fermentable{
			Name:        strings.TrimSpace(f.Name),
			Type:        ft,
			AmountKg:    f.AmountKg,
			PotentialSG: f.PotentialSG,
			ColorSRM:    f.ColorSRM,
		})
	}
	for _, h := range req.Hops {
		if strings.TrimSpace(h.Name) == "" {
			return nil, "hop name is required"
		}
		use := model.HopUse(h.Use)
		if use == "" {
			use = model.HopUseBoil
		}
		form := model.HopForm(h.Form)
		if form == "" {
			form = model.HopFormPellet
		}
		r.Hops = append(r.Hops, model.Hop{
			Name:         strings.TrimSpace(h.Name),
			Origin:       h.Origin,
			AlphaAcidPct: h.AlphaAcidPct,
			AmountGrams:  h.AmountGrams,
			Use:          use,
			TimeMinutes:  h.TimeMinutes,
			Form:         form,
		})
	}
	return r, ""
}

// defaultAttenuation fills in a missing attenuation from the linked
// yeast strain's range midpoint, so the cached FG and ABV targets use
// strain data instead of the generic fallback.
func (h *RecipeHandler) defaultAttenuation(r *model.Recipe) {
	if r.AttenuationPct > 0 || r.YeastStrainID == nil {
		return
	}
	strain, err := h.catalog.GetYeast(*r.YeastStrainID)
	if err != nil {
		h.logger.Error("get yeast strain", "error", err)
		return
	}
	if strain != nil {
		r.AttenuationPct = strain.Attenuation()
	}
}

// cacheTargets computes the derived stats and writes them onto the
// recipe's cached target fields before it is stored.
func cacheTargets(r *model.Recipe) {
	stats := brewcalc.RecipeStats(r)
	r.TargetOG = stats.OG
	r.TargetFG = stats.FG
	r.TargetABV = stats.ABV
	r.TargetIBU = stats.IBU
	r.TargetSRM = stats.SRM
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.List()
	if err != nil {
		h.logger.Error("list recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list recipes")
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	recipe, err := h.recipes.GetByID(id)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	recipe, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.defaultAttenuation(recipe)
	cacheTargets(recipe)

	created, err := h.recipes.Create(recipe)
	if err != nil {
		h.logger.Error("create recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("recipe", "created", 0, map[string]any{"recipe_id": created.ID}))
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	recipe, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.defaultAttenuation(recipe)
	cacheTargets(recipe)

	updated, err := h.recipes.Update(id, recipe)
	if err != nil {
		h.logger.Error("update recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("recipe", "updated", 0, map[string]any{"recipe_id": updated.ID}))
	writeJSON(w, http.StatusOK, updated)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.recipes.Delete(id); err != nil {
		h.logger.Error("delete recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}
	h.hub.Broadcast(websocket.NewMessage("recipe", "deleted", 0, map[string]any{"recipe_id": id}))
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns the full derived statistics for a recipe, including
// brew-day water volumes.
func (h *RecipeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	recipe, err := h.recipes.GetByID(id)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	stats := brewcalc.RecipeStats(recipe)
	water := brewcalc.Water(recipe.BatchSizeL, recipe.TotalGrainKg(), recipe.BoilTimeMin, recipe.BoilSizeL)
	writeJSON(w, http.StatusOK, map[string]any{
		"stats": stats,
		"water": water,
	})
}

// StyleCheck compares a recipe's stats against its selected BJCP style.
func (h *RecipeHandler) StyleCheck(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	recipe, err := h.recipes.GetByID(id)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	if recipe.StyleID == nil {
		writeJSON(w, http.StatusOK, map[string]any{"style": nil, "warnings": []brewcalc.StyleWarning{}})
		return
	}

	style, err := h.catalog.GetStyle(*recipe.StyleID)
	if err != nil {
		h.logger.Error("get style", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get style")
		return
	}

	warnings := brewcalc.CheckStyle(brewcalc.RecipeStats(recipe), style)
	if warnings == nil {
		warnings = []brewcalc.StyleWarning{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"style":    style,
		"warnings": warnings,
	})
}
