package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

type TastingHandler struct {
	tastings *store.TastingStore
	batches  *store.BatchStore
	logger   *slog.Logger
}

func NewTastingHandler(ts *store.TastingStore, bs *store.BatchStore, logger *slog.Logger) *TastingHandler {
	return &TastingHandler{tastings: ts, batches: bs, logger: logger}
}

type tastingRequest struct {
	SchemaVersion int `json:"schema_version"`

	Appearance int `json:"appearance"`
	Aroma      int `json:"aroma"`
	Flavor     int `json:"flavor"`
	Mouthfeel  int `json:"mouthfeel"`
	Overall    int `json:"overall"`

	BJCPAroma      int `json:"bjcp_aroma"`
	BJCPAppearance int `json:"bjcp_appearance"`
	BJCPFlavor     int `json:"bjcp_flavor"`
	BJCPMouthfeel  int `json:"bjcp_mouthfeel"`
	BJCPOverall    int `json:"bjcp_overall"`

	AppearanceNotes string `json:"appearance_notes"`
	AromaNotes      string `json:"aroma_notes"`
	FlavorNotes     string `json:"flavor_notes"`
	MouthfeelNotes  string `json:"mouthfeel_notes"`
	OverallNotes    string `json:"overall_notes"`

	ServingTempC    *float64   `json:"serving_temp_c"`
	Glassware       string     `json:"glassware"`
	StyleConformant *bool      `json:"style_conformant"`
	TastedAt        *time.Time `json:"tasted_at"`
}

func (req *tastingRequest) toModel() (*model.TastingNote, string) {
	if req.SchemaVersion == 0 {
		req.SchemaVersion = 2
	}
	if req.SchemaVersion != 1 && req.SchemaVersion != 2 {
		return nil, "schema_version must be 1 or 2"
	}

	if req.SchemaVersion == 2 {
		limits := []struct {
			name string
			val  int
			max  int
		}{
			{"bjcp_aroma", req.BJCPAroma, 12},
			{"bjcp_appearance", req.BJCPAppearance, 3},
			{"bjcp_flavor", req.BJCPFlavor, 20},
			{"bjcp_mouthfeel", req.BJCPMouthfeel, 5},
			{"bjcp_overall", req.BJCPOverall, 10},
		}
		for _, l := range limits {
			if l.val < 0 || l.val > l.max {
				return nil, l.name + " out of range"
			}
		}
	} else {
		for _, v := range []int{req.Appearance, req.Aroma, req.Flavor, req.Mouthfeel, req.Overall} {
			if v < 0 || v > 5 {
				return nil, "star ratings must be between 0 and 5"
			}
		}
	}

	n := &model.TastingNote{
		SchemaVersion:   req.SchemaVersion,
		Appearance:      req.Appearance,
		Aroma:           req.Aroma,
		Flavor:          req.Flavor,
		Mouthfeel:       req.Mouthfeel,
		Overall:         req.Overall,
		BJCPAroma:       req.BJCPAroma,
		BJCPAppearance:  req.BJCPAppearance,
		BJCPFlavor:      req.BJCPFlavor,
		BJCPMouthfeel:   req.BJCPMouthfeel,
		BJCPOverall:     req.BJCPOverall,
		AppearanceNotes: req.AppearanceNotes,
		AromaNotes:      req.AromaNotes,
		FlavorNotes:     req.FlavorNotes,
		MouthfeelNotes:  req.MouthfeelNotes,
		OverallNotes:    req.OverallNotes,
		ServingTempC:    req.ServingTempC,
		Glassware:       req.Glassware,
		StyleConformant: req.StyleConformant,
	}
	if req.TastedAt != nil {
		n.TastedAt = *req.TastedAt
	}
	return n, ""
}

type tastingResponse struct {
	model.TastingNote
	TotalScore int    `json:"total_score"`
	RatingBand string `json:"rating_band"`
}

func tastingJSON(n *model.TastingNote) tastingResponse {
	resp := tastingResponse{TastingNote: *n, TotalScore: n.TotalScore()}
	if n.SchemaVersion >= 2 {
		resp.RatingBand = model.RatingBand(resp.TotalScore)
	}
	return resp
}

// ListByBatch returns a batch's tasting notes, newest first, with the
// derived total score and rating band on each.
func (h *TastingHandler) ListByBatch(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	notes, err := h.tastings.ListByBatch(id)
	if err != nil {
		h.logger.Error("list tasting notes", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tasting notes")
		return
	}
	resp := make([]tastingResponse, 0, len(notes))
	for i := range notes {
		resp = append(resp, tastingJSON(&notes[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TastingHandler) Create(w http.ResponseWriter, r *http.Request) {
	batchID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	batch, err := h.batches.GetByID(batchID)
	if err != nil {
		h.logger.Error("get batch", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get batch")
		return
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	var req tastingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	note, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	note.BatchID = batchID

	created, err := h.tastings.Create(note)
	if err != nil {
		h.logger.Error("create tasting note", "batch_id", batchID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create tasting note")
		return
	}
	writeJSON(w, http.StatusCreated, tastingJSON(created))
}

func (h *TastingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	note, err := h.tastings.GetByID(id)
	if err != nil {
		h.logger.Error("get tasting note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get tasting note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "tasting note not found")
		return
	}
	writeJSON(w, http.StatusOK, tastingJSON(note))
}

func (h *TastingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req tastingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	note, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if note.TastedAt.IsZero() {
		note.TastedAt = time.Now().UTC()
	}

	updated, err := h.tastings.Update(id, note)
	if err != nil {
		h.logger.Error("update tasting note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update tasting note")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "tasting note not found")
		return
	}
	writeJSON(w, http.StatusOK, tastingJSON(updated))
}

func (h *TastingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.tastings.Delete(id); err != nil {
		h.logger.Error("delete tasting note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete tasting note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
