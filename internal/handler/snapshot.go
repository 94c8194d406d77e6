package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tmackey/wortwatch/internal/backup"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

type SnapshotHandler struct {
	backups   *backup.Manager
	snapshots *store.SnapshotStore
	logger    *slog.Logger
}

func NewSnapshotHandler(bm *backup.Manager, ss *store.SnapshotStore, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{backups: bm, snapshots: ss, logger: logger}
}

func (h *SnapshotHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.backups.Status())
}

func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	snapshots, err := h.snapshots.List(limit)
	if err != nil {
		h.logger.Error("list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if snapshots == nil {
		snapshots = []model.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// Run triggers an immediate snapshot and waits for it to finish.
func (h *SnapshotHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.backups.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "snapshots not configured")
		return
	}
	id, err := h.backups.RunNow(r.Context())
	if err != nil {
		h.logger.Error("run snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "snapshot failed")
		return
	}
	snapshot, err := h.snapshots.GetByID(id)
	if err != nil || snapshot == nil {
		h.logger.Error("get snapshot", "snapshot_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "snapshot record missing")
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

// Download streams the encrypted snapshot object. The file is served as
// stored; decryption happens client side or on restore.
func (h *SnapshotHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	body, size, err := h.backups.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("download snapshot", "snapshot_id", id, "error", err)
		writeError(w, http.StatusNotFound, "snapshot not available")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=snapshot-%d.db.enc", id))
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("stream snapshot", "snapshot_id", id, "error", err)
	}
}

// Restore replaces the live database file from a snapshot. The process
// must be restarted afterwards to reopen the restored file.
func (h *SnapshotHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.backups.Restore(r.Context(), id); err != nil {
		h.logger.Error("restore snapshot", "snapshot_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "restore failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "restored, restart required",
	})
}
