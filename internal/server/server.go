package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tmackey/wortwatch/internal/backup"
	"github.com/tmackey/wortwatch/internal/checklist"
	"github.com/tmackey/wortwatch/internal/handler"
	"github.com/tmackey/wortwatch/internal/middleware"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/prediction"
	"github.com/tmackey/wortwatch/internal/push"
	"github.com/tmackey/wortwatch/internal/store"
	"github.com/tmackey/wortwatch/internal/timer"
	ws "github.com/tmackey/wortwatch/internal/websocket"
)

// Config carries the optional integrations; zero values disable them.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	PredictionURL   string
	Backup          backup.Config
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	recipeH       *handler.RecipeHandler
	batchH        *handler.BatchHandler
	timerH        *handler.TimerHandler
	checklistH    *handler.ChecklistHandler
	fermentH      *handler.FermentHandler
	predictionH   *handler.PredictionHandler
	tastingH      *handler.TastingHandler
	deviceH       *handler.DeviceHandler
	pushH         *handler.PushHandler
	snapshotH     *handler.SnapshotHandler
	catalogH      *handler.CatalogHandler
	batchStore    *store.BatchStore
	recipeStore   *store.RecipeStore
	deviceStore   *store.DeviceStore
	rateLimiter   *middleware.RateLimiter
	timerManager  *timer.Manager
	backupManager *backup.Manager
	pushService   *push.Service
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	recipeStore := store.NewRecipeStore(db)
	batchStore := store.NewBatchStore(db)
	readingStore := store.NewReadingStore(db)
	alertStore := store.NewAlertStore(db)
	tastingStore := store.NewTastingStore(db)
	deviceStore := store.NewDeviceStore(db)
	pushStore := store.NewPushStore(db)
	settingsStore := store.NewSettingsStore(db)
	catalogStore := store.NewCatalogStore(db)
	snapshotStore := store.NewSnapshotStore(db)

	pushLogger := logger.With("component", "push")
	var pushSvc *push.Service
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, pushStore, pushLogger)
	}

	timerMgr := timer.NewManager(batchStore, &brewDayNotifier{hub: hub, push: pushSvc}, logger.With("component", "timer"))
	backupMgr := backup.NewManager(cfg.Backup, db, snapshotStore, logger.With("component", "backup"))
	predictionSvc := prediction.NewService(cfg.PredictionURL)
	checklistMgr := checklist.NewManager(settingsStore, logger.With("component", "checklist"))

	return &Server{
		db:            db,
		hub:           hub,
		recipeH:       handler.NewRecipeHandler(recipeStore, catalogStore, hub, logger.With("component", "recipe")),
		batchH:        handler.NewBatchHandler(batchStore, recipeStore, hub, logger.With("component", "batch")),
		timerH:        handler.NewTimerHandler(timerMgr, batchStore, recipeStore, hub, logger.With("component", "timer_handler")),
		checklistH:    handler.NewChecklistHandler(checklistMgr, batchStore, recipeStore, logger.With("component", "checklist_handler")),
		fermentH:      handler.NewFermentHandler(readingStore, alertStore, batchStore, recipeStore, catalogStore, hub, pushSvc, logger.With("component", "ferment")),
		predictionH:   handler.NewPredictionHandler(predictionSvc, batchStore, logger.With("component", "prediction")),
		tastingH:      handler.NewTastingHandler(tastingStore, batchStore, logger.With("component", "tasting")),
		deviceH:       handler.NewDeviceHandler(deviceStore, logger.With("component", "device")),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		snapshotH:     handler.NewSnapshotHandler(backupMgr, snapshotStore, logger.With("component", "snapshot")),
		catalogH:      handler.NewCatalogHandler(catalogStore, logger.With("component", "catalog")),
		batchStore:    batchStore,
		recipeStore:   recipeStore,
		deviceStore:   deviceStore,
		rateLimiter:   middleware.NewRateLimiter(),
		timerManager:  timerMgr,
		backupManager: backupMgr,
		pushService:   pushSvc,
		logger:        logger,
	}
}

// TimerManager returns the timer manager so main can start its tick loop.
func (s *Server) TimerManager() *timer.Manager {
	return s.timerManager
}

// BackupManager returns the backup manager so main can start its schedule.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// RestoreTimers re-registers countdowns for batches that had a timer
// running when the process last stopped.
func (s *Server) RestoreTimers() error {
	batches, err := s.batchStore.ListActive()
	if err != nil {
		return fmt.Errorf("list active batches: %w", err)
	}
	for i := range batches {
		b := &batches[i]
		if b.TimerPhase == model.PhaseIdle || b.TimerPhase == model.PhaseComplete {
			continue
		}
		recipe, err := s.recipeStore.GetByID(b.RecipeID)
		if err != nil || recipe == nil {
			s.logger.Warn("skip timer restore, recipe missing", "batch_id", b.ID, "error", err)
			continue
		}
		s.timerManager.Restore(b, recipe.Hops)
		s.logger.Info("restored timer", "batch_id", b.ID, "phase", b.TimerPhase)
	}
	return nil
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Recipe API routes
	mux.HandleFunc("GET /api/recipes", s.recipeH.List)
	mux.HandleFunc("POST /api/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.recipeH.Delete)
	mux.HandleFunc("GET /api/recipes/{id}/stats", s.recipeH.Stats)
	mux.HandleFunc("GET /api/recipes/{id}/style-check", s.recipeH.StyleCheck)

	// Batch API routes
	mux.HandleFunc("GET /api/batches", s.batchH.List)
	mux.HandleFunc("POST /api/batches", s.batchH.Create)
	mux.HandleFunc("GET /api/batches/{id}", s.batchH.Get)
	mux.HandleFunc("DELETE /api/batches/{id}", s.batchH.Delete)
	mux.HandleFunc("PUT /api/batches/{id}/status", s.batchH.UpdateStatus)
	mux.HandleFunc("PUT /api/batches/{id}/measurements", s.batchH.UpdateMeasurements)
	mux.HandleFunc("PUT /api/batches/{id}/devices", s.batchH.AssignDevices)

	// Brew-day timer routes
	mux.HandleFunc("GET /api/batches/{id}/timer", s.timerH.State)
	mux.HandleFunc("POST /api/batches/{id}/timer/mash", s.timerH.StartMash)
	mux.HandleFunc("POST /api/batches/{id}/timer/boil", s.timerH.StartBoil)
	mux.HandleFunc("POST /api/batches/{id}/timer/pause", s.timerH.Pause)
	mux.HandleFunc("POST /api/batches/{id}/timer/resume", s.timerH.Resume)
	mux.HandleFunc("POST /api/batches/{id}/timer/adjust", s.timerH.Adjust)
	mux.HandleFunc("POST /api/batches/{id}/timer/reset", s.timerH.Reset)

	// Brew-day checklist routes
	mux.HandleFunc("GET /api/batches/{id}/checklist", s.checklistH.Get)
	mux.HandleFunc("POST /api/batches/{id}/checklist/toggle", s.checklistH.Toggle)
	mux.HandleFunc("POST /api/batches/{id}/checklist/items", s.checklistH.AddCustom)
	mux.HandleFunc("DELETE /api/batches/{id}/checklist/items/{itemID}", s.checklistH.RemoveCustom)
	mux.HandleFunc("POST /api/batches/{id}/checklist/reset", s.checklistH.Reset)

	// Fermentation routes
	mux.HandleFunc("GET /api/batches/{id}/fermentation", s.fermentH.Status)
	mux.HandleFunc("GET /api/batches/{id}/readings", s.fermentH.ListReadings)
	mux.HandleFunc("POST /api/batches/{id}/readings", s.fermentH.CreateReading)
	mux.HandleFunc("GET /api/batches/{id}/alerts", s.fermentH.ListAlerts)
	mux.HandleFunc("POST /api/alerts/{id}/acknowledge", s.fermentH.AcknowledgeAlert)
	mux.HandleFunc("GET /api/batches/{id}/prediction", s.predictionH.Get)

	// Device readings land here with a bearer token, rate limited per IP.
	ingest := middleware.RequireDeviceToken(s.deviceStore)(http.HandlerFunc(s.fermentH.IngestReading))
	mux.Handle("POST /api/ingest/batches/{id}/readings", s.rateLimiter.Limit(60, time.Minute)(ingest))

	// Tasting note routes
	mux.HandleFunc("GET /api/batches/{id}/tasting-notes", s.tastingH.ListByBatch)
	mux.HandleFunc("POST /api/batches/{id}/tasting-notes", s.tastingH.Create)
	mux.HandleFunc("GET /api/tasting-notes/{id}", s.tastingH.Get)
	mux.HandleFunc("PUT /api/tasting-notes/{id}", s.tastingH.Update)
	mux.HandleFunc("DELETE /api/tasting-notes/{id}", s.tastingH.Delete)

	// Device management routes
	mux.HandleFunc("POST /api/devices", s.deviceH.Register)
	mux.HandleFunc("GET /api/devices", s.deviceH.List)
	mux.HandleFunc("DELETE /api/devices/{id}", s.deviceH.Delete)

	// Push notification routes
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	// Snapshot routes
	mux.HandleFunc("GET /api/snapshots", s.snapshotH.List)
	mux.HandleFunc("GET /api/snapshots/status", s.snapshotH.Status)
	mux.HandleFunc("POST /api/snapshots", s.snapshotH.Run)
	mux.HandleFunc("GET /api/snapshots/{id}/download", s.snapshotH.Download)
	mux.HandleFunc("POST /api/snapshots/{id}/restore", s.snapshotH.Restore)

	// Reference catalog routes
	mux.HandleFunc("GET /api/styles", s.catalogH.ListStyles)
	mux.HandleFunc("GET /api/styles/{id}", s.catalogH.GetStyle)
	mux.HandleFunc("GET /api/yeasts", s.catalogH.ListYeasts)
	mux.HandleFunc("POST /api/yeasts", s.catalogH.CreateYeast)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// brewDayNotifier fans timer events out to websocket clients and, when
// configured, browser push.
type brewDayNotifier struct {
	hub  *ws.Hub
	push *push.Service
}

func (n *brewDayNotifier) HopAddition(batchID int64, remainingMinutes int, hops []model.Hop) {
	names := make([]string, 0, len(hops))
	var grams float64
	for _, h := range hops {
		names = append(names, h.Name)
		grams += h.AmountGrams
	}

	n.hub.Broadcast(ws.NewMessage("timer", "hop_addition", batchID, map[string]any{
		"remaining_minutes": remainingMinutes,
		"hops":              names,
	}))
	if n.push != nil {
		n.push.Broadcast(push.Payload{
			Title: "Hop addition",
			Body:  fmt.Sprintf("Add %.0f g %s (%d min remaining)", grams, strings.Join(names, ", "), remainingMinutes),
			URL:   fmt.Sprintf("/batches/%d", batchID),
			Tag:   fmt.Sprintf("hops-%d-%d", batchID, remainingMinutes),
		})
	}
}

func (n *brewDayNotifier) TimerExpired(batchID int64, phase model.TimerPhase) {
	n.hub.Broadcast(ws.NewMessage("timer", "expired", batchID, map[string]any{
		"phase": string(phase),
	}))
	if n.push != nil {
		title := "Timer complete"
		body := "The countdown has finished"
		switch phase {
		case model.PhaseMash:
			title = "Mash complete"
			body = "Mash time is up, start the sparge"
		case model.PhaseBoil:
			title = "Boil complete"
			body = "Flameout, start chilling"
		}
		n.push.Broadcast(push.Payload{
			Title: title,
			Body:  body,
			URL:   fmt.Sprintf("/batches/%d", batchID),
			Tag:   fmt.Sprintf("timer-%d-%s", batchID, phase),
		})
	}
}
