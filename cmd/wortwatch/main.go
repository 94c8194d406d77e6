package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tmackey/wortwatch/internal/backup"
	"github.com/tmackey/wortwatch/internal/database"
	"github.com/tmackey/wortwatch/internal/logging"
	"github.com/tmackey/wortwatch/internal/push"
	"github.com/tmackey/wortwatch/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("WORTWATCH_LOG_LEVEL"), os.Getenv("WORTWATCH_LOG_FORMAT"))

	if len(os.Args) > 1 && os.Args[1] == "generate-vapid-keys" {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			logger.Error("generate VAPID keys", "error", err)
			os.Exit(1)
		}
		fmt.Printf("WORTWATCH_VAPID_PUBLIC_KEY=%s\nWORTWATCH_VAPID_PRIVATE_KEY=%s\n", pub, priv)
		return
	}

	port := os.Getenv("WORTWATCH_PORT")
	if port == "" {
		port = "8080"
	}
	dbPath := os.Getenv("WORTWATCH_DB_PATH")
	if dbPath == "" {
		dbPath = "wortwatch.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		VAPIDPublicKey:  os.Getenv("WORTWATCH_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("WORTWATCH_VAPID_PRIVATE_KEY"),
		PredictionURL:   os.Getenv("WORTWATCH_PREDICTION_URL"),
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("WORTWATCH_S3_ENDPOINT"),
				Bucket:    os.Getenv("WORTWATCH_S3_BUCKET"),
				Region:    os.Getenv("WORTWATCH_S3_REGION"),
				AccessKey: os.Getenv("WORTWATCH_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("WORTWATCH_S3_SECRET_KEY"),
			},
			DBPath:        dbPath,
			Passphrase:    os.Getenv("WORTWATCH_SNAPSHOT_PASSPHRASE"),
			Interval:      envDuration("WORTWATCH_SNAPSHOT_INTERVAL", 24*time.Hour),
			RetentionDays: envInt("WORTWATCH_SNAPSHOT_RETENTION_DAYS", 30),
		},
	}

	srv := server.New(db, cfg, logger)

	if err := srv.RestoreTimers(); err != nil {
		logger.Warn("restore timers", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.TimerManager().Start(ctx)
	srv.BackupManager().Start(ctx)

	// Expired rate-limit entries are swept every few minutes.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("wortwatch listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	cancel()
	srv.TimerManager().Stop()
	srv.BackupManager().Stop()
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
