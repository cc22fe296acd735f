package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VoltSentinel/internal/api"
	"VoltSentinel/internal/config"
	"VoltSentinel/internal/detector"
	"VoltSentinel/internal/notifier"
	"VoltSentinel/internal/playback"
	"VoltSentinel/internal/recorder"
	"VoltSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] VoltSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init playback source, falling back to synthetic data when the
	// recorded dataset cannot be loaded.
	var source playback.Source
	readings, err := playback.Load(cfg.Dataset.CSVPath)
	if err != nil {
		log.Printf("[WARN] load dataset failed, using synthetic fallback: %v", err)
		source = playback.NewSyntheticSource(cfg.Monitor.BaseVoltage, cfg.Monitor.JitterVolts)
	} else {
		replay, err := playback.NewReplaySource(readings, cfg.Monitor.BaseVoltage, cfg.Monitor.Gain)
		if err != nil {
			log.Fatalf("[FATAL] init playback source: %v", err)
		}
		source = replay
		log.Printf("[INFO] loaded %d readings from %s", len(readings), cfg.Dataset.CSVPath)
	}

	// Init Telegram notifier and async dispatch queue
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if !tn.Configured() {
		log.Println("[WARN] telegram not configured, alerts will only be logged")
	}
	dispatcher := notifier.NewAsyncDispatcher(tn, 16)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init spike detector
	det, err := detector.New(detector.Config{
		Threshold: cfg.Monitor.Threshold,
		Cooldown:  time.Duration(cfg.Monitor.CooldownSeconds) * time.Second,
		Area:      cfg.Monitor.Area,
	}, dispatcher)
	if err != nil {
		log.Fatalf("[FATAL] init detector: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// API handler and router
	handler := api.NewHandler(source, det, tn, rec, cfg.Dataset.BootstrapWindow, cfg.Monitor.Area)
	router := api.NewRouter(handler)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, tn, det, handler.StatusInfo)
	if err := sched.RegisterAll(cfg.Schedule.StatusCron, cfg.Schedule.HealthCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Probe the notification channel once at startup
	if tn.Configured() {
		probeCtx, probeCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := tn.CheckConnection(probeCtx); err != nil {
			log.Printf("[WARN] telegram connection check failed: %v", err)
		}
		probeCancel()
	}

	// Start Telegram command polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// Start HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] HTTP server: %v", err)
		}
	}()

	log.Println("[INFO] VoltSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] HTTP server shutdown: %v", err)
	}
	log.Println("[INFO] VoltSentinel stopped")
}
