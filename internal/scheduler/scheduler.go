package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"VoltSentinel/internal/detector"
	"VoltSentinel/internal/notifier"

	"github.com/robfig/cron/v3"
)

// StatusFunc produces the current service state for status reports.
type StatusFunc func() notifier.StatusInfo

// Scheduler manages the periodic status report and channel health check.
type Scheduler struct {
	Cron     *cron.Cron
	Notifier *notifier.TelegramNotifier
	Detector *detector.Detector
	Status   StatusFunc
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, tn *notifier.TelegramNotifier, det *detector.Detector, status StatusFunc) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Notifier: tn,
		Detector: det,
		Status:   status,
		Ctx:      ctx,
	}
}

// RegisterAll registers the status report and health check tasks.
func (s *Scheduler) RegisterAll(statusCron, healthCron string) error {
	if _, err := s.Cron.AddFunc(statusCron, s.statusTask); err != nil {
		return fmt.Errorf("register status task: %w", err)
	}
	if _, err := s.Cron.AddFunc(healthCron, s.healthTask); err != nil {
		return fmt.Errorf("register health task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// HandleCommand answers Telegram bot commands.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatusReport(s.Status())
	case "/test":
		if err := s.Detector.TriggerTest(305, "", ""); err != nil {
			return fmt.Sprintf("test alert failed: %v", err)
		}
		return "test alert dispatched"
	case "/start", "/help":
		return "VoltSentinel commands:\n/status - current system status\n/test - dispatch a test alert"
	default:
		return ""
	}
}

func (s *Scheduler) statusTask() {
	log.Println("[INFO] sending scheduled status report")
	report := notifier.FormatStatusReport(s.Status())
	if err := s.Notifier.SendWithRetry(s.Ctx, report, 3); err != nil {
		if errors.Is(err, notifier.ErrNotConfigured) {
			log.Println("[INFO] status report skipped, telegram not configured")
			return
		}
		log.Printf("[ERROR] send status report: %v", err)
	}
}

func (s *Scheduler) healthTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, 10*time.Second)
	defer cancel()
	if err := s.Notifier.CheckConnection(ctx); err != nil {
		if errors.Is(err, notifier.ErrNotConfigured) {
			return
		}
		log.Printf("[WARN] notification channel health check failed: %v", err)
	}
}
