package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"VoltSentinel/internal/detector"
	"VoltSentinel/internal/metrics"
	"VoltSentinel/internal/model"
	"VoltSentinel/internal/notifier"
	"VoltSentinel/internal/playback"
	"VoltSentinel/internal/recorder"
)

// Handler serves the polling API over the wired monitoring pipeline.
type Handler struct {
	source   playback.Source
	detector *detector.Detector
	notifier *notifier.TelegramNotifier
	recorder recorder.Recorder
	window   int
	area     string
	started  time.Time

	mu          sync.Mutex
	lastVoltage float64
}

// NewHandler wires the pipeline components into an API handler. window is the
// chart bootstrap size served by the dataset endpoint.
func NewHandler(src playback.Source, det *detector.Detector, tn *notifier.TelegramNotifier, rec recorder.Recorder, window int, area string) *Handler {
	return &Handler{
		source:   src,
		detector: det,
		notifier: tn,
		recorder: rec,
		window:   window,
		area:     area,
		started:  time.Now(),
	}
}

// VoltageData serves one playback tick: the next sample, with the detector
// run on it as a side effect.
func (h *Handler) VoltageData(w http.ResponseWriter, r *http.Request) {
	sample := h.source.Next()
	metrics.TicksTotal.Inc()
	metrics.CurrentVoltage.Set(sample.Voltage)

	ev := h.detector.Evaluate(sample)
	if ev.Transitioned && ev.Active {
		if err := h.recorder.RecordAlert(&recorder.AlertEvent{
			Timestamp: sample.Timestamp,
			Voltage:   sample.Voltage,
			Area:      h.area,
			Severity:  ev.Severity,
			Notified:  ev.Notified,
		}); err != nil {
			log.Printf("[ERROR] record alert event: %v", err)
		}
	}

	h.mu.Lock()
	h.lastVoltage = sample.Voltage
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp": sample.Timestamp,
		"voltage":   sample.Voltage,
		"current":   sample.Current,
		"success":   true,
	})
}

// DatasetBootstrap serves the chart initialization window without moving the
// playback cursor.
func (h *Handler) DatasetBootstrap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data":    h.source.Snapshot(h.window),
		"success": true,
	})
}

// Status reports the service state: data source mode, notification channel
// readiness and whether an alert is currently active.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	dataSource := "CSV"
	if h.source.Synthetic() {
		dataSource = "Simulated"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                     "online",
		"telegram_configured":        h.notifier.Configured(),
		"notification_channel_ready": h.notifier.Ready(),
		"data_source":                dataSource,
		"fallback":                   h.source.Synthetic(),
		"alert_active":               h.detector.Status().Active,
	})
}

// TriggerAlert forces one diagnostic notification, bypassing the cooldown.
func (h *Handler) TriggerAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Voltage  float64 `json:"voltage"`
		Area     string  `json:"area"`
		Severity string  `json:"severity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	if err := h.detector.TriggerTest(req.Voltage, req.Area, model.Severity(req.Severity)); err != nil {
		log.Printf("[ERROR] trigger test alert: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Error sending alert",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Alert sent successfully",
	})
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// StatusInfo builds the state snapshot rendered into Telegram status reports.
func (h *Handler) StatusInfo() notifier.StatusInfo {
	h.mu.Lock()
	lastVoltage := h.lastVoltage
	h.mu.Unlock()

	dataSource := "CSV"
	if h.source.Synthetic() {
		dataSource = "Simulated"
	}
	return notifier.StatusInfo{
		DataSource:   dataSource,
		Fallback:     h.source.Synthetic(),
		Configured:   h.notifier.Configured(),
		ChannelReady: h.notifier.Ready(),
		AlertActive:  h.detector.Status().Active,
		LastVoltage:  lastVoltage,
		Uptime:       time.Since(h.started),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
