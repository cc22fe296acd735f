package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"VoltSentinel/internal/detector"
	"VoltSentinel/internal/model"
	"VoltSentinel/internal/notifier"
	"VoltSentinel/internal/playback"
	"VoltSentinel/internal/recorder"
)

func newTestRouter(t *testing.T, src playback.Source) http.Handler {
	t.Helper()
	tn := notifier.NewTelegramNotifier("", "", "")
	det, err := detector.New(detector.Config{
		Threshold: 250,
		Cooldown:  300 * time.Second,
		Area:      "Test Area",
	}, tn)
	if err != nil {
		t.Fatalf("init detector: %v", err)
	}
	h := NewHandler(src, det, tn, recorder.NewNoopRecorder(), 100, "Test Area")
	return NewRouter(h)
}

func replaySource(t *testing.T) *playback.ReplaySource {
	t.Helper()
	src, err := playback.NewReplaySource([]model.Reading{
		{Timestamp: "12:00:00", Current: 0.10},
		{Timestamp: "12:00:01", Current: 0.35},
		{Timestamp: "12:00:02", Current: 0.05},
	}, 220, 100)
	if err != nil {
		t.Fatalf("init source: %v", err)
	}
	return src
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var decoded map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("%s %s: decode response: %v (body %q)", method, path, err, rr.Body.String())
	}
	return rr.Code, decoded
}

func TestVoltageData_AdvancesAndWraps(t *testing.T) {
	router := newTestRouter(t, replaySource(t))

	wantTimestamps := []string{"12:00:00", "12:00:01", "12:00:02", "12:00:00"}
	for i, want := range wantTimestamps {
		code, body := doJSON(t, router, http.MethodGet, "/api/voltage-data", "")
		if code != http.StatusOK {
			t.Fatalf("tick %d: status %d", i, code)
		}
		if body["timestamp"] != want {
			t.Errorf("tick %d: timestamp = %v, want %s", i, body["timestamp"], want)
		}
	}
}

func TestDatasetBootstrap_ClampsToFullDataset(t *testing.T) {
	router := newTestRouter(t, replaySource(t))

	code, body := doJSON(t, router, http.MethodGet, "/api/csv-data", "")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	if len(data) != 3 {
		t.Errorf("window 100 over 3 readings should return 3 samples, got %d", len(data))
	}
}

func TestStatus_RealData(t *testing.T) {
	router := newTestRouter(t, replaySource(t))

	code, body := doJSON(t, router, http.MethodGet, "/api/status", "")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if body["data_source"] != "CSV" || body["fallback"] != false {
		t.Errorf("expected real-data status, got %v", body)
	}
	if body["telegram_configured"] != false || body["notification_channel_ready"] != false {
		t.Errorf("unconfigured telegram should show degraded channel, got %v", body)
	}
	if body["alert_active"] != false {
		t.Errorf("fresh detector should not be alerting, got %v", body)
	}
}

func TestStatus_SyntheticFallback(t *testing.T) {
	router := newTestRouter(t, playback.NewSyntheticSource(220, 10))

	_, body := doJSON(t, router, http.MethodGet, "/api/status", "")
	if body["data_source"] != "Simulated" || body["fallback"] != true {
		t.Errorf("expected fallback status, got %v", body)
	}
}

func TestVoltageData_SpikeActivatesAlert(t *testing.T) {
	src, err := playback.NewReplaySource([]model.Reading{
		{Timestamp: "12:00:00", Current: 0.60}, // 280V, above threshold
	}, 220, 100)
	if err != nil {
		t.Fatalf("init source: %v", err)
	}
	router := newTestRouter(t, src)

	doJSON(t, router, http.MethodGet, "/api/voltage-data", "")
	_, body := doJSON(t, router, http.MethodGet, "/api/status", "")
	if body["alert_active"] != true {
		t.Errorf("spike sample should leave the detector alerting, got %v", body)
	}
}

func TestTriggerAlert(t *testing.T) {
	router := newTestRouter(t, replaySource(t))

	code, body := doJSON(t, router, http.MethodPost, "/api/telegram-alert",
		`{"voltage": 295.5, "area": "Istanbul, Kadıköy", "severity": "HIGH"}`)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if body["success"] != true {
		t.Errorf("expected success, got %v", body)
	}
}

func TestTriggerAlert_BadBody(t *testing.T) {
	router := newTestRouter(t, replaySource(t))

	code, body := doJSON(t, router, http.MethodPost, "/api/telegram-alert", "{not json")
	if code != http.StatusBadRequest {
		t.Fatalf("status %d", code)
	}
	if body["success"] != false {
		t.Errorf("expected failure, got %v", body)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, replaySource(t))

	code, body := doJSON(t, router, http.MethodGet, "/healthz", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("unexpected health response: %d %v", code, body)
	}
}
