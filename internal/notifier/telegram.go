package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"VoltSentinel/internal/metrics"
	"VoltSentinel/internal/model"
)

// ErrNotConfigured is returned when no bot token or chat ID is set and the
// notifier is running in demo mode.
var ErrNotConfigured = errors.New("telegram notifier not configured")

// TelegramNotifier sends spike alerts via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Client   *http.Client

	mu    sync.Mutex
	ready bool
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

// Configured reports whether both bot token and chat ID are set.
func (t *TelegramNotifier) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Ready reports whether the channel is configured and the last API call
// succeeded.
func (t *TelegramNotifier) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Configured() && t.ready
}

func (t *TelegramNotifier) setReady(ok bool) {
	t.mu.Lock()
	t.ready = ok
	t.mu.Unlock()
}

// Dispatch formats and delivers a spike alert. In demo mode the alert is
// logged to the console instead of delivered, without error.
func (t *TelegramNotifier) Dispatch(alert model.Alert) error {
	if !t.Configured() {
		log.Printf("[INFO] VOLTAGE SPIKE ALERT (telegram not configured): %.1fV %s in %s at %s",
			alert.Voltage, alert.Severity, alert.Area, alert.Timestamp)
		return nil
	}
	if err := t.Send(FormatSpikeAlert(alert)); err != nil {
		metrics.NotificationsFailed.Inc()
		return err
	}
	metrics.NotificationsSent.Inc()
	return nil
}

// Send sends an HTML-formatted message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	if !t.Configured() {
		return ErrNotConfigured
	}
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		t.setReady(false)
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		t.setReady(false)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	t.setReady(true)
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(text); err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return err
			}
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// CheckConnection probes the bot API with getMe and updates readiness.
func (t *TelegramNotifier) CheckConnection(ctx context.Context) error {
	if !t.Configured() {
		return ErrNotConfigured
	}
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/getMe", t.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create getMe request: %w", err)
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		t.setReady(false)
		return fmt.Errorf("getMe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.setReady(false)
		return fmt.Errorf("getMe: status %d", resp.StatusCode)
	}

	var result struct {
		OK     bool `json:"ok"`
		Result struct {
			Username string `json:"username"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || !result.OK {
		t.setReady(false)
		return errors.New("getMe: invalid response")
	}
	t.setReady(true)
	log.Printf("[INFO] telegram bot connection ok: @%s", result.Result.Username)
	return nil
}
