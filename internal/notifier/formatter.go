package notifier

import (
	"fmt"
	"strings"
	"time"

	"VoltSentinel/internal/model"
)

var severityEmoji = map[model.Severity]string{
	model.SeverityLow:      "⚠️",
	model.SeverityMedium:   "⚡",
	model.SeverityHigh:     "🚨",
	model.SeverityCritical: "💥",
}

// FormatSpikeAlert formats a voltage spike alert into a Telegram HTML message.
func FormatSpikeAlert(alert model.Alert) string {
	emoji, ok := severityEmoji[alert.Severity]
	if !ok {
		emoji = severityEmoji[model.SeverityHigh]
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>VOLTAGE SPIKE ALERT</b> %s\n\n", emoji, emoji))
	b.WriteString(fmt.Sprintf("Severity: <b>%s</b>\n", alert.Severity))
	b.WriteString(fmt.Sprintf("Voltage: <b>%.1fV</b>\n", alert.Voltage))
	b.WriteString(fmt.Sprintf("Area: %s\n", alert.Area))
	b.WriteString(fmt.Sprintf("Time: %s\n\n", alert.Timestamp))
	b.WriteString("<b>Immediate action required:</b>\n")
	b.WriteString("• Turn off sensitive electronics\n")
	b.WriteString("• Unplug expensive equipment\n")
	b.WriteString("• Check circuit breakers\n")
	b.WriteString("• Monitor for additional spikes\n\n")
	b.WriteString("<i>Automated alert from your voltage monitoring system</i>")
	return b.String()
}

// StatusInfo holds the service state rendered into status reports.
type StatusInfo struct {
	DataSource   string
	Fallback     bool
	Configured   bool
	ChannelReady bool
	AlertActive  bool
	LastVoltage  float64
	Uptime       time.Duration
}

// FormatStatusReport formats a periodic system status update.
func FormatStatusReport(info StatusInfo) string {
	statusEmoji := "🟢"
	if info.Fallback || !info.ChannelReady {
		statusEmoji = "🟡"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>SYSTEM STATUS</b> | %s\n\n", statusEmoji, time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Data source: %s\n", info.DataSource))
	if info.Fallback {
		b.WriteString("⚠️ Running on synthetic fallback data\n")
	}
	if info.AlertActive {
		b.WriteString("🚨 Alert currently active\n")
	}
	if info.LastVoltage > 0 {
		b.WriteString(fmt.Sprintf("Last voltage: %.1fV\n", info.LastVoltage))
	}
	b.WriteString(fmt.Sprintf("Notification channel ready: %v\n", info.ChannelReady))
	b.WriteString(fmt.Sprintf("Uptime: %s\n", info.Uptime.Round(time.Second)))
	return b.String()
}
