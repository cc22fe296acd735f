package recorder

import "VoltSentinel/internal/model"

// AlertEvent is one row of the alert audit log: an excursion the detector
// flagged, with whether a notification actually went out.
type AlertEvent struct {
	Timestamp string
	Voltage   float64
	Area      string
	Severity  model.Severity
	Notified  bool
}

// Recorder persists alert events for later inspection.
type Recorder interface {
	RecordAlert(evt *AlertEvent) error
	Close() error
}
