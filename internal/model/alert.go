package model

// Severity classifies how far a voltage sample is above nominal levels.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Severity bands in volts. Classification is independent of the alert
// trigger threshold: a sample can trip an alert and still classify LOW.
const (
	SeverityCriticalVolts = 300.0
	SeverityHighVolts     = 280.0
	SeverityMediumVolts   = 260.0
)

// SeverityFor maps a voltage value to its severity band.
func SeverityFor(voltage float64) Severity {
	switch {
	case voltage >= SeverityCriticalVolts:
		return SeverityCritical
	case voltage >= SeverityHighVolts:
		return SeverityHigh
	case voltage >= SeverityMediumVolts:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Alert is the outbound notification payload for a detected spike.
type Alert struct {
	Voltage   float64  `json:"voltage"`
	Area      string   `json:"area"`
	Severity  Severity `json:"severity"`
	Timestamp string   `json:"timestamp"`
}
