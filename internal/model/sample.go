package model

// Reading is a single raw entry from the recorded current log.
type Reading struct {
	Timestamp string
	Current   float64
}

// VoltageSample is a Reading converted to a synthetic voltage value.
type VoltageSample struct {
	Timestamp string  `json:"timestamp"`
	Voltage   float64 `json:"voltage"`
	Current   float64 `json:"current"`
}

// ConvertReading derives a VoltageSample from a raw current reading.
// voltage = baseVoltage + current * gain.
func ConvertReading(r Reading, baseVoltage, gain float64) VoltageSample {
	return VoltageSample{
		Timestamp: r.Timestamp,
		Voltage:   baseVoltage + r.Current*gain,
		Current:   r.Current,
	}
}
