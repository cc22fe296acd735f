package playback

import (
	"sync"

	"VoltSentinel/internal/model"
)

// Source produces a stream of VoltageSamples for the monitoring pipeline.
type Source interface {
	// Next returns the sample at the current playback position and advances
	// the cursor. Safe for concurrent callers; calls serialize to preserve a
	// single gap-free playback order.
	Next() model.VoltageSample
	// Snapshot returns up to lastK samples for chart bootstrap without
	// moving the cursor. lastK beyond the dataset length clamps silently.
	Snapshot(lastK int) []model.VoltageSample
	// Len reports the number of backing readings, 0 for generated data.
	Len() int
	// Synthetic reports whether samples are generated rather than replayed.
	Synthetic() bool
}

// ReplaySource cycles through an immutable recorded dataset, converting each
// current reading to a voltage value on the way out.
type ReplaySource struct {
	mu       sync.Mutex
	readings []model.Reading
	cursor   int
	base     float64
	gain     float64
}

// NewReplaySource creates a ReplaySource over the given readings.
// An empty dataset is rejected up front so cycling is always well defined.
func NewReplaySource(readings []model.Reading, baseVoltage, gain float64) (*ReplaySource, error) {
	if len(readings) == 0 {
		return nil, ErrEmptyDataset
	}
	return &ReplaySource{
		readings: readings,
		base:     baseVoltage,
		gain:     gain,
	}, nil
}

func (s *ReplaySource) Next() model.VoltageSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := model.ConvertReading(s.readings[s.cursor], s.base, s.gain)
	s.cursor = (s.cursor + 1) % len(s.readings)
	return sample
}

func (s *ReplaySource) Snapshot(lastK int) []model.VoltageSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.readings)
	if lastK <= 0 || lastK > n {
		lastK = n
	}
	out := make([]model.VoltageSample, 0, lastK)
	for _, r := range s.readings[n-lastK:] {
		out = append(out, model.ConvertReading(r, s.base, s.gain))
	}
	return out
}

func (s *ReplaySource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readings)
}

// Position returns the current cursor index.
func (s *ReplaySource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *ReplaySource) Synthetic() bool { return false }
