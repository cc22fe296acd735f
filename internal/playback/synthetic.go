package playback

import (
	"math/rand"
	"sync"
	"time"

	"VoltSentinel/internal/model"
)

// Synthetic generation bounds, matching the nominal grid profile the real
// dataset records around.
const (
	syntheticMaxCurrent = 0.5
	syntheticTimeLayout = "15:04:05"
)

// SyntheticSource generates voltage samples around a fixed mean with bounded
// random jitter. It stands in for the recorded dataset when loading fails, so
// the rest of the pipeline stays exercised.
type SyntheticSource struct {
	mu     sync.Mutex
	rng    *rand.Rand
	base   float64
	jitter float64
	now    func() time.Time
}

// NewSyntheticSource creates a generator producing base ± jitter volts.
func NewSyntheticSource(baseVoltage, jitter float64) *SyntheticSource {
	return &SyntheticSource{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		base:   baseVoltage,
		jitter: jitter,
		now:    time.Now,
	}
}

func (s *SyntheticSource) Next() model.VoltageSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate(s.now())
}

func (s *SyntheticSource) Snapshot(lastK int) []model.VoltageSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lastK <= 0 {
		lastK = 1
	}
	out := make([]model.VoltageSample, 0, lastK)
	// Backdate one second per sample so the bootstrap window charts as a
	// continuous run up to now.
	start := s.now().Add(-time.Duration(lastK-1) * time.Second)
	for i := 0; i < lastK; i++ {
		out = append(out, s.generate(start.Add(time.Duration(i)*time.Second)))
	}
	return out
}

func (s *SyntheticSource) generate(at time.Time) model.VoltageSample {
	return model.VoltageSample{
		Timestamp: at.Format(syntheticTimeLayout),
		Voltage:   s.base + (s.rng.Float64()*2-1)*s.jitter,
		Current:   s.rng.Float64() * syntheticMaxCurrent,
	}
}

func (s *SyntheticSource) Len() int { return 0 }

func (s *SyntheticSource) Synthetic() bool { return true }
