package detector

import (
	"fmt"
	"log"
	"sync"
	"time"

	"VoltSentinel/internal/metrics"
	"VoltSentinel/internal/model"
)

// Dispatcher delivers spike alerts to an outbound notification channel.
// Implementations must be best-effort: delivery failure is reported via the
// returned error and never retried here.
type Dispatcher interface {
	Dispatch(alert model.Alert) error
}

// Config holds the detector's comparison constants.
type Config struct {
	// Threshold is the voltage above which an excursion begins.
	Threshold float64
	// Cooldown is the minimum gap between two dispatched notifications.
	Cooldown time.Duration
	// Area labels outgoing alerts with the monitored location.
	Area string
}

// Validate rejects constants that would leave the state machine with
// undefined comparison semantics.
func (c Config) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("detector threshold must be positive, got %.1f", c.Threshold)
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("detector cooldown must be positive, got %v", c.Cooldown)
	}
	return nil
}

// Evaluation is the outcome of feeding one sample through the detector.
type Evaluation struct {
	// Transitioned is true when the sample moved the detector between
	// NORMAL and ALERTING in either direction.
	Transitioned bool
	// Notified is true when this sample caused an alert dispatch. Cooldown
	// suppression can leave a transition un-notified.
	Notified bool
	// Severity classifies the sample independently of the trigger threshold.
	Severity model.Severity
	// Active reports the alert state after this sample.
	Active bool
}

// Status is a point-in-time view of the detector for status reporting.
type Status struct {
	Active         bool
	LastNotifiedAt time.Time
}

// Detector classifies voltage samples against a threshold with edge-triggered
// alerting. Exactly one notification fires per continuous excursion above the
// threshold, and no two notifications are ever closer than the cooldown.
type Detector struct {
	mu         sync.Mutex
	threshold  float64
	cooldown   time.Duration
	area       string
	dispatcher Dispatcher
	now        func() time.Time

	active         bool
	lastNotifiedAt time.Time
}

// New creates a Detector in the NORMAL state. Config is validated up front.
func New(cfg Config, dispatcher Dispatcher) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		threshold:  cfg.Threshold,
		cooldown:   cfg.Cooldown,
		area:       cfg.Area,
		dispatcher: dispatcher,
		now:        time.Now,
	}, nil
}

// Evaluate feeds one sample through the state machine, dispatching an alert
// on an un-suppressed NORMAL→ALERTING transition. Dispatch failure never
// alters detector state or the returned Evaluation.
func (d *Detector) Evaluate(sample model.VoltageSample) Evaluation {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev := Evaluation{Severity: model.SeverityFor(sample.Voltage)}
	breach := sample.Voltage > d.threshold

	switch {
	case breach && !d.active:
		d.active = true
		ev.Transitioned = true
		metrics.AlertsTriggered.Inc()

		now := d.now()
		if d.lastNotifiedAt.IsZero() || now.Sub(d.lastNotifiedAt) >= d.cooldown {
			d.lastNotifiedAt = now
			ev.Notified = true
			d.dispatch(model.Alert{
				Voltage:   sample.Voltage,
				Area:      d.area,
				Severity:  ev.Severity,
				Timestamp: sample.Timestamp,
			})
		} else {
			log.Printf("[INFO] alert cooldown active, notification suppressed (%.1fV, %s)",
				sample.Voltage, ev.Severity)
		}

	case !breach && d.active:
		// Excursion over. No notification on the way down.
		d.active = false
		ev.Transitioned = true
	}

	ev.Active = d.active
	metrics.SetAlertActive(d.active)
	return ev
}

// TriggerTest forces one alert dispatch for diagnostics, bypassing both the
// cooldown and the state machine. The cooldown clock is still advanced so a
// test alert does not immediately double up with a real one.
func (d *Detector) TriggerTest(voltage float64, area string, severity model.Severity) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if area == "" {
		area = d.area
	}
	if severity == "" {
		severity = model.SeverityFor(voltage)
	}
	d.lastNotifiedAt = d.now()
	return d.dispatcher.Dispatch(model.Alert{
		Voltage:   voltage,
		Area:      area,
		Severity:  severity,
		Timestamp: d.now().Format("2006-01-02 15:04:05"),
	})
}

// Status returns the current alert state. Safe for concurrent use.
func (d *Detector) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{Active: d.active, LastNotifiedAt: d.lastNotifiedAt}
}

func (d *Detector) dispatch(alert model.Alert) {
	if err := d.dispatcher.Dispatch(alert); err != nil {
		log.Printf("[WARN] alert dispatch failed: %v", err)
	}
}
