package notifier

import (
	"fmt"
	"log"
	"sync"

	"VoltSentinel/internal/model"
)

// Sender delivers a single alert. TelegramNotifier implements it.
type Sender interface {
	Dispatch(alert model.Alert) error
}

// AsyncDispatcher decouples alert delivery from the evaluation path: Dispatch
// enqueues and returns immediately so a slow or failing channel never stalls
// the tick pipeline. A single worker drains the queue in order.
type AsyncDispatcher struct {
	sender Sender
	queue  chan model.Alert
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewAsyncDispatcher wraps sender with a bounded dispatch queue.
func NewAsyncDispatcher(sender Sender, queueSize int) *AsyncDispatcher {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &AsyncDispatcher{
		sender: sender,
		queue:  make(chan model.Alert, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (d *AsyncDispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop shuts the worker down. Queued alerts not yet picked up are dropped.
func (d *AsyncDispatcher) Stop() {
	d.once.Do(func() { close(d.done) })
	d.wg.Wait()
}

// Dispatch enqueues an alert for delivery. A full queue rejects the alert
// rather than blocking the caller.
func (d *AsyncDispatcher) Dispatch(alert model.Alert) error {
	select {
	case d.queue <- alert:
		return nil
	default:
		return fmt.Errorf("dispatch queue full, alert dropped (%.1fV %s)", alert.Voltage, alert.Severity)
	}
}

func (d *AsyncDispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		case alert := <-d.queue:
			if err := d.sender.Dispatch(alert); err != nil {
				log.Printf("[ERROR] deliver alert: %v", err)
			}
		}
	}
}
