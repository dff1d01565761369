// Package events carries structured observability tuples out of the
// delegation engine. Every processor and delegation state transition
// emits one event; how events are stored is the subscriber's concern.
package events

import (
	"log"
	"sync/atomic"
	"time"
)

// Status classifies the outcome of a reported step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Event is one structured (component, action, status, details) tuple.
type Event struct {
	// Component names the emitting subsystem (delegator, pipeline, ...).
	Component string
	// Action names the step that ran.
	Action string
	// Status is the step outcome.
	Status Status
	// Details carries step-specific key/value context.
	Details map[string]string
	// At is when the event was emitted.
	At time.Time
}

// Emitter fans events out to a single subscriber over a buffered
// channel. Emission never blocks the engine: when the subscriber falls
// behind, events are dropped and counted.
type Emitter struct {
	events       chan Event
	droppedCount atomic.Uint64
}

// NewEmitter creates an Emitter with the given buffer size.
func NewEmitter(bufferSize int) *Emitter {
	return &Emitter{
		events: make(chan Event, bufferSize),
	}
}

// Emit sends an event, stamping the current time. If the channel is
// full it retries briefly before dropping the event.
func (e *Emitter) Emit(component, action string, status Status, details map[string]string) {
	if e == nil {
		return
	}

	ev := Event{
		Component: component,
		Action:    action,
		Status:    status,
		Details:   details,
		At:        time.Now(),
	}

	select {
	case e.events <- ev:
		return
	default:
	}

	// Give the subscriber a moment to drain before dropping.
	select {
	case e.events <- ev:
	case <-time.After(100 * time.Millisecond):
		count := e.droppedCount.Add(1)
		if count%10 == 1 { // Log every 10th drop to avoid spam
			log.Printf("[events] WARNING: event channel full, dropped event (total dropped: %d): %s/%s", count, component, action)
		}
	}
}

// DroppedCount returns the total number of dropped events.
func (e *Emitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Events returns the read-only subscriber channel.
func (e *Emitter) Events() <-chan Event {
	return e.events
}

// Close closes the event channel. Call only after all emitters have
// stopped.
func (e *Emitter) Close() {
	close(e.events)
}
