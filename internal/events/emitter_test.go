package events

import (
	"testing"
)

func TestEmitter_DeliversEvents(t *testing.T) {
	e := NewEmitter(4)

	e.Emit("delegator", "delegate", StatusOK, map[string]string{"strategy": "single-agent"})
	e.Emit("pipeline", "input_validation", StatusFailed, nil)

	first := <-e.Events()
	if first.Component != "delegator" || first.Action != "delegate" || first.Status != StatusOK {
		t.Errorf("first event = %+v, want delegator/delegate/ok", first)
	}
	if first.At.IsZero() {
		t.Error("event timestamp not stamped")
	}
	if first.Details["strategy"] != "single-agent" {
		t.Errorf("Details = %v, want strategy detail", first.Details)
	}

	second := <-e.Events()
	if second.Component != "pipeline" || second.Status != StatusFailed {
		t.Errorf("second event = %+v, want pipeline failure", second)
	}
}

func TestEmitter_DropsWhenFull(t *testing.T) {
	e := NewEmitter(1)

	e.Emit("delegator", "a", StatusOK, nil)
	// No subscriber draining: this one must be dropped, not block.
	e.Emit("delegator", "b", StatusOK, nil)

	if got := e.DroppedCount(); got != 1 {
		t.Errorf("DroppedCount() = %d, want 1", got)
	}
}

func TestEmitter_NilSafe(t *testing.T) {
	var e *Emitter
	// Must not panic.
	e.Emit("delegator", "noop", StatusOK, nil)
}
