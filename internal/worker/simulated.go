package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/strray/strray/pkg/models"
)

// Simulated is the documented degraded mode for workers without an
// executable backend. It produces a deterministic acknowledgment of
// the task instead of crashing the delegation.
type Simulated struct {
	name string
}

// NewSimulated creates a simulated worker with the given name.
func NewSimulated(name string) *Simulated {
	return &Simulated{name: name}
}

// Name returns the worker's catalog name.
func (s *Simulated) Name() string {
	return s.name
}

// Execute acknowledges the task without doing real work.
func (s *Simulated) Execute(ctx context.Context, task *models.TaskDescriptor) (*models.WorkerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	return &models.WorkerResult{
		Worker:    s.name,
		SessionID: task.Context.SessionID,
		Success:   true,
		Output:    fmt.Sprintf("[%s] simulated %s: %s", s.name, task.Operation, task.Description),
		Duration:  time.Since(start),
		Timestamp: time.Now(),
		Metadata:  map[string]string{"mode": "simulated"},
	}, nil
}
