// Package models defines the shared domain types for the StrRay
// delegation engine. It is intentionally dependency-free so that any
// package can import it without pulling in the engine's stack.
package models

import (
	"fmt"
	"strings"
)

// OperationKind classifies what a task asks a worker to do.
type OperationKind string

const (
	// OpCreate indicates new code or assets are being produced.
	OpCreate OperationKind = "create"
	// OpModify indicates an edit to existing code.
	OpModify OperationKind = "modify"
	// OpRefactor indicates a behavior-preserving restructuring.
	OpRefactor OperationKind = "refactor"
	// OpAnalyze indicates a read-only investigation.
	OpAnalyze OperationKind = "analyze"
	// OpDebug indicates fault diagnosis and repair.
	OpDebug OperationKind = "debug"
	// OpTest indicates test authoring or execution.
	OpTest OperationKind = "test"
)

// Valid returns true if the kind is a known value.
func (k OperationKind) Valid() bool {
	switch k {
	case OpCreate, OpModify, OpRefactor, OpAnalyze, OpDebug, OpTest:
		return true
	default:
		return false
	}
}

// RiskTier grades the blast radius of a task.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// Valid returns true if the tier is a known value.
func (r RiskTier) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// TaskContext carries the measurable attributes of a task that feed the
// complexity scorer. Zero values are legal and contribute nothing.
type TaskContext struct {
	// FileCount is the number of files the task is expected to touch.
	FileCount int `json:"file_count"`
	// LinesChanged is the estimated changed-line volume.
	LinesChanged int `json:"lines_changed"`
	// DependencyCount is the number of dependencies involved.
	DependencyCount int `json:"dependency_count"`
	// Risk is the assessed risk tier. Empty defaults to medium.
	Risk RiskTier `json:"risk,omitempty"`
	// EstimatedMinutes is the expected duration in minutes.
	EstimatedMinutes int `json:"estimated_minutes"`
	// SessionID groups this task with others under one conversation.
	SessionID string `json:"session_id,omitempty"`
	// Priority is an optional caller-supplied priority hint.
	Priority int `json:"priority,omitempty"`
}

// TaskDescriptor describes one unit of work submitted for delegation.
// It is immutable once scored.
type TaskDescriptor struct {
	// Operation is the kind of work requested.
	Operation OperationKind `json:"operation"`
	// Description is the free-text statement of the task.
	Description string `json:"description"`
	// Context holds the scorable attributes of the task.
	Context TaskContext `json:"context"`
}

// Validate checks the required fields of a task descriptor.
// It rejects malformed input before any state is touched.
func (t *TaskDescriptor) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("task description is required")
	}
	if t.Context.FileCount < 0 || t.Context.LinesChanged < 0 ||
		t.Context.DependencyCount < 0 || t.Context.EstimatedMinutes < 0 {
		return fmt.Errorf("task context counts must be non-negative")
	}
	if t.Context.Risk != "" && !t.Context.Risk.Valid() {
		return fmt.Errorf("unknown risk tier: %q", t.Context.Risk)
	}
	return nil
}
