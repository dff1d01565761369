package pipeline

import (
	"context"
	"fmt"

	"github.com/strray/strray/pkg/models"
)

// Compile-time verification of the standard hook chain.
var (
	_ PreProcessor  = (*InputValidation)(nil)
	_ PreProcessor  = (*ComplianceCheck)(nil)
	_ PostProcessor = (*StateValidation)(nil)
)

// InputValidation rejects malformed tasks before any state mutation.
type InputValidation struct{}

func (*InputValidation) Name() string { return "input-validation" }

func (*InputValidation) Before(_ context.Context, task *models.TaskDescriptor) error {
	if task == nil {
		return fmt.Errorf("nil task")
	}
	return task.Validate()
}

// ComplianceCheck enforces audit requirements on high-stakes tasks:
// critical-risk work must run inside a named session so its
// interaction trail is recorded somewhere retrievable.
type ComplianceCheck struct{}

func (*ComplianceCheck) Name() string { return "compliance-check" }

func (*ComplianceCheck) Before(_ context.Context, task *models.TaskDescriptor) error {
	if task.Context.Risk == models.RiskCritical && task.Context.SessionID == "" {
		return fmt.Errorf("critical-risk task requires a session id for audit trail")
	}
	return nil
}

// StateValidation checks internal consistency of the delegation result
// after execution and conflict resolution.
type StateValidation struct{}

func (*StateValidation) Name() string { return "state-validation" }

func (*StateValidation) After(_ context.Context, _ *models.TaskDescriptor, result *models.DelegationResult) error {
	if result == nil {
		return fmt.Errorf("nil delegation result")
	}
	if len(result.Record.Workers) == 0 {
		return fmt.Errorf("delegation %s has no assigned workers", result.Record.ID)
	}
	// Consolidated strategies may drop failed results from the list,
	// but never report fewer outcomes than results carried.
	if outcomes := result.Succeeded + result.Failed; outcomes < len(result.Results) {
		return fmt.Errorf("delegation %s: %d recorded outcomes for %d results", result.Record.ID, outcomes, len(result.Results))
	}
	return nil
}
