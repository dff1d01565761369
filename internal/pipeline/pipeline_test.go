package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/strray/strray/pkg/models"
)

func validTask() *models.TaskDescriptor {
	return &models.TaskDescriptor{
		Operation:   models.OpModify,
		Description: "update retry policy",
		Context:     models.TaskContext{FileCount: 2, Risk: models.RiskLow},
	}
}

func TestRunPre_PassesValidTask(t *testing.T) {
	p := Default(nil)
	if err := p.RunPre(context.Background(), validTask()); err != nil {
		t.Errorf("RunPre() error = %v, want nil", err)
	}
}

func TestRunPre_RejectsInvalidInput(t *testing.T) {
	p := Default(nil)

	task := validTask()
	task.Description = ""
	if err := p.RunPre(context.Background(), task); err == nil {
		t.Error("RunPre() with empty description returned nil error")
	}
}

func TestRunPre_ComplianceRequiresSessionForCriticalRisk(t *testing.T) {
	p := Default(nil)

	task := validTask()
	task.Context.Risk = models.RiskCritical
	if err := p.RunPre(context.Background(), task); err == nil {
		t.Error("RunPre() allowed critical-risk task without session id")
	}

	task.Context.SessionID = "audit-1"
	if err := p.RunPre(context.Background(), task); err != nil {
		t.Errorf("RunPre() with session id error = %v, want nil", err)
	}
}

type failingPre struct{ name string }

func (f *failingPre) Name() string { return f.name }
func (f *failingPre) Before(context.Context, *models.TaskDescriptor) error {
	return fmt.Errorf("boom")
}

type countingPre struct{ calls int }

func (c *countingPre) Name() string { return "counting" }
func (c *countingPre) Before(context.Context, *models.TaskDescriptor) error {
	c.calls++
	return nil
}

func TestRunPre_StopsAtFirstFailure(t *testing.T) {
	after := &countingPre{}
	p := New(Config{Pre: []PreProcessor{&failingPre{name: "first"}, after}})

	if err := p.RunPre(context.Background(), validTask()); err == nil {
		t.Fatal("RunPre() error = nil, want failure")
	}
	if after.calls != 0 {
		t.Errorf("processor after failure ran %d times, want 0", after.calls)
	}
}

func TestRunPost_ValidatesResultState(t *testing.T) {
	p := Default(nil)

	good := &models.DelegationResult{
		Record:    models.DelegationRecord{ID: "d1", Workers: []string{"architect"}},
		Results:   []models.WorkerResult{{Worker: "architect", Success: true}},
		Succeeded: 1,
	}
	if err := p.RunPost(context.Background(), validTask(), good); err != nil {
		t.Errorf("RunPost() error = %v, want nil", err)
	}

	bad := &models.DelegationResult{
		Record:  models.DelegationRecord{ID: "d2", Workers: []string{"architect"}},
		Results: []models.WorkerResult{{Worker: "architect"}},
	}
	if err := p.RunPost(context.Background(), validTask(), bad); err == nil {
		t.Error("RunPost() accepted result with more results than outcomes")
	}
}

type countingPost struct{ calls int }

func (c *countingPost) Name() string { return "counting-post" }
func (c *countingPost) After(context.Context, *models.TaskDescriptor, *models.DelegationResult) error {
	c.calls++
	return nil
}

func TestRunPost_AllHooksRunDespiteFailure(t *testing.T) {
	after := &countingPost{}
	p := New(Config{Post: []PostProcessor{&StateValidation{}, after}})

	if err := p.RunPost(context.Background(), validTask(), nil); err == nil {
		t.Fatal("RunPost() error = nil, want state validation failure")
	}
	if after.calls != 1 {
		t.Errorf("later post-processor ran %d times, want 1", after.calls)
	}
}
