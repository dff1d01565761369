package conflict

import (
	"testing"

	"github.com/strray/strray/pkg/models"
)

func TestResolve_ConsensusAgreement(t *testing.T) {
	entries := []Entry{
		{Value: "use option A", Worker: "architect"},
		{Value: "use option A", Worker: "code-reviewer"},
		{Value: "use option A", Worker: "builder"},
	}

	got := Resolve(models.PolicyConsensus, entries)
	if !got.Resolved {
		t.Fatal("Resolved = false, want true for identical values")
	}
	if got.Value != "use option A" {
		t.Errorf("Value = %q, want %q", got.Value, "use option A")
	}
}

func TestResolve_ConsensusDivergenceIsUnresolved(t *testing.T) {
	entries := []Entry{
		{Value: "use option A", Worker: "architect"},
		{Value: "use option B", Worker: "code-reviewer"},
	}

	got := Resolve(models.PolicyConsensus, entries)
	if got.Resolved {
		t.Error("Resolved = true, want false for divergent values")
	}
	if got.Value != "" {
		t.Errorf("Value = %q, want empty for unresolved consensus", got.Value)
	}
	if len(got.Workers) != 2 {
		t.Errorf("Workers = %v, want both contributors", got.Workers)
	}
}

func TestResolve_MajorityVote(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    string
	}{
		{
			"clear majority",
			[]Entry{
				{Value: "A", Worker: "w1"},
				{Value: "B", Worker: "w2"},
				{Value: "A", Worker: "w3"},
			},
			"A",
		},
		{
			"tie goes to first seen",
			[]Entry{
				{Value: "B", Worker: "w1"},
				{Value: "A", Worker: "w2"},
				{Value: "B", Worker: "w3"},
				{Value: "A", Worker: "w4"},
			},
			"B",
		},
		{
			"all distinct picks first",
			[]Entry{
				{Value: "A", Worker: "w1"},
				{Value: "B", Worker: "w2"},
				{Value: "C", Worker: "w3"},
			},
			"A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(models.PolicyMajorityVote, tt.entries)
			if !got.Resolved {
				t.Fatal("Resolved = false, want true")
			}
			if got.Value != tt.want {
				t.Errorf("Value = %q, want %q", got.Value, tt.want)
			}
		})
	}
}

func TestResolve_ExpertPriority(t *testing.T) {
	entries := []Entry{
		{Value: "patch quickly", Worker: "builder"},
		{Value: "rotate the credentials", Worker: "security-guardian", Authoritative: true},
		{Value: "add a test", Worker: "test-strategist"},
	}

	got := Resolve(models.PolicyExpertPriority, entries)
	if !got.Resolved {
		t.Fatal("Resolved = false, want true")
	}
	if got.Value != "rotate the credentials" {
		t.Errorf("Value = %q, want the authoritative worker's value", got.Value)
	}
}

func TestResolve_ExpertPriorityFallsBackToFirst(t *testing.T) {
	entries := []Entry{
		{Value: "first answer", Worker: "w1"},
		{Value: "second answer", Worker: "w2"},
	}

	got := Resolve(models.PolicyExpertPriority, entries)
	if !got.Resolved || got.Value != "first answer" {
		t.Errorf("got (%v, %q), want resolved first entry", got.Resolved, got.Value)
	}
}

func TestResolve_EdgeCases(t *testing.T) {
	if got := Resolve(models.PolicyConsensus, nil); got.Resolved {
		t.Error("empty entry set should be unresolved")
	}

	single := []Entry{{Value: "only", Worker: "w1"}}
	for _, policy := range []models.ConflictPolicy{
		models.PolicyConsensus, models.PolicyMajorityVote, models.PolicyExpertPriority,
	} {
		got := Resolve(policy, single)
		if !got.Resolved || got.Value != "only" {
			t.Errorf("Resolve(%s, single) = (%v, %q), want resolved single value", policy, got.Resolved, got.Value)
		}
	}
}
