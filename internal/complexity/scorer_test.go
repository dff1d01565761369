package complexity

import (
	"strings"
	"testing"

	"github.com/strray/strray/pkg/models"
)

func TestScore_ZeroTask(t *testing.T) {
	got := Score(models.OpCreate, models.TaskContext{Risk: models.RiskLow})

	if got.Score != 0 {
		t.Errorf("Score = %v, want 0", got.Score)
	}
	if got.Level != models.LevelSimple {
		t.Errorf("Level = %v, want %v", got.Level, models.LevelSimple)
	}
	if got.Strategy != models.StrategySingle {
		t.Errorf("Strategy = %v, want %v", got.Strategy, models.StrategySingle)
	}
	if got.EstimatedWorkers != 1 {
		t.Errorf("EstimatedWorkers = %d, want 1", got.EstimatedWorkers)
	}
}

func TestScore_ClampsToHundred(t *testing.T) {
	got := Score(models.OpDebug, models.TaskContext{
		FileCount:        50,
		LinesChanged:     5000,
		DependencyCount:  25,
		Risk:             models.RiskCritical,
		EstimatedMinutes: 480,
	})

	if got.Score != 100 {
		t.Errorf("Score = %v, want 100", got.Score)
	}
	if got.Level != models.LevelEnterprise {
		t.Errorf("Level = %v, want %v", got.Level, models.LevelEnterprise)
	}
	if got.Strategy != models.StrategyOrchestrator {
		t.Errorf("Strategy = %v, want %v", got.Strategy, models.StrategyOrchestrator)
	}
	if got.EstimatedWorkers < 3 {
		t.Errorf("EstimatedWorkers = %d, want >= 3", got.EstimatedWorkers)
	}
}

func TestScore_InRange(t *testing.T) {
	contexts := []models.TaskContext{
		{},
		{FileCount: 3, LinesChanged: 120, Risk: models.RiskMedium},
		{FileCount: 1000, LinesChanged: 100000, DependencyCount: 500, Risk: models.RiskCritical, EstimatedMinutes: 10000},
		{DependencyCount: 4, EstimatedMinutes: 45, Risk: models.RiskHigh},
	}

	ops := []models.OperationKind{
		models.OpCreate, models.OpModify, models.OpRefactor,
		models.OpAnalyze, models.OpDebug, models.OpTest,
	}

	for _, op := range ops {
		for _, ctx := range contexts {
			got := Score(op, ctx)
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("Score(%s, %+v) = %v, want within [0,100]", op, ctx, got.Score)
			}
		}
	}
}

func TestScore_MonotonicInEachFactor(t *testing.T) {
	base := models.TaskContext{
		FileCount:        2,
		LinesChanged:     50,
		DependencyCount:  1,
		Risk:             models.RiskMedium,
		EstimatedMinutes: 20,
	}

	tests := []struct {
		name string
		bump func(models.TaskContext) models.TaskContext
	}{
		{"file count", func(c models.TaskContext) models.TaskContext { c.FileCount += 5; return c }},
		{"line count", func(c models.TaskContext) models.TaskContext { c.LinesChanged += 500; return c }},
		{"dependency count", func(c models.TaskContext) models.TaskContext { c.DependencyCount += 3; return c }},
		{"duration", func(c models.TaskContext) models.TaskContext { c.EstimatedMinutes += 60; return c }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := Score(models.OpModify, base).Score
			after := Score(models.OpModify, tt.bump(base)).Score
			if after < before {
				t.Errorf("score decreased from %v to %v when increasing %s", before, after, tt.name)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	ctx := models.TaskContext{FileCount: 7, LinesChanged: 340, DependencyCount: 3, Risk: models.RiskHigh, EstimatedMinutes: 90}

	first := Score(models.OpRefactor, ctx)
	second := Score(models.OpRefactor, ctx)

	if first.Score != second.Score || first.Level != second.Level || first.Strategy != second.Strategy {
		t.Errorf("scoring is not deterministic: %+v vs %+v", first, second)
	}
}

func TestScore_UnknownOperationDefaults(t *testing.T) {
	got := Score(models.OperationKind("deploy"), models.TaskContext{FileCount: 2})

	found := false
	for _, r := range got.Reasoning {
		if strings.Contains(r, "unknown operation") {
			found = true
		}
	}
	if !found {
		t.Errorf("Reasoning = %v, want a note flagging the unknown-operation default", got.Reasoning)
	}
}

func TestScore_SecondaryThresholdsTriggerMultiAgent(t *testing.T) {
	// Mid-band score with many files routes multi-agent even though
	// the score alone would stay single-agent.
	manyFiles := Score(models.OpModify, models.TaskContext{
		FileCount:    15,
		LinesChanged: 100,
		Risk:         models.RiskMedium,
	})
	if manyFiles.Level == models.LevelSimple || manyFiles.Level == models.LevelEnterprise {
		t.Fatalf("Level = %v, want a mid-band level", manyFiles.Level)
	}
	if manyFiles.Strategy != models.StrategyMulti {
		t.Errorf("Strategy = %v, want %v", manyFiles.Strategy, models.StrategyMulti)
	}

	fewFiles := Score(models.OpModify, models.TaskContext{
		FileCount:    4,
		LinesChanged: 200,
		Risk:         models.RiskMedium,
	})
	if fewFiles.Level == models.LevelSimple {
		t.Fatalf("Level = %v, want a mid-band level", fewFiles.Level)
	}
	if fewFiles.Strategy != models.StrategySingle {
		t.Errorf("Strategy = %v, want %v", fewFiles.Strategy, models.StrategySingle)
	}
}

func TestScore_RiskRaisesScore(t *testing.T) {
	ctx := models.TaskContext{FileCount: 5, LinesChanged: 200, EstimatedMinutes: 60}

	low := ctx
	low.Risk = models.RiskLow
	critical := ctx
	critical.Risk = models.RiskCritical

	lowScore := Score(models.OpModify, low).Score
	criticalScore := Score(models.OpModify, critical).Score

	if criticalScore <= lowScore {
		t.Errorf("critical risk score %v not above low risk score %v", criticalScore, lowScore)
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		level models.ComplexityLevel
		want  models.ConflictPolicy
	}{
		{models.LevelSimple, models.PolicyConsensus},
		{models.LevelModerate, models.PolicyConsensus},
		{models.LevelComplex, models.PolicyMajorityVote},
		{models.LevelEnterprise, models.PolicyExpertPriority},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := PolicyFor(tt.level); got != tt.want {
				t.Errorf("PolicyFor(%s) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
