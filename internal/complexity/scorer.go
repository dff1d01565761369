// Package complexity scores tasks and recommends a delegation strategy.
// Scoring is pure and deterministic: the same task attributes always
// produce the same result.
package complexity

import (
	"fmt"
	"math"

	"github.com/strray/strray/pkg/models"
)

// Factor caps. Each raw factor contributes a bounded number of points
// so that no single attribute can dominate the raw sum (max 75).
const (
	maxFilePoints       = 20.0
	maxLinePoints       = 25.0
	maxDependencyPoints = 15.0
	maxDurationPoints   = 15.0

	pointsPerFile       = 2.0
	linesPerPoint       = 10.0
	pointsPerDependency = 3.0
	minutesPerPoint     = 10.0
)

// Secondary thresholds that push a mid-band task from single-agent to
// multi-agent routing.
const (
	multiAgentFileThreshold       = 10
	multiAgentDependencyThreshold = 8
)

// operationMultipliers weight the raw score by operation kind.
var operationMultipliers = map[models.OperationKind]float64{
	models.OpCreate:   1.0,
	models.OpModify:   1.2,
	models.OpRefactor: 1.8,
	models.OpAnalyze:  1.5,
	models.OpDebug:    2.0,
	models.OpTest:     1.3,
}

// riskMultipliers weight the raw score by risk tier.
var riskMultipliers = map[models.RiskTier]float64{
	models.RiskLow:      0.8,
	models.RiskMedium:   1.0,
	models.RiskHigh:     1.3,
	models.RiskCritical: 1.6,
}

// Score computes the complexity of a task from its operation kind and
// context. Zero-valued attributes contribute nothing; they are never an
// error. Unknown operation kinds fall back to a 1.0 multiplier with a
// reasoning note flagging the default.
func Score(op models.OperationKind, ctx models.TaskContext) models.ComplexityResult {
	var reasoning []string

	filePoints := math.Min(float64(ctx.FileCount)*pointsPerFile, maxFilePoints)
	linePoints := math.Min(float64(ctx.LinesChanged)/linesPerPoint, maxLinePoints)
	depPoints := math.Min(float64(ctx.DependencyCount)*pointsPerDependency, maxDependencyPoints)
	durationPoints := math.Min(float64(ctx.EstimatedMinutes)/minutesPerPoint, maxDurationPoints)

	if filePoints >= maxFilePoints {
		reasoning = append(reasoning, fmt.Sprintf("high file count (%d files, capped)", ctx.FileCount))
	} else if filePoints > 0 {
		reasoning = append(reasoning, fmt.Sprintf("file count contributes %.1f points", filePoints))
	}
	if linePoints >= maxLinePoints {
		reasoning = append(reasoning, fmt.Sprintf("high change volume (%d lines, capped)", ctx.LinesChanged))
	} else if linePoints > 0 {
		reasoning = append(reasoning, fmt.Sprintf("change volume contributes %.1f points", linePoints))
	}
	if depPoints >= maxDependencyPoints {
		reasoning = append(reasoning, fmt.Sprintf("high dependency count (%d dependencies, capped)", ctx.DependencyCount))
	} else if depPoints > 0 {
		reasoning = append(reasoning, fmt.Sprintf("dependencies contribute %.1f points", depPoints))
	}
	if durationPoints >= maxDurationPoints {
		reasoning = append(reasoning, fmt.Sprintf("long estimated duration (%d minutes, capped)", ctx.EstimatedMinutes))
	} else if durationPoints > 0 {
		reasoning = append(reasoning, fmt.Sprintf("estimated duration contributes %.1f points", durationPoints))
	}

	raw := filePoints + linePoints + depPoints + durationPoints

	opMult, ok := operationMultipliers[op]
	if !ok {
		opMult = 1.0
		reasoning = append(reasoning, fmt.Sprintf("unknown operation %q, defaulting to multiplier 1.0", op))
	} else if opMult != 1.0 {
		reasoning = append(reasoning, fmt.Sprintf("operation %s multiplier (x%.1f)", op, opMult))
	}

	risk := ctx.Risk
	if risk == "" {
		risk = models.RiskMedium
	}
	riskMult, ok := riskMultipliers[risk]
	if !ok {
		riskMult = 1.0
		reasoning = append(reasoning, fmt.Sprintf("unknown risk tier %q, defaulting to multiplier 1.0", risk))
	} else if riskMult != 1.0 {
		reasoning = append(reasoning, fmt.Sprintf("%s risk multiplier (x%.1f)", risk, riskMult))
	}

	score := clamp(raw*opMult*riskMult, 0, 100)

	level := levelFor(score)
	strategy, workers := route(level, score, ctx)
	if len(reasoning) == 0 {
		reasoning = append(reasoning, "no complexity signals, trivial task")
	}

	return models.ComplexityResult{
		Score:            score,
		Level:            level,
		Strategy:         strategy,
		EstimatedWorkers: workers,
		Reasoning:        reasoning,
	}
}

// levelFor maps a clamped score to its discrete complexity bucket.
func levelFor(score float64) models.ComplexityLevel {
	switch {
	case score <= 25:
		return models.LevelSimple
	case score <= 50:
		return models.LevelModerate
	case score < 96:
		return models.LevelComplex
	default:
		return models.LevelEnterprise
	}
}

// route picks the delegation strategy and worker count for a level.
func route(level models.ComplexityLevel, score float64, ctx models.TaskContext) (models.Strategy, int) {
	switch level {
	case models.LevelSimple:
		return models.StrategySingle, 1
	case models.LevelEnterprise:
		workers := int(math.Ceil(score / 30))
		if workers < 3 {
			workers = 3
		}
		return models.StrategyOrchestrator, workers
	default:
		workers := int(math.Ceil(score / 40))
		if workers < 1 {
			workers = 1
		}
		if workers > 4 {
			workers = 4
		}
		if ctx.FileCount > multiAgentFileThreshold || ctx.DependencyCount > multiAgentDependencyThreshold {
			return models.StrategyMulti, workers
		}
		return models.StrategySingle, workers
	}
}

// PolicyFor maps a complexity level to the conflict-resolution policy
// attached to the delegation record. The policy is decided here, once,
// and never re-derived during reconciliation.
func PolicyFor(level models.ComplexityLevel) models.ConflictPolicy {
	switch level {
	case models.LevelComplex:
		return models.PolicyMajorityVote
	case models.LevelEnterprise:
		return models.PolicyExpertPriority
	default:
		return models.PolicyConsensus
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
