package models

// ComplexityLevel is the discrete bucket derived from a numeric score.
type ComplexityLevel string

const (
	// LevelSimple covers scores of 25 and below.
	LevelSimple ComplexityLevel = "simple"
	// LevelModerate covers scores from 26 through 50.
	LevelModerate ComplexityLevel = "moderate"
	// LevelComplex covers scores from 51 through 95.
	LevelComplex ComplexityLevel = "complex"
	// LevelEnterprise covers scores of 96 and above.
	LevelEnterprise ComplexityLevel = "enterprise"
)

// Valid returns true if the level is a known value.
func (l ComplexityLevel) Valid() bool {
	switch l {
	case LevelSimple, LevelModerate, LevelComplex, LevelEnterprise:
		return true
	default:
		return false
	}
}

// Strategy is the routing decision for a scored task.
type Strategy string

const (
	// StrategySingle routes the task to exactly one worker.
	StrategySingle Strategy = "single-agent"
	// StrategyMulti fans the task out to several workers.
	StrategyMulti Strategy = "multi-agent"
	// StrategyOrchestrator decomposes the task under a lead coordinator.
	StrategyOrchestrator Strategy = "orchestrator-led"
)

// Valid returns true if the strategy is a known value.
func (s Strategy) Valid() bool {
	switch s {
	case StrategySingle, StrategyMulti, StrategyOrchestrator:
		return true
	default:
		return false
	}
}

// ComplexityResult is the output of scoring one task. It is derived
// state and lives only as long as the delegation that consumed it.
type ComplexityResult struct {
	// Score is the clamped numeric complexity in [0, 100].
	Score float64 `json:"score"`
	// Level is the discrete complexity bucket for the score.
	Level ComplexityLevel `json:"level"`
	// Strategy is the recommended routing decision.
	Strategy Strategy `json:"strategy"`
	// EstimatedWorkers is the suggested number of workers.
	EstimatedWorkers int `json:"estimated_workers"`
	// Reasoning lists the factors that dominated the score.
	Reasoning []string `json:"reasoning"`
}
