package cost

import (
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// baselineMinutes is the type-by-complexity duration table, in minutes
// of wall clock for a whole chain at nominal system load.
var baselineMinutes = map[models.TaskType]map[models.ComplexityLevel]float64{
	models.TaskTypeImplement: {
		models.ComplexityTrivial:  15,
		models.ComplexitySimple:   30,
		models.ComplexityModerate: 60,
		models.ComplexityComplex:  150,
	},
	models.TaskTypeFix: {
		models.ComplexityTrivial:  10,
		models.ComplexitySimple:   20,
		models.ComplexityModerate: 40,
		models.ComplexityComplex:  90,
	},
	models.TaskTypeTest: {
		models.ComplexityTrivial:  10,
		models.ComplexitySimple:   25,
		models.ComplexityModerate: 45,
		models.ComplexityComplex:  100,
	},
	models.TaskTypeDocs: {
		models.ComplexityTrivial:  8,
		models.ComplexitySimple:   15,
		models.ComplexityModerate: 30,
		models.ComplexityComplex:  60,
	},
	models.TaskTypeUI: {
		models.ComplexityTrivial:  15,
		models.ComplexitySimple:   35,
		models.ComplexityModerate: 70,
		models.ComplexityComplex:  160,
	},
	models.TaskTypeResearch: {
		models.ComplexityTrivial:  12,
		models.ComplexitySimple:   25,
		models.ComplexityModerate: 50,
		models.ComplexityComplex:  120,
	},
}

// agentTimeShare splits a chain's total duration across agent types.
var agentTimeShare = map[models.AgentType]float64{
	models.AgentExplore: 0.20,
	models.AgentBuilder: 0.45,
	models.AgentQuality: 0.20,
	models.AgentDocs:    0.15,
}

// Timer predicts wall-clock duration from the baseline table, the
// current system load, and optional historical observations.
type Timer struct{}

// NewTimer creates a Timer.
func NewTimer() *Timer {
	return &Timer{}
}

// Predict estimates total duration in minutes. systemLoad is a
// multiplier over the baseline (1.0 = nominal); non-positive values are
// treated as nominal. Historical durations, when supplied, blend the
// estimate toward their mean and raise confidence monotonically with
// the sample count, capped at 1.0. Every adjustment applied to the
// baseline is recorded in Factors.
func (t *Timer) Predict(taskType models.TaskType, complexity models.ComplexityLevel, systemLoad float64, historical []float64) models.TimePrediction {
	baseline := t.baseline(taskType, complexity)

	if systemLoad <= 0 {
		systemLoad = 1.0
	}
	estimate := baseline * systemLoad

	factors := map[string]float64{
		"baseline_minutes": baseline,
		"system_load":      systemLoad,
	}

	confidence := 0.5
	if n := len(historical); n > 0 {
		var sum float64
		for _, h := range historical {
			sum += h
		}
		mean := sum / float64(n)

		// Historical weight grows with sample count but never fully
		// replaces the baseline.
		weight := float64(n) * 0.1
		if weight > 0.5 {
			weight = 0.5
		}
		blended := (1-weight)*estimate + weight*mean
		factors["historical_weight"] = weight
		factors["historical_mean"] = mean
		estimate = blended

		confidence += float64(n) * 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	breakdown := make(map[models.AgentType]float64, len(agentTimeShare))
	var shareTotal float64
	for agent, share := range agentTimeShare {
		if taskType == models.TaskTypeResearch && agent == models.AgentDocs {
			continue
		}
		shareTotal += share
	}
	for agent, share := range agentTimeShare {
		if taskType == models.TaskTypeResearch && agent == models.AgentDocs {
			continue
		}
		breakdown[agent] = estimate * share / shareTotal
	}

	return models.TimePrediction{
		EstimatedTotalMinutes: estimate,
		PercentileEstimates: map[string]float64{
			"p50": estimate,
			"p75": estimate * 1.25,
			"p90": estimate * 1.60,
		},
		Confidence:     confidence,
		AgentBreakdown: breakdown,
		Factors:        factors,
	}
}

func (t *Timer) baseline(taskType models.TaskType, complexity models.ComplexityLevel) float64 {
	byComplexity, ok := baselineMinutes[taskType]
	if !ok {
		byComplexity = baselineMinutes[models.TaskTypeImplement]
	}
	if minutes, ok := byComplexity[complexity]; ok {
		return minutes
	}
	return byComplexity[models.ComplexityModerate]
}
