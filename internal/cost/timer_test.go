package cost

import (
	"math"
	"testing"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

func TestPredictBaselineAtNominalLoad(t *testing.T) {
	p := NewTimer().Predict(models.TaskTypeImplement, models.ComplexityModerate, 1.0, nil)

	if p.EstimatedTotalMinutes != 60 {
		t.Errorf("expected the 60 minute baseline, got %f", p.EstimatedTotalMinutes)
	}
	if p.Factors["system_load"] != 1.0 {
		t.Errorf("nominal load factor not recorded: %v", p.Factors)
	}
	if p.PercentileEstimates["p50"] != p.EstimatedTotalMinutes {
		t.Error("p50 should equal the point estimate")
	}
	if p.PercentileEstimates["p90"] <= p.PercentileEstimates["p50"] {
		t.Error("p90 must exceed p50")
	}
}

func TestPredictScalesWithSystemLoad(t *testing.T) {
	timer := NewTimer()
	nominal := timer.Predict(models.TaskTypeFix, models.ComplexitySimple, 1.0, nil)
	loaded := timer.Predict(models.TaskTypeFix, models.ComplexitySimple, 1.5, nil)

	if math.Abs(loaded.EstimatedTotalMinutes-nominal.EstimatedTotalMinutes*1.5) > 1e-9 {
		t.Errorf("load 1.5 should scale the baseline: %f vs %f", loaded.EstimatedTotalMinutes, nominal.EstimatedTotalMinutes)
	}

	// Non-positive load falls back to nominal.
	fallback := timer.Predict(models.TaskTypeFix, models.ComplexitySimple, 0, nil)
	if fallback.EstimatedTotalMinutes != nominal.EstimatedTotalMinutes {
		t.Errorf("zero load should be nominal, got %f", fallback.EstimatedTotalMinutes)
	}
}

func TestPredictHistoricalRaisesConfidenceMonotonically(t *testing.T) {
	timer := NewTimer()

	prev := timer.Predict(models.TaskTypeImplement, models.ComplexityModerate, 1.0, nil).Confidence
	history := []float64{}
	for i := 0; i < 15; i++ {
		history = append(history, 55)
		c := timer.Predict(models.TaskTypeImplement, models.ComplexityModerate, 1.0, history).Confidence
		if c < prev {
			t.Fatalf("confidence dropped from %f to %f at %d samples", prev, c, len(history))
		}
		if c > 1.0 {
			t.Fatalf("confidence exceeded the cap: %f", c)
		}
		prev = c
	}
	if prev != 1.0 {
		t.Errorf("confidence should reach the cap with ample history, got %f", prev)
	}
}

func TestPredictBlendsTowardHistoricalMean(t *testing.T) {
	timer := NewTimer()
	baseline := timer.Predict(models.TaskTypeImplement, models.ComplexityModerate, 1.0, nil)
	blended := timer.Predict(models.TaskTypeImplement, models.ComplexityModerate, 1.0, []float64{120, 120, 120})

	if blended.EstimatedTotalMinutes <= baseline.EstimatedTotalMinutes {
		t.Errorf("slower history should pull the estimate up: %f vs %f",
			blended.EstimatedTotalMinutes, baseline.EstimatedTotalMinutes)
	}
	if blended.EstimatedTotalMinutes >= 120 {
		t.Errorf("blend must not overshoot the historical mean, got %f", blended.EstimatedTotalMinutes)
	}
	if _, ok := blended.Factors["historical_weight"]; !ok {
		t.Errorf("historical adjustment not recorded in factors: %v", blended.Factors)
	}
	if _, ok := blended.Factors["historical_mean"]; !ok {
		t.Errorf("historical mean not recorded in factors: %v", blended.Factors)
	}
}

func TestPredictAgentBreakdownSumsToTotal(t *testing.T) {
	p := NewTimer().Predict(models.TaskTypeImplement, models.ComplexityComplex, 1.0, nil)

	var sum float64
	for _, minutes := range p.AgentBreakdown {
		sum += minutes
	}
	if math.Abs(sum-p.EstimatedTotalMinutes) > 1e-6 {
		t.Errorf("breakdown %f does not sum to total %f", sum, p.EstimatedTotalMinutes)
	}
}

func TestPredictResearchOmitsDocsAgent(t *testing.T) {
	p := NewTimer().Predict(models.TaskTypeResearch, models.ComplexityModerate, 1.0, nil)

	if _, ok := p.AgentBreakdown[models.AgentDocs]; ok {
		t.Error("research predictions must not include a docs share")
	}
}

func TestPredictUnknownCategoriesDegradeToDefaults(t *testing.T) {
	p := NewTimer().Predict(models.TaskType("mystery"), models.ComplexityLevel("unknown"), 1.0, nil)

	if p.EstimatedTotalMinutes != 60 {
		t.Errorf("unknown type/complexity should fall back to implement/moderate, got %f", p.EstimatedTotalMinutes)
	}
}
