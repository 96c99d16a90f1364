package cost

import (
	"reflect"
	"testing"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

const sonnet = "claude-sonnet-4-20250514"

func TestGetChainCostAggregatesAcrossAgents(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordUsage("chain-1", models.AgentExplore, sonnet, 500, 1000, 30_000)
	tracker.RecordUsage("chain-1", models.AgentBuilder, sonnet, 2000, 4000, 120_000)
	tracker.RecordUsage("chain-1", models.AgentQuality, sonnet, 800, 1500, 45_000)

	cost := tracker.GetChainCost("chain-1")

	if cost.TotalTokens != 9800 {
		t.Errorf("expected 9800 total tokens, got %d", cost.TotalTokens)
	}
	builder := cost.AgentBreakdown[models.AgentBuilder]
	if builder.InputTokens != 2000 || builder.OutputTokens != 4000 {
		t.Errorf("builder breakdown mismatch: %+v", builder)
	}
	if cost.EstimatedCost <= 0 {
		t.Error("priced model should produce a positive estimated cost")
	}
}

func TestGetChainCostIdempotent(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordUsage("chain-1", models.AgentBuilder, sonnet, 1000, 2000, 60_000)

	first := tracker.GetChainCost("chain-1")
	second := tracker.GetChainCost("chain-1")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated aggregation diverged:\n first %+v\nsecond %+v", first, second)
	}

	tracker.RecordUsage("chain-1", models.AgentBuilder, sonnet, 100, 200, 5_000)
	third := tracker.GetChainCost("chain-1")
	if third.TotalTokens != first.TotalTokens+300 {
		t.Errorf("new record not reflected: %d", third.TotalTokens)
	}
}

func TestGetChainCostIsolatesChains(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordUsage("chain-1", models.AgentBuilder, sonnet, 1000, 1000, 1)
	tracker.RecordUsage("chain-2", models.AgentBuilder, sonnet, 7000, 7000, 1)

	if got := tracker.GetChainCost("chain-1").TotalTokens; got != 2000 {
		t.Errorf("chain-1 tokens leaked across chains: %d", got)
	}
	if got := tracker.GetChainCost("chain-3").TotalTokens; got != 0 {
		t.Errorf("unknown chain should aggregate to zero, got %d", got)
	}
}

func TestUnknownModelPricesAtZero(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordUsage("chain-1", models.AgentBuilder, "in-house-model", 5000, 5000, 1)

	cost := tracker.GetChainCost("chain-1")
	if cost.TotalTokens != 10000 {
		t.Errorf("tokens must aggregate regardless of pricing, got %d", cost.TotalTokens)
	}
	if cost.EstimatedCost != 0 {
		t.Errorf("unpriced model must cost zero, got %f", cost.EstimatedCost)
	}
}
