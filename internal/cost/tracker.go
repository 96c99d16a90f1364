package cost

import (
	"sync"
	"time"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// Tracker is the process-wide append-only ledger of token usage.
// Aggregates are always re-derived from the recorded entries, so
// repeated reads with no new records return identical results. It is
// safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	records []models.UsageRecord
	pricing map[string]ModelPricing
}

// NewTracker creates a Tracker priced by the default model table.
func NewTracker() *Tracker {
	return &Tracker{pricing: DefaultModelPricing}
}

// NewTrackerWithPricing creates a Tracker with a custom price table.
func NewTrackerWithPricing(pricing map[string]ModelPricing) *Tracker {
	if pricing == nil {
		pricing = DefaultModelPricing
	}
	return &Tracker{pricing: pricing}
}

// RecordUsage appends one immutable usage record.
func (t *Tracker) RecordUsage(chainID string, agent models.AgentType, model string, inputTokens, outputTokens, durationMS int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = append(t.records, models.UsageRecord{
		ChainID:      chainID,
		Agent:        agent,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		DurationMS:   durationMS,
		RecordedAt:   time.Now(),
	})
}

// GetChainCost aggregates every record for the chain. A chain with no
// records aggregates to zero rather than an error.
func (t *Tracker) GetChainCost(chainID string) models.ChainCost {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cost := models.ChainCost{
		ChainID:        chainID,
		AgentBreakdown: make(map[models.AgentType]models.AgentUsage),
	}

	for _, r := range t.records {
		if r.ChainID != chainID {
			continue
		}
		recordCost := tokenCost(t.pricing, r.Model, r.InputTokens, r.OutputTokens)

		cost.TotalTokens += r.TotalTokens()
		cost.EstimatedCost += recordCost

		usage := cost.AgentBreakdown[r.Agent]
		usage.InputTokens += r.InputTokens
		usage.OutputTokens += r.OutputTokens
		usage.EstimatedCost += recordCost
		cost.AgentBreakdown[r.Agent] = usage
	}

	return cost
}

// Records returns a copy of all records for the chain, in recorded
// order.
func (t *Tracker) Records(chainID string) []models.UsageRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []models.UsageRecord
	for _, r := range t.records {
		if r.ChainID == chainID {
			out = append(out, r)
		}
	}
	return out
}
