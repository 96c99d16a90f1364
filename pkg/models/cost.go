package models

import "time"

// UsageRecord is one append-only token usage entry. Records are
// immutable once recorded; aggregates are always re-derived from them.
type UsageRecord struct {
	ChainID      string    `json:"chain_id"`
	Agent        AgentType `json:"agent"`
	Model        string    `json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	DurationMS   int64     `json:"duration_ms"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// TotalTokens returns input plus output tokens for this record.
func (r UsageRecord) TotalTokens() int64 {
	return r.InputTokens + r.OutputTokens
}

// AgentUsage is the per-agent slice of a chain's token usage.
type AgentUsage struct {
	InputTokens   int64   `json:"input_tokens"`
	OutputTokens  int64   `json:"output_tokens"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// ChainCost is the deterministic aggregate of a chain's usage records.
type ChainCost struct {
	ChainID        string                   `json:"chain_id"`
	TotalTokens    int64                    `json:"total_tokens"`
	EstimatedCost  float64                  `json:"estimated_cost"`
	AgentBreakdown map[AgentType]AgentUsage `json:"agent_breakdown"`
}

// CostPlan is a per-agent model assignment fitted against a budget.
// When no assignment fits, BudgetCompliant is false rather than an
// error.
type CostPlan struct {
	BudgetCompliant bool                 `json:"budget_compliant"`
	EstimatedCost   float64              `json:"estimated_cost"`
	Budget          float64              `json:"budget"`
	Agents          map[AgentType]string `json:"agents"`
}

// TimePrediction estimates wall-clock duration for a chain.
type TimePrediction struct {
	EstimatedTotalMinutes float64 `json:"estimated_total_minutes"`
	// PercentileEstimates maps labels like "p50"/"p90" to minutes.
	PercentileEstimates map[string]float64 `json:"percentile_estimates"`
	// Confidence is 0.0-1.0 and rises with historical evidence.
	Confidence float64 `json:"confidence"`
	// AgentBreakdown maps agent type to estimated minutes.
	AgentBreakdown map[AgentType]float64 `json:"agent_breakdown"`
	// Factors records the multipliers applied to the baseline.
	Factors map[string]float64 `json:"factors"`
}
