package cost

import (
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// modelTiers orders candidate models from most to least capable. The
// optimizer starts every agent at the top tier and downgrades until the
// plan fits the budget.
var modelTiers = []string{
	"claude-opus-4-5-20251101",
	"claude-sonnet-4-20250514",
	"claude-3-5-haiku-20241022",
}

// expectedTokens is the baseline token volume one agent consumes on a
// moderate task, before complexity scaling.
var expectedTokens = map[models.AgentType]struct{ input, output int64 }{
	models.AgentExplore: {input: 8_000, output: 2_000},
	models.AgentBuilder: {input: 12_000, output: 8_000},
	models.AgentQuality: {input: 10_000, output: 3_000},
	models.AgentDocs:    {input: 6_000, output: 4_000},
}

// complexityTokenScale scales expected token volume by task complexity.
var complexityTokenScale = map[models.ComplexityLevel]float64{
	models.ComplexityTrivial:  0.4,
	models.ComplexitySimple:   0.7,
	models.ComplexityModerate: 1.0,
	models.ComplexityComplex:  1.8,
}

// Optimizer fits a per-agent model assignment to a budget.
type Optimizer struct {
	pricing map[string]ModelPricing
	tiers   []string
}

// NewOptimizer creates an Optimizer over the default pricing table.
func NewOptimizer() *Optimizer {
	return &Optimizer{pricing: DefaultModelPricing, tiers: modelTiers}
}

// chainAgents lists the agents a chain of the given type engages.
func chainAgents(taskType models.TaskType) []models.AgentType {
	agents := []models.AgentType{models.AgentExplore, models.AgentBuilder, models.AgentQuality}
	if taskType != models.TaskTypeResearch {
		agents = append(agents, models.AgentDocs)
	}
	return agents
}

// OptimizeChain assigns a model to each agent so the plan's estimated
// cost fits the budget. Agents start at the strongest tier; the plan
// degrades tier by tier, builder last, until it fits. When even the
// cheapest assignment exceeds the budget the plan is returned with
// BudgetCompliant=false instead of an error.
func (o *Optimizer) OptimizeChain(taskType models.TaskType, complexity models.ComplexityLevel, budget float64) models.CostPlan {
	agents := chainAgents(taskType)
	scale, ok := complexityTokenScale[complexity]
	if !ok {
		scale = complexityTokenScale[models.ComplexityModerate]
	}

	// tier index per agent, all starting at the strongest model
	tiers := make(map[models.AgentType]int, len(agents))
	for _, agent := range agents {
		tiers[agent] = 0
	}

	cost := o.planCost(agents, tiers, scale)
	for cost > budget {
		downgraded := false
		// Downgrade the non-builder agents before touching the builder;
		// code quality degrades fastest when the builder model weakens.
		for _, agent := range []models.AgentType{models.AgentDocs, models.AgentExplore, models.AgentQuality, models.AgentBuilder} {
			idx, engaged := tiers[agent]
			if !engaged || idx >= len(o.tiers)-1 {
				continue
			}
			tiers[agent] = idx + 1
			downgraded = true
			break
		}
		if !downgraded {
			break
		}
		cost = o.planCost(agents, tiers, scale)
	}

	plan := models.CostPlan{
		BudgetCompliant: cost <= budget,
		EstimatedCost:   cost,
		Budget:          budget,
		Agents:          make(map[models.AgentType]string, len(agents)),
	}
	for _, agent := range agents {
		plan.Agents[agent] = o.tiers[tiers[agent]]
	}
	return plan
}

func (o *Optimizer) planCost(agents []models.AgentType, tiers map[models.AgentType]int, scale float64) float64 {
	var total float64
	for _, agent := range agents {
		tokens := expectedTokens[agent]
		input := int64(float64(tokens.input) * scale)
		output := int64(float64(tokens.output) * scale)
		total += tokenCost(o.pricing, o.tiers[tiers[agent]], input, output)
	}
	return total
}
