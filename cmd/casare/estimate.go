package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/classify"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/config"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/cost"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

var (
	estimateBudget    float64
	estimateLoad      float64
	estimateComponent string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <task>",
	Short: "Estimate cost and duration for a task",
	Long: `Classify a task, fit a per-agent model assignment against the
budget, and predict wall-clock duration from the type and complexity
baseline scaled by system load.

A plan that cannot fit the budget is reported as non-compliant with
the cheapest feasible assignment, never as an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().Float64Var(&estimateBudget, "budget", 0, "Dollar budget for the chain (default from config)")
	estimateCmd.Flags().Float64Var(&estimateLoad, "load", 1.0, "System load multiplier over the baseline")
	estimateCmd.Flags().StringVar(&estimateComponent, "component", "", "Component area hint for classification")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	description := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	budget := cfg.Cost.Budget
	if cmd.Flags().Changed("budget") {
		budget = estimateBudget
	}

	var taskContext map[string]string
	if estimateComponent != "" {
		taskContext = map[string]string{"component": estimateComponent}
	}

	classification := classify.New().Classify(description, taskContext)
	fmt.Printf("Task: %s\n", description)
	fmt.Printf("Type: %s, complexity: %s (confidence %.2f)\n\n",
		classification.TaskType, classification.Complexity, classification.Confidence)

	plan := cost.NewOptimizer().OptimizeChain(classification.TaskType, classification.Complexity, budget)
	if plan.BudgetCompliant {
		fmt.Printf("%s Budget: $%.2f, estimated cost: $%.4f\n", color.GreenString("✓"), plan.Budget, plan.EstimatedCost)
	} else {
		fmt.Printf("%s Budget: $%.2f exceeded, cheapest plan costs $%.4f\n", color.RedString("✗"), plan.Budget, plan.EstimatedCost)
	}

	agents := make([]models.AgentType, 0, len(plan.Agents))
	for agent := range plan.Agents {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	for _, agent := range agents {
		fmt.Printf("  %-8s %s\n", agent, plan.Agents[agent])
	}

	prediction := cost.NewTimer().Predict(classification.TaskType, classification.Complexity, estimateLoad, nil)
	fmt.Printf("\nEstimated duration: %.0f minutes (confidence %.2f)\n",
		prediction.EstimatedTotalMinutes, prediction.Confidence)
	for _, pct := range []string{"p50", "p75", "p90"} {
		if minutes, ok := prediction.PercentileEstimates[pct]; ok {
			fmt.Printf("  %s: %.0f minutes\n", pct, minutes)
		}
	}
	return nil
}
