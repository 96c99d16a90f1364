package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/decompose"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/schedule"
)

var planComponent string

var planCmd = &cobra.Command{
	Use:   "plan <task>",
	Short: "Show the execution plan without running anything",
	Long: `Classify and decompose a task, then print the phase-by-phase
schedule: which subtasks run in which phase, which phases fan out
concurrently, and the estimated wall-clock savings from parallelism.

Nothing is executed and no worker is invoked.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planComponent, "component", "", "Component area hint for classification")
}

func runPlan(cmd *cobra.Command, args []string) error {
	description := args[0]

	var taskContext map[string]string
	if planComponent != "" {
		taskContext = map[string]string{"component": planComponent}
	}

	decomposition, err := decompose.New().Decompose(description, taskContext)
	if err != nil {
		return fmt.Errorf("decompose: %w", err)
	}

	sched, err := schedule.New().CreateSchedule(decomposition)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	fmt.Printf("Task: %s\n", decomposition.OriginalTask)
	fmt.Printf("Type: %s, complexity: %s\n", decomposition.TaskType, decomposition.Complexity)
	fmt.Printf("Subtasks: %d in %d phases (%d parallel, %d sequential)\n\n",
		len(decomposition.Subtasks), sched.TotalPhases, sched.ParallelPhases, sched.SequentialPhases)

	for _, phase := range sched.Phases {
		mode := "sequential"
		if phase.CanRunParallel {
			mode = color.CyanString("parallel")
		}
		fmt.Printf("Phase %d (%s):\n", phase.Index, mode)
		for _, id := range phase.SubtaskIDs {
			st := decomposition.Subtask(id)
			if st == nil {
				continue
			}
			fmt.Printf("  %s %s [%s]", color.GreenString("•"), st.Title, st.AgentType)
			if len(st.Dependencies) > 0 {
				fmt.Printf(" (after %v)", st.Dependencies)
			}
			fmt.Println()
		}
	}

	if decomposition.EstimatedSavingsMS > 0 {
		fmt.Printf("\nEstimated parallel savings: %dms\n", decomposition.EstimatedSavingsMS)
	}
	return nil
}
