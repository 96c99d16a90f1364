package models

// DecompositionResult is the output of breaking a task into subtasks.
type DecompositionResult struct {
	// OriginalTask is the task description that was decomposed.
	OriginalTask string `json:"original_task"`
	// TaskType is the classified type of the original task.
	TaskType TaskType `json:"task_type"`
	// Complexity is the classified complexity of the original task.
	Complexity ComplexityLevel `json:"complexity"`
	// Subtasks is the ordered sequence of produced subtasks. Every
	// subtask ID appears exactly once.
	Subtasks []*Subtask `json:"subtasks"`
	// ParallelGroups lists disjoint sets of subtask IDs with no mutual
	// dependency. A subtask appears in at most one group.
	ParallelGroups [][]string `json:"parallel_groups,omitempty"`
	// EstimatedSavingsMS is the sequential-sum estimate minus the
	// critical-path estimate through the dependency graph.
	EstimatedSavingsMS int64 `json:"estimated_savings_ms"`
}

// Subtask returns the subtask with the given ID, or nil if absent.
func (d *DecompositionResult) Subtask(id string) *Subtask {
	for _, st := range d.Subtasks {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// Phase is a scheduled group of subtasks executed together.
type Phase struct {
	// Index is the 0-based position of the phase in the schedule.
	Index int `json:"phase_index"`
	// SubtaskIDs are the members of this phase.
	SubtaskIDs []string `json:"subtask_ids"`
	// CanRunParallel is true when the members may execute concurrently.
	CanRunParallel bool `json:"can_run_parallel"`
}

// Schedule is an ordered list of execution phases. For every dependency
// edge A depends-on B, the phase containing A has a strictly greater
// index than the phase containing B.
type Schedule struct {
	Phases           []Phase `json:"phases"`
	TotalPhases      int     `json:"total_phases"`
	ParallelPhases   int     `json:"parallel_phases"`
	SequentialPhases int     `json:"sequential_phases"`
}
