package models

// SubtaskStatus represents the execution state of a single subtask.
type SubtaskStatus string

const (
	// SubtaskPending indicates the subtask has not started.
	SubtaskPending SubtaskStatus = "pending"
	// SubtaskRunning indicates the subtask is executing.
	SubtaskRunning SubtaskStatus = "running"
	// SubtaskCompleted indicates the subtask finished successfully.
	SubtaskCompleted SubtaskStatus = "completed"
	// SubtaskFailed indicates the subtask failed or timed out.
	SubtaskFailed SubtaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s SubtaskStatus) Valid() bool {
	switch s {
	case SubtaskPending, SubtaskRunning, SubtaskCompleted, SubtaskFailed:
		return true
	default:
		return false
	}
}

// SubtaskResult is the outcome of running one subtask.
type SubtaskResult struct {
	SubtaskID string    `json:"subtask_id"`
	Success   bool      `json:"success"`
	AgentType AgentType `json:"agent_type"`
	// ExecutionTimeMS is the wall-clock duration of the subtask.
	ExecutionTimeMS int64 `json:"execution_time_ms"`
	// Data carries worker-produced output, opaque to the executor.
	Data         map[string]interface{} `json:"data,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	TokensUsed   int64                  `json:"tokens_used"`
	Status       SubtaskStatus          `json:"status"`
}

// ExecutionStatus is the terminal status of a whole execution run.
type ExecutionStatus string

const (
	// ExecutionCompleted indicates all phases ran to the end.
	ExecutionCompleted ExecutionStatus = "completed"
	// ExecutionPartial indicates execution stopped early (fail-fast or
	// total timeout).
	ExecutionPartial ExecutionStatus = "partial"
	// ExecutionDryRun indicates the plan was computed but nothing ran.
	ExecutionDryRun ExecutionStatus = "dry_run"
	// ExecutionEscalated indicates the fix/review loop handed control
	// back to a human.
	ExecutionEscalated ExecutionStatus = "escalated"
)

// DecompositionExecutionResult aggregates the outcome of executing a
// full decomposition. It is a plain serializable record so UI, logging,
// or storage layers can consume it without internal types.
type DecompositionExecutionResult struct {
	OriginalTask string `json:"original_task"`
	// SubtaskResults is keyed by subtask ID.
	SubtaskResults map[string]*SubtaskResult `json:"subtask_results"`
	// TotalTimeMS is the wall-clock duration of the run.
	TotalTimeMS int64 `json:"total_time_ms"`
	// TotalTokens sums tokens across all results recorded on the
	// executor instance.
	TotalTokens            int64           `json:"total_tokens"`
	ParallelGroupsExecuted int             `json:"parallel_groups_executed"`
	PhasesExecuted         int             `json:"phases_executed"`
	Status                 ExecutionStatus `json:"status"`
	// EstimatedSavingsMS is passed through from the decomposition.
	EstimatedSavingsMS int64 `json:"estimated_savings_ms"`
}
