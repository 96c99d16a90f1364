package loop

import (
	"context"
	"fmt"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/decompose"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/executor"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/logging"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// Reviewer inspects an execution result and reports issues. An empty
// issue set is an approval.
type Reviewer interface {
	Review(ctx context.Context, result *models.DecompositionExecutionResult) ([]models.Issue, error)
}

// ReviewerFunc adapts a function to the Reviewer interface.
type ReviewerFunc func(ctx context.Context, result *models.DecompositionExecutionResult) ([]models.Issue, error)

// Review implements Reviewer.
func (f ReviewerFunc) Review(ctx context.Context, result *models.DecompositionExecutionResult) ([]models.Issue, error) {
	return f(ctx, result)
}

// ChainResult is the terminal outcome of one chain run.
type ChainResult struct {
	Status models.ChainStatus `json:"status"`
	// Execution is the last execution result produced by the loop.
	Execution *models.DecompositionExecutionResult `json:"execution"`
	// Iterations is the number of fix rounds that ran.
	Iterations int `json:"iterations"`
	// Issues preserves the triggering issues when the chain escalated.
	Issues []models.Issue `json:"issues,omitempty"`
	// DocumentationRan is true when the post-approval docs phase ran.
	DocumentationRan bool `json:"documentation_ran"`
}

// Runner drives a chain end to end: full execution, review, bounded
// fix/verify/review re-runs, and the post-approval documentation phase.
type Runner struct {
	engine   *decompose.Engine
	executor *executor.Executor
	manager  *Manager
	reviewer Reviewer
	logger   *logging.DebugLogger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithReviewer injects the reviewer consulted after each execution.
// Without one, every execution is approved immediately.
func WithReviewer(r Reviewer) RunnerOption {
	return func(run *Runner) { run.reviewer = r }
}

// WithManager overrides the default loop manager.
func WithManager(m *Manager) RunnerOption {
	return func(run *Runner) { run.manager = m }
}

// WithExecutor overrides the default (simulation mode) executor.
func WithExecutor(e *executor.Executor) RunnerOption {
	return func(run *Runner) { run.executor = e }
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.DebugLogger) RunnerOption {
	return func(run *Runner) { run.logger = l }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:   decompose.New(),
		executor: executor.New(),
		manager:  NewManager(),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the chain for the given description. The fix loop
// re-invokes only the fix/verify/review phases; the one-time
// exploration phase never repeats. Escalation is a controlled terminal
// state that retains the triggering issues.
func (r *Runner) Run(ctx context.Context, description string, cfg executor.Config, taskContext map[string]string) (*ChainResult, error) {
	decomposition, err := r.engine.Decompose(description, taskContext)
	if err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}

	execution, err := r.executor.ExecuteDecomposition(ctx, decomposition, cfg)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	if cfg.DryRun {
		return &ChainResult{Status: models.ChainPending, Execution: execution}, nil
	}

	result := &ChainResult{Execution: execution}

	for iteration := 0; ; iteration++ {
		issues, err := r.review(ctx, result.Execution)
		if err != nil {
			return nil, fmt.Errorf("review: %w", err)
		}

		if len(issues) == 0 {
			result.Status = models.ChainCompleted
			break
		}

		decision := r.manager.ShouldContinueLoop(issues, iteration, decomposition.TaskType)
		r.logger.Log("[chain] iteration %d: %d issue(s), decision=%s (%s)",
			iteration, len(issues), decision.Action, decision.Reason)

		if !decision.ShouldContinue {
			result.Status = models.ChainEscalated
			result.Issues = issues
			result.Execution.Status = models.ExecutionEscalated
			return result, nil
		}

		fixPass := fixPhases(decomposition)
		execution, err := r.executor.ExecuteDecomposition(ctx, fixPass, cfg)
		if err != nil {
			return nil, fmt.Errorf("fix pass %d: %w", iteration+1, err)
		}
		result.Execution = execution
		result.Iterations = iteration + 1
	}

	// Documentation runs only after approval and never for research
	// chains.
	if decomposition.TaskType != models.TaskTypeResearch {
		if err := r.runDocumentation(ctx, decomposition, cfg); err != nil {
			r.logger.Log("[chain] documentation phase failed: %v", err)
		} else {
			result.DocumentationRan = true
		}
	}

	return result, nil
}

func (r *Runner) review(ctx context.Context, execution *models.DecompositionExecutionResult) ([]models.Issue, error) {
	if r.reviewer == nil {
		return nil, nil
	}
	return r.reviewer.Review(ctx, execution)
}

// fixPhases derives the re-run decomposition: everything except the
// one-time exploration subtasks, with dangling dependencies on the
// excluded subtasks stripped.
func fixPhases(decomposition *models.DecompositionResult) *models.DecompositionResult {
	excluded := map[string]bool{}
	for _, st := range decomposition.Subtasks {
		if st.AgentType == models.AgentExplore {
			excluded[st.ID] = true
		}
	}

	kept := make([]*models.Subtask, 0, len(decomposition.Subtasks))
	for _, st := range decomposition.Subtasks {
		if excluded[st.ID] {
			continue
		}
		clone := *st
		clone.Dependencies = nil
		for _, dep := range st.Dependencies {
			if !excluded[dep] {
				clone.Dependencies = append(clone.Dependencies, dep)
			}
		}
		kept = append(kept, &clone)
	}

	keptIDs := make(map[string]bool, len(kept))
	for _, st := range kept {
		keptIDs[st.ID] = true
	}
	var groups [][]string
	for _, group := range decomposition.ParallelGroups {
		var filtered []string
		for _, id := range group {
			if keptIDs[id] {
				filtered = append(filtered, id)
			}
		}
		if len(filtered) > 1 {
			groups = append(groups, filtered)
		}
	}

	return &models.DecompositionResult{
		OriginalTask:   decomposition.OriginalTask,
		TaskType:       decomposition.TaskType,
		Complexity:     decomposition.Complexity,
		Subtasks:       kept,
		ParallelGroups: groups,
	}
}

// runDocumentation executes the single post-approval docs subtask.
func (r *Runner) runDocumentation(ctx context.Context, decomposition *models.DecompositionResult, cfg executor.Config) error {
	docs := &models.DecompositionResult{
		OriginalTask: decomposition.OriginalTask,
		TaskType:     decomposition.TaskType,
		Complexity:   decomposition.Complexity,
		Subtasks: []*models.Subtask{
			{
				ID:          "document",
				Title:       "Document completed work",
				Description: fmt.Sprintf("Document the approved changes for: %s", decomposition.OriginalTask),
				AgentType:   models.AgentDocs,
				Metadata:    map[string]string{"layer": "docs"},
			},
		},
	}

	execution, err := r.executor.ExecuteDecomposition(ctx, docs, cfg)
	if err != nil {
		return err
	}
	if sr := execution.SubtaskResults["document"]; sr != nil && !sr.Success {
		return fmt.Errorf("documentation subtask failed: %s", sr.ErrorMessage)
	}
	return nil
}
