// Package executor runs a schedule against an injected worker with
// per-phase fan-out/fan-in, fail-fast, and timeout semantics.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/decompose"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/logging"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/schedule"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// Config controls one execution run.
type Config struct {
	// FailFast stops execution after the first phase containing a
	// failed subtask.
	FailFast bool
	// MaxParallel caps concurrent subtasks within a parallel phase.
	// Zero or negative means no cap beyond the phase size.
	MaxParallel int
	// TimeoutPerSubtask applies when a subtask declares no timeout.
	TimeoutPerSubtask time.Duration
	// TotalTimeout bounds the whole run. Zero means unbounded.
	TotalTimeout time.Duration
	// DryRun computes and logs the plan without executing anything.
	DryRun bool
	// EnableParallel permits concurrent execution of parallel-eligible
	// phases. When false every phase runs strictly sequentially.
	EnableParallel bool
}

// DefaultConfig returns the executor defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		FailFast:          false,
		MaxParallel:       4,
		TimeoutPerSubtask: 10 * time.Minute,
		EnableParallel:    true,
	}
}

// Executor walks a schedule phase by phase, launching subtasks through
// the injected worker and aggregating results. The results and token
// accumulator belong to exactly one executor instance and are mutated
// only by the coordinating flow after each subtask returns.
type Executor struct {
	engine    *decompose.Engine
	scheduler *schedule.Scheduler
	worker    Worker
	logger    *logging.DebugLogger

	// cumulativeTokens keeps the token accumulator across Execute calls
	// instead of resetting it per run.
	cumulativeTokens bool

	mu          sync.Mutex
	totalTokens int64
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorker injects the worker used to run subtasks. Without it the
// executor runs in deterministic simulation mode.
func WithWorker(w Worker) Option {
	return func(e *Executor) {
		if w != nil {
			e.worker = w
		}
	}
}

// WithScheduler overrides the default scheduler, e.g. to change the
// unmet-dependency phase policy.
func WithScheduler(s *schedule.Scheduler) Option {
	return func(e *Executor) { e.scheduler = s }
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.DebugLogger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithCumulativeTokens keeps token totals across repeated Execute calls
// on the same instance. The default is per-run accounting.
func WithCumulativeTokens() Option {
	return func(e *Executor) { e.cumulativeTokens = true }
}

// New creates an Executor. With no worker option it runs in simulation
// mode.
func New(opts ...Option) *Executor {
	e := &Executor{
		engine:    decompose.New(),
		scheduler: schedule.New(),
		worker:    newSimulatedWorker(),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TotalTokens returns the executor's token accumulator.
func (e *Executor) TotalTokens() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalTokens
}

// ResetTokenTotals clears the token accumulator.
func (e *Executor) ResetTokenTotals() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalTokens = 0
}

// Execute decomposes the description, builds the schedule, and runs it
// phase by phase. Expected runtime failures are reported through the
// result status, never as errors; an error here means a malformed
// decomposition or schedule.
func (e *Executor) Execute(ctx context.Context, description string, cfg Config, taskContext map[string]string) (*models.DecompositionExecutionResult, error) {
	decomposition, err := e.engine.Decompose(description, taskContext)
	if err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}
	return e.ExecuteDecomposition(ctx, decomposition, cfg)
}

// ExecuteDecomposition runs a pre-built decomposition. The ChainRunner
// uses this entry point to re-run selected phases during fix loops.
func (e *Executor) ExecuteDecomposition(ctx context.Context, decomposition *models.DecompositionResult, cfg Config) (*models.DecompositionExecutionResult, error) {
	sched, err := e.scheduler.CreateSchedule(decomposition)
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	if cfg.DryRun {
		e.logPlan(decomposition, sched)
		return &models.DecompositionExecutionResult{
			OriginalTask:       decomposition.OriginalTask,
			SubtaskResults:     map[string]*models.SubtaskResult{},
			Status:             models.ExecutionDryRun,
			EstimatedSavingsMS: decomposition.EstimatedSavingsMS,
		}, nil
	}

	if !e.cumulativeTokens {
		e.ResetTokenTotals()
	}

	runCtx := ctx
	if cfg.TotalTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.TotalTimeout)
		defer cancel()
	}

	start := time.Now()
	result := &models.DecompositionExecutionResult{
		OriginalTask:       decomposition.OriginalTask,
		SubtaskResults:     make(map[string]*models.SubtaskResult, len(decomposition.Subtasks)),
		Status:             models.ExecutionCompleted,
		EstimatedSavingsMS: decomposition.EstimatedSavingsMS,
	}

	// completed only grows on success, so downstream phases gate on it.
	completed := make(map[string]bool, len(decomposition.Subtasks))

phases:
	for _, phase := range sched.Phases {
		if runCtx.Err() != nil {
			e.logger.Log("[executor] total timeout reached before phase %d", phase.Index)
			result.Status = models.ExecutionPartial
			break
		}

		if !e.scheduler.CanProceedToPhase(phase, completed, decomposition) {
			if e.scheduler.Policy() == schedule.SkipPolicyAbort {
				e.logger.Log("[executor] phase %d has unmet dependencies, aborting (policy=abort)", phase.Index)
				result.Status = models.ExecutionPartial
				break
			}
			e.logger.Log("[executor] WARNING: phase %d has unmet dependencies, skipping (policy=warn)", phase.Index)
			continue
		}

		parallel := cfg.EnableParallel && phase.CanRunParallel
		phaseResults := e.runPhase(runCtx, decomposition, phase, cfg, parallel)

		result.PhasesExecuted = phase.Index + 1
		if parallel {
			result.ParallelGroupsExecuted++
		}

		phaseFailed := false
		for _, sr := range phaseResults {
			result.SubtaskResults[sr.SubtaskID] = sr
			e.mu.Lock()
			e.totalTokens += sr.TokensUsed
			e.mu.Unlock()

			if sr.Success {
				completed[sr.SubtaskID] = true
			} else {
				phaseFailed = true
			}
		}

		if phaseFailed && cfg.FailFast {
			e.logger.Log("[executor] fail-fast stop at phase %d", phase.Index)
			result.Status = models.ExecutionPartial
			break phases
		}
	}

	result.TotalTimeMS = time.Since(start).Milliseconds()
	result.TotalTokens = e.TotalTokens()
	return result, nil
}

// runPhase executes one phase, either strictly sequentially or with one
// concurrent unit of work per member subtask joined before returning.
func (e *Executor) runPhase(ctx context.Context, decomposition *models.DecompositionResult, phase models.Phase, cfg Config, parallel bool) []*models.SubtaskResult {
	subtasks := make([]*models.Subtask, 0, len(phase.SubtaskIDs))
	for _, id := range phase.SubtaskIDs {
		if st := decomposition.Subtask(id); st != nil {
			subtasks = append(subtasks, st)
		}
	}

	if !parallel {
		results := make([]*models.SubtaskResult, 0, len(subtasks))
		for _, st := range subtasks {
			results = append(results, e.runSubtask(ctx, st, phase.Index, cfg))
		}
		return results
	}

	// Fan out one goroutine per member, join all before proceeding.
	// Workers only return values; shared state is mutated by the
	// coordinator after the join.
	sem := make(chan struct{}, maxParallel(cfg, len(subtasks)))
	resultCh := make(chan *models.SubtaskResult, len(subtasks))
	var wg sync.WaitGroup

	for _, st := range subtasks {
		wg.Add(1)
		go func(st *models.Subtask) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			resultCh <- e.runSubtask(ctx, st, phase.Index, cfg)
		}(st)
	}

	wg.Wait()
	close(resultCh)

	results := make([]*models.SubtaskResult, 0, len(subtasks))
	for sr := range resultCh {
		results = append(results, sr)
	}
	return results
}

// runSubtask launches one unit of work with an explicit deadline and
// converts every failure mode, including worker panics, into a FAILED
// result. A failed or timed-out unit never cancels its siblings.
func (e *Executor) runSubtask(ctx context.Context, subtask *models.Subtask, phaseIndex int, cfg Config) (sr *models.SubtaskResult) {
	timeout := cfg.TimeoutPerSubtask
	if subtask.TimeoutSeconds > 0 {
		timeout = time.Duration(subtask.TimeoutSeconds) * time.Second
	}

	start := time.Now()
	sr = &models.SubtaskResult{
		SubtaskID: subtask.ID,
		AgentType: subtask.AgentType,
		Status:    models.SubtaskRunning,
	}

	defer func() {
		if r := recover(); r != nil {
			sr.Success = false
			sr.Status = models.SubtaskFailed
			sr.ErrorMessage = fmt.Sprintf("worker panic: %v", r)
		}
		sr.ExecutionTimeMS = time.Since(start).Milliseconds()
	}()

	subCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		subCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := WorkRequest{
		AgentType:      subtask.AgentType,
		Prompt:         BuildPrompt(subtask),
		SubtaskID:      subtask.ID,
		PhaseIndex:     phaseIndex,
		TimeoutSeconds: int(timeout / time.Second),
	}

	resp, err := e.worker.Run(subCtx, req)

	switch {
	// The run-level deadline is checked before the subtask's own so an
	// expired total timeout is not misreported as a per-subtask timeout.
	case ctx.Err() == context.DeadlineExceeded:
		sr.Status = models.SubtaskFailed
		sr.ErrorMessage = "Aborted: total timeout reached"
	case subCtx.Err() == context.DeadlineExceeded:
		sr.Status = models.SubtaskFailed
		sr.ErrorMessage = fmt.Sprintf("Timeout after %ds", req.TimeoutSeconds)
	case err != nil:
		sr.Status = models.SubtaskFailed
		sr.ErrorMessage = err.Error()
	case resp == nil:
		sr.Status = models.SubtaskFailed
		sr.ErrorMessage = "worker returned no response"
	case !resp.Success:
		sr.Status = models.SubtaskFailed
		sr.ErrorMessage = resp.ErrorMessage
		sr.Data = resp.Data
		sr.TokensUsed = resp.TokensUsed
	default:
		sr.Success = true
		sr.Status = models.SubtaskCompleted
		sr.Data = resp.Data
		sr.TokensUsed = resp.TokensUsed
	}

	return sr
}

// logPlan writes the dry-run plan: agent types per phase and whether
// each phase runs in parallel.
func (e *Executor) logPlan(decomposition *models.DecompositionResult, sched *models.Schedule) {
	e.logger.Log("[executor] dry run: %d subtasks in %d phases (%d parallel)",
		len(decomposition.Subtasks), sched.TotalPhases, sched.ParallelPhases)
	for _, phase := range sched.Phases {
		mode := "sequential"
		if phase.CanRunParallel {
			mode = "parallel"
		}
		agents := make([]string, 0, len(phase.SubtaskIDs))
		for _, id := range phase.SubtaskIDs {
			if st := decomposition.Subtask(id); st != nil {
				agents = append(agents, fmt.Sprintf("%s:%s", id, st.AgentType))
			}
		}
		e.logger.Log("[executor]   phase %d (%s): %v", phase.Index, mode, agents)
	}
}

func maxParallel(cfg Config, phaseSize int) int {
	if cfg.MaxParallel > 0 && cfg.MaxParallel < phaseSize {
		return cfg.MaxParallel
	}
	if phaseSize < 1 {
		return 1
	}
	return phaseSize
}
