package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/config"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/cost"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/executor"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/logging"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/loop"
	"github.com/omerlefaruk/CasareRPA-sub022/internal/schedule"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

var (
	runFailFast      bool
	runDryRun        bool
	runNoParallel    bool
	runMaxParallel   int
	runTimeout       time.Duration
	runTotalTimeout  time.Duration
	runMaxIterations int
	runComponent     string
	runAbortOnSkip   bool
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run a task chain end to end",
	Long: `Run a task through the full chain: classify, decompose into
dependent subtasks, execute phase by phase, then review and re-run the
fix phases until the result is approved or escalated.

Without a configured worker the chain runs in deterministic simulation
mode, which exercises the full scheduling and loop machinery.

Phases containing mutually-independent subtasks fan out concurrently
up to --max-parallel. Use --no-parallel to force strictly sequential
execution.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().BoolVar(&runFailFast, "fail-fast", false, "Abort remaining phases on the first subtask failure")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Plan only, never invoke the worker")
	runCmd.Flags().BoolVar(&runNoParallel, "no-parallel", false, "Run every phase strictly sequentially")
	runCmd.Flags().IntVar(&runMaxParallel, "max-parallel", 0, "Cap concurrent subtasks within a parallel phase")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-subtask timeout (default from config)")
	runCmd.Flags().DurationVar(&runTotalTimeout, "total-timeout", 0, "Whole-chain timeout (0 = unbounded)")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Fix loop iteration bound (default from config)")
	runCmd.Flags().StringVar(&runComponent, "component", "", "Component area hint for classification")
	runCmd.Flags().BoolVar(&runAbortOnSkip, "abort-on-skip", false, "Abort instead of skipping phases with unmet dependencies")
}

func runTask(cmd *cobra.Command, args []string) error {
	description := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	execCfg := executorConfig(cmd, cfg)
	logger := debugLogger(cfg)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainID := uuid.New().String()[:8]
	logger.Log("[run] chain %s: %s", chainID, description)

	runner := loop.NewRunner(
		loop.WithExecutor(buildExecutor(cmd, cfg, logger)),
		loop.WithManager(loopManager(cmd, cfg)),
		loop.WithLogger(logger),
	)

	var taskContext map[string]string
	if runComponent != "" {
		taskContext = map[string]string{"component": runComponent}
	}

	result, err := runner.Run(ctx, description, execCfg, taskContext)
	if err != nil {
		return fmt.Errorf("run chain %s: %w", chainID, err)
	}

	printChainResult(chainID, result)

	if !execCfg.DryRun {
		recordChainUsage(chainID, cfg.Cost.DefaultModel, result.Execution)
	}
	return nil
}

// executorConfig merges the loaded config with any flags the user set.
func executorConfig(cmd *cobra.Command, cfg *config.Config) executor.Config {
	out := executor.Config{
		FailFast:          cfg.Executor.FailFast,
		MaxParallel:       cfg.Executor.MaxParallel,
		TimeoutPerSubtask: cfg.Executor.TimeoutPerSubtask,
		TotalTimeout:      cfg.Executor.TotalTimeout,
		EnableParallel:    cfg.Executor.EnableParallel,
	}

	if cmd.Flags().Changed("fail-fast") {
		out.FailFast = runFailFast
	}
	if cmd.Flags().Changed("max-parallel") {
		out.MaxParallel = runMaxParallel
	}
	if cmd.Flags().Changed("timeout") {
		out.TimeoutPerSubtask = runTimeout
	}
	if cmd.Flags().Changed("total-timeout") {
		out.TotalTimeout = runTotalTimeout
	}
	if runNoParallel {
		out.EnableParallel = false
	}
	out.DryRun = runDryRun
	return out
}

func buildExecutor(cmd *cobra.Command, cfg *config.Config, logger *logging.DebugLogger) *executor.Executor {
	policy := schedule.SkipPolicy(cfg.Scheduler.SkipPolicy)
	if runAbortOnSkip {
		policy = schedule.SkipPolicyAbort
	}

	opts := []executor.Option{
		executor.WithLogger(logger),
		executor.WithScheduler(schedule.New(
			schedule.WithSkipPolicy(policy),
			schedule.WithLogger(logger),
		)),
	}
	if cfg.Executor.CumulativeTokens {
		opts = append(opts, executor.WithCumulativeTokens())
	}
	return executor.New(opts...)
}

func loopManager(cmd *cobra.Command, cfg *config.Config) *loop.Manager {
	maxIterations := cfg.Loop.MaxIterations
	if cmd.Flags().Changed("max-iterations") {
		maxIterations = runMaxIterations
	}
	return loop.NewManagerWithMaxIterations(maxIterations)
}

func debugLogger(cfg *config.Config) *logging.DebugLogger {
	if cfg.Logging.DebugLog == "" {
		return logging.Nop()
	}
	logger, err := logging.NewDebugLogger(cfg.Logging.DebugLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
		return logging.Nop()
	}
	return logger
}

func printChainResult(chainID string, result *loop.ChainResult) {
	switch result.Status {
	case models.ChainCompleted:
		fmt.Printf("%s Chain %s completed", color.GreenString("✓"), chainID)
	case models.ChainEscalated:
		fmt.Printf("%s Chain %s escalated to human review", color.RedString("✗"), chainID)
	default:
		fmt.Printf("%s Chain %s: %s", color.YellowString("⚠"), chainID, result.Status)
	}
	if result.Iterations > 0 {
		fmt.Printf(" after %d fix iteration(s)", result.Iterations)
	}
	fmt.Println()

	exec := result.Execution
	if exec == nil {
		return
	}
	if exec.Status == models.ExecutionDryRun {
		fmt.Println("  dry run: plan computed, no worker invoked")
		return
	}

	fmt.Printf("  status: %s, phases: %d, parallel groups: %d\n",
		exec.Status, exec.PhasesExecuted, exec.ParallelGroupsExecuted)
	fmt.Printf("  wall clock: %dms, tokens: %d", exec.TotalTimeMS, exec.TotalTokens)
	if exec.EstimatedSavingsMS > 0 {
		fmt.Printf(", estimated parallel savings: %dms", exec.EstimatedSavingsMS)
	}
	fmt.Println()

	for _, issue := range result.Issues {
		fmt.Printf("  %s [%s] %s\n", color.RedString("issue:"), issue.Severity, issue.Description)
	}
}

// recordChainUsage books the run's token usage into a tracker and
// prints the priced aggregate.
func recordChainUsage(chainID, model string, exec *models.DecompositionExecutionResult) {
	if exec == nil || len(exec.SubtaskResults) == 0 {
		return
	}

	tracker := cost.NewTracker()
	for _, sr := range exec.SubtaskResults {
		// Simulation reports a single token count per subtask; book it
		// as output tokens.
		tracker.RecordUsage(chainID, sr.AgentType, model, 0, sr.TokensUsed, sr.ExecutionTimeMS)
	}

	chainCost := tracker.GetChainCost(chainID)
	fmt.Printf("  cost: %d tokens, $%.4f estimated\n", chainCost.TotalTokens, chainCost.EstimatedCost)
}
