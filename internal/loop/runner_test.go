package loop

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/executor"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

func TestRunApprovedFirstPass(t *testing.T) {
	r := NewRunner() // nil reviewer approves immediately

	result, err := r.Run(context.Background(), "implement a new export feature", executor.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != models.ChainCompleted {
		t.Errorf("expected completed chain, got %s", result.Status)
	}
	if result.Iterations != 0 {
		t.Errorf("expected no fix iterations, got %d", result.Iterations)
	}
	if !result.DocumentationRan {
		t.Error("documentation phase should run after approval")
	}
}

func TestRunFixLoopConvergence(t *testing.T) {
	var reviews int32
	reviewer := ReviewerFunc(func(ctx context.Context, result *models.DecompositionExecutionResult) ([]models.Issue, error) {
		if atomic.AddInt32(&reviews, 1) == 1 {
			return []models.Issue{{Category: "style", Severity: models.SeverityLow, Description: "nit"}}, nil
		}
		return nil, nil
	})

	r := NewRunner(WithReviewer(reviewer))
	result, err := r.Run(context.Background(), "implement a feature", executor.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != models.ChainCompleted {
		t.Errorf("expected completed chain after one fix round, got %s", result.Status)
	}
	if result.Iterations != 1 {
		t.Errorf("expected exactly one fix iteration, got %d", result.Iterations)
	}
	// Fix passes must not repeat the one-time exploration phase.
	if _, reran := result.Execution.SubtaskResults["explore"]; reran {
		t.Error("exploration phase must not re-run during fix passes")
	}
}

func TestRunEscalatesOnCritical(t *testing.T) {
	critical := []models.Issue{{
		Category:    "correctness",
		Severity:    models.SeverityCritical,
		Description: "data loss on retry",
	}}
	reviewer := ReviewerFunc(func(ctx context.Context, result *models.DecompositionExecutionResult) ([]models.Issue, error) {
		return critical, nil
	})

	r := NewRunner(WithReviewer(reviewer))
	result, err := r.Run(context.Background(), "implement a feature", executor.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != models.ChainEscalated {
		t.Errorf("expected escalated chain, got %s", result.Status)
	}
	if len(result.Issues) != 1 || result.Issues[0].Description != "data loss on retry" {
		t.Errorf("escalation must preserve the triggering issues, got %+v", result.Issues)
	}
	if result.Execution.Status != models.ExecutionEscalated {
		t.Errorf("execution status should reflect escalation, got %s", result.Execution.Status)
	}
	if result.DocumentationRan {
		t.Error("documentation must never run after escalation")
	}
}

func TestRunHighSeverityEscalatesAfterOneAttempt(t *testing.T) {
	high := []models.Issue{{Category: "bug", Severity: models.SeverityHigh, Description: "broken edge case"}}
	reviewer := ReviewerFunc(func(ctx context.Context, result *models.DecompositionExecutionResult) ([]models.Issue, error) {
		return high, nil // never converges
	})

	r := NewRunner(WithReviewer(reviewer))
	result, err := r.Run(context.Background(), "implement a feature", executor.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != models.ChainEscalated {
		t.Errorf("expected escalated chain, got %s", result.Status)
	}
	if result.Iterations != 1 {
		t.Errorf("high severity grants exactly one fix attempt, got %d iterations", result.Iterations)
	}
}

func TestResearchChainSkipsDocumentation(t *testing.T) {
	r := NewRunner()

	result, err := r.Run(context.Background(), "investigate and compare caching strategies", executor.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != models.ChainCompleted {
		t.Errorf("expected completed chain, got %s", result.Status)
	}
	if result.DocumentationRan {
		t.Error("research chains must not run the documentation phase")
	}
}

func TestDryRunReturnsPlanOnly(t *testing.T) {
	var reviews int32
	reviewer := ReviewerFunc(func(ctx context.Context, result *models.DecompositionExecutionResult) ([]models.Issue, error) {
		atomic.AddInt32(&reviews, 1)
		return nil, nil
	})

	cfg := executor.DefaultConfig()
	cfg.DryRun = true

	r := NewRunner(WithReviewer(reviewer))
	result, err := r.Run(context.Background(), "implement a feature", cfg, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Execution.Status != models.ExecutionDryRun {
		t.Errorf("expected dry_run execution, got %s", result.Execution.Status)
	}
	if atomic.LoadInt32(&reviews) != 0 {
		t.Error("dry run must not invoke the reviewer")
	}
}
