package loop

import (
	"testing"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

func issuesOf(severities ...models.Severity) []models.Issue {
	issues := make([]models.Issue, 0, len(severities))
	for _, s := range severities {
		issues = append(issues, models.Issue{Category: "review", Severity: s, Description: "finding"})
	}
	return issues
}

func TestCriticalAlwaysEscalates(t *testing.T) {
	m := NewManager()

	for _, iteration := range []int{0, 1, 10} {
		decision := m.ShouldContinueLoop(issuesOf(models.SeverityCritical), iteration, models.TaskTypeImplement)
		if decision.ShouldContinue {
			t.Errorf("iteration %d: critical issues must not continue", iteration)
		}
		if decision.Action != models.LoopEscalate {
			t.Errorf("iteration %d: expected escalate, got %s", iteration, decision.Action)
		}
	}
}

func TestHighAllowsExactlyOneFixAttempt(t *testing.T) {
	m := NewManager()

	first := m.ShouldContinueLoop(issuesOf(models.SeverityHigh), 0, models.TaskTypeImplement)
	if !first.ShouldContinue || first.Action != models.LoopContinue {
		t.Errorf("iteration 0 with high severity should continue, got %+v", first)
	}

	second := m.ShouldContinueLoop(issuesOf(models.SeverityHigh), 1, models.TaskTypeImplement)
	if second.ShouldContinue || second.Action != models.LoopEscalate {
		t.Errorf("iteration 1 with high severity should escalate, got %+v", second)
	}
}

func TestCriticalOutranksHigh(t *testing.T) {
	m := NewManager()

	decision := m.ShouldContinueLoop(issuesOf(models.SeverityHigh, models.SeverityCritical), 0, models.TaskTypeFix)
	if decision.ShouldContinue {
		t.Error("critical presence must outrank the high-severity fix allowance")
	}
}

func TestLowSeverityMultiRoundConvergence(t *testing.T) {
	m := NewManager()

	decision := m.ShouldContinueLoop(issuesOf(models.SeverityLow), 0, models.TaskTypeImplement)
	if !decision.ShouldContinue {
		t.Errorf("low severity at iteration 0 should continue, got %+v", decision)
	}

	decision = m.ShouldContinueLoop(issuesOf(models.SeverityMedium, models.SeverityLow), DefaultMaxIterations-1, models.TaskTypeImplement)
	if !decision.ShouldContinue {
		t.Error("medium/low should continue while under the bound")
	}

	decision = m.ShouldContinueLoop(issuesOf(models.SeverityLow), DefaultMaxIterations, models.TaskTypeImplement)
	if decision.ShouldContinue || decision.Action != models.LoopEscalate {
		t.Errorf("at the bound the loop must escalate, got %+v", decision)
	}
}

func TestDecisionMonotoneInIteration(t *testing.T) {
	m := NewManager()
	issues := issuesOf(models.SeverityHigh)

	stopped := false
	for iteration := 0; iteration < DefaultMaxIterations+3; iteration++ {
		decision := m.ShouldContinueLoop(issues, iteration, models.TaskTypeImplement)
		if stopped && decision.ShouldContinue {
			t.Fatalf("decision flipped back to continue at iteration %d", iteration)
		}
		if !decision.ShouldContinue {
			stopped = true
		}
	}
	if !stopped {
		t.Fatal("loop never stopped")
	}
}

func TestNoIssuesEndsLoop(t *testing.T) {
	decision := NewManager().ShouldContinueLoop(nil, 0, models.TaskTypeImplement)
	if decision.ShouldContinue {
		t.Error("empty issue set must not continue the loop")
	}
	if decision.Action == models.LoopEscalate {
		t.Error("empty issue set is an approval, not an escalation")
	}
}

func TestCustomMaxIterations(t *testing.T) {
	m := NewManagerWithMaxIterations(2)

	if d := m.ShouldContinueLoop(issuesOf(models.SeverityLow), 1, models.TaskTypeImplement); !d.ShouldContinue {
		t.Error("iteration under custom bound should continue")
	}
	if d := m.ShouldContinueLoop(issuesOf(models.SeverityLow), 2, models.TaskTypeImplement); d.ShouldContinue {
		t.Error("iteration at custom bound should stop")
	}

	if NewManagerWithMaxIterations(0).MaxIterations() != DefaultMaxIterations {
		t.Error("non-positive bound should fall back to the default")
	}
}
