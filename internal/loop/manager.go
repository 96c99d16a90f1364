// Package loop decides whether a review loop keeps fixing or escalates
// to a human, and drives the chain-level fix/review cycle.
package loop

import (
	"fmt"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// DefaultMaxIterations bounds multi-round convergence when only
// medium or low severity issues remain.
const DefaultMaxIterations = 5

// highSeverityFixAttempts is how many fix rounds a high severity issue
// is granted before escalation.
const highSeverityFixAttempts = 1

// Manager applies the severity precedence rule over a review's issue
// set. Decisions are monotone in the iteration count: once the loop
// stops for a fixed issue set it stays stopped.
type Manager struct {
	maxIterations int
}

// NewManager creates a Manager with the default iteration bound.
func NewManager() *Manager {
	return &Manager{maxIterations: DefaultMaxIterations}
}

// NewManagerWithMaxIterations creates a Manager with a custom bound for
// medium/low convergence. Non-positive values fall back to the default.
func NewManagerWithMaxIterations(max int) *Manager {
	if max <= 0 {
		max = DefaultMaxIterations
	}
	return &Manager{maxIterations: max}
}

// MaxIterations returns the medium/low iteration bound.
func (m *Manager) MaxIterations() int {
	return m.maxIterations
}

// ShouldContinueLoop decides, from the issue set's highest severity and
// the current iteration, whether to keep fixing or escalate.
//
// Precedence:
//   - CRITICAL present: escalate regardless of iteration.
//   - HIGH present (no CRITICAL): exactly one fix attempt, then escalate.
//   - Only MEDIUM/LOW: continue through the larger default bound.
//   - No issues: the loop ends approved; that state belongs to the
//     caller, so the decision simply reports nothing left to do.
func (m *Manager) ShouldContinueLoop(issues []models.Issue, iteration int, taskType models.TaskType) models.LoopDecision {
	decision := models.LoopDecision{
		CurrentIteration: iteration,
		MaxIterations:    m.maxIterations,
	}

	if len(issues) == 0 {
		decision.Reason = "no issues remain"
		return decision
	}

	switch models.HighestSeverity(issues) {
	case models.SeverityCritical:
		decision.Action = models.LoopEscalate
		decision.Reason = "critical issue present"
	case models.SeverityHigh:
		if iteration < highSeverityFixAttempts {
			decision.ShouldContinue = true
			decision.Action = models.LoopContinue
			decision.Reason = "high severity: one fix attempt allowed"
		} else {
			decision.Action = models.LoopEscalate
			decision.Reason = fmt.Sprintf("high severity unresolved after %d attempt(s)", iteration)
		}
	default:
		if iteration < m.maxIterations {
			decision.ShouldContinue = true
			decision.Action = models.LoopContinue
			decision.Reason = "cosmetic issues: multi-round convergence"
		} else {
			decision.Action = models.LoopEscalate
			decision.Reason = fmt.Sprintf("no convergence after %d iterations", iteration)
		}
	}

	return decision
}
