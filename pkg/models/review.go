package models

// Severity grades how serious a review issue is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns a numeric ordering for severity comparison. Higher is
// more severe; unknown severities rank below low so they degrade
// instead of escalating.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Issue is a single finding from a review step.
type Issue struct {
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	FilePath    string   `json:"file_path,omitempty"`
	Line        int      `json:"line,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// HighestSeverity returns the most severe level present in the issue
// set, or the empty severity when there are no issues.
func HighestSeverity(issues []Issue) Severity {
	var highest Severity
	for _, issue := range issues {
		if issue.Severity.Rank() > highest.Rank() {
			highest = issue.Severity
		}
	}
	return highest
}

// LoopAction is the decision made after a review iteration.
type LoopAction string

const (
	// LoopContinue re-enters the fix phases for another iteration.
	LoopContinue LoopAction = "continue"
	// LoopEscalate stops the loop and hands control to a human.
	LoopEscalate LoopAction = "escalate"
)

// LoopDecision is the structured output of the loop manager.
type LoopDecision struct {
	ShouldContinue   bool       `json:"should_continue"`
	Action           LoopAction `json:"action"`
	CurrentIteration int        `json:"current_iteration"`
	MaxIterations    int        `json:"max_iterations"`
	// Reason summarizes why the decision was made.
	Reason string `json:"reason,omitempty"`
}
