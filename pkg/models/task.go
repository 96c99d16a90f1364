package models

// TaskType categorizes the kind of engineering work a task represents.
type TaskType string

const (
	// TaskTypeImplement is for building new functionality.
	TaskTypeImplement TaskType = "implement"
	// TaskTypeFix is for bug fixes and corrections.
	TaskTypeFix TaskType = "fix"
	// TaskTypeTest is for writing or extending tests.
	TaskTypeTest TaskType = "test"
	// TaskTypeDocs is for documentation work.
	TaskTypeDocs TaskType = "docs"
	// TaskTypeUI is for user-interface work.
	TaskTypeUI TaskType = "ui"
	// TaskTypeResearch is for exploration and investigation.
	TaskTypeResearch TaskType = "research"
)

// Valid returns true if the task type is a known value.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeImplement, TaskTypeFix, TaskTypeTest, TaskTypeDocs, TaskTypeUI, TaskTypeResearch:
		return true
	default:
		return false
	}
}

// ComplexityLevel grades how involved a task is expected to be.
type ComplexityLevel string

const (
	// ComplexityTrivial is a one-step change with no coordination.
	ComplexityTrivial ComplexityLevel = "trivial"
	// ComplexitySimple is a small change confined to one area.
	ComplexitySimple ComplexityLevel = "simple"
	// ComplexityModerate spans a few areas or layers.
	ComplexityModerate ComplexityLevel = "moderate"
	// ComplexityComplex requires cross-cutting changes and careful ordering.
	ComplexityComplex ComplexityLevel = "complex"
)

// Valid returns true if the complexity level is a known value.
func (c ComplexityLevel) Valid() bool {
	switch c {
	case ComplexityTrivial, ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return true
	default:
		return false
	}
}

// AgentType identifies which kind of agent should run a subtask.
type AgentType string

const (
	// AgentExplore investigates the codebase before changes are made.
	AgentExplore AgentType = "explore"
	// AgentBuilder performs the main implementation work.
	AgentBuilder AgentType = "builder"
	// AgentQuality reviews and verifies produced work.
	AgentQuality AgentType = "quality"
	// AgentDocs writes documentation after approval.
	AgentDocs AgentType = "docs"
)

// Valid returns true if the agent type is a known value.
func (a AgentType) Valid() bool {
	switch a {
	case AgentExplore, AgentBuilder, AgentQuality, AgentDocs:
		return true
	default:
		return false
	}
}

// Subtask is a single unit of agent work within one decomposition.
// Dependency IDs must reference subtasks in the same decomposition.
type Subtask struct {
	// ID is unique within the decomposition.
	ID string `json:"id"`
	// Title is the short description of the subtask.
	Title string `json:"title"`
	// Description provides the full prompt-worthy detail.
	Description string `json:"description,omitempty"`
	// AgentType selects the agent that should run this subtask.
	AgentType AgentType `json:"agent_type"`
	// Dependencies lists subtask IDs that must complete first.
	Dependencies []string `json:"dependencies,omitempty"`
	// TimeoutSeconds bounds this subtask's execution; 0 means the
	// executor default applies.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
	// Metadata carries free-form hints such as the functional layer.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Layer returns the functional layer hint from metadata, if present.
func (s *Subtask) Layer() string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata["layer"]
}
