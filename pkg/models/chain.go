package models

// ChainStatus represents the lifecycle state of a task chain.
// Updates are last-write-wins.
type ChainStatus string

const (
	// ChainPending indicates the chain has not started.
	ChainPending ChainStatus = "pending"
	// ChainRunning indicates the chain is executing.
	ChainRunning ChainStatus = "running"
	// ChainCompleted indicates the chain finished and was approved.
	ChainCompleted ChainStatus = "completed"
	// ChainEscalated indicates the chain was handed back to a human.
	ChainEscalated ChainStatus = "escalated"
	// ChainFailed indicates the chain failed outright.
	ChainFailed ChainStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s ChainStatus) Valid() bool {
	switch s {
	case ChainPending, ChainRunning, ChainCompleted, ChainEscalated, ChainFailed:
		return true
	default:
		return false
	}
}

// DependencyType describes the relationship between two chains.
type DependencyType string

// DependencyBlockedBy means the source chain cannot start until the
// target chain has completed.
const DependencyBlockedBy DependencyType = "blocked_by"

// Dependency is one cross-chain dependency edge.
type Dependency struct {
	TargetChainID string         `json:"target_chain_id" yaml:"target_chain_id"`
	Type          DependencyType `json:"type" yaml:"type"`
	Reason        string         `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ChainSpec declares one end-to-end task chain and its relationships
// to other chains.
type ChainSpec struct {
	// ChainID is unique across the registry.
	ChainID     string   `json:"chain_id" yaml:"chain_id"`
	TaskType    TaskType `json:"task_type" yaml:"task_type"`
	Description string   `json:"description" yaml:"description"`
	// Provides names the features this chain delivers.
	Provides []string `json:"provides,omitempty" yaml:"provides,omitempty"`
	// DependsOn lists chains that must complete before this one starts.
	DependsOn []Dependency `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Wave is a group of mutually-independent chains that a caller may
// dispatch concurrently.
type Wave struct {
	Index    int      `json:"index"`
	ChainIDs []string `json:"chain_ids"`
}

// ExecutionOrder is the result of ordering a set of chains.
type ExecutionOrder struct {
	// Strategy is the ordering strategy that produced this result.
	Strategy string `json:"strategy"`
	// Sequence is a linear order respecting all blocked_by edges.
	Sequence []string `json:"sequence"`
	// Waves groups the same partial order for concurrent dispatch.
	// Populated only for the "parallel" strategy.
	Waves []Wave `json:"waves,omitempty"`
}
