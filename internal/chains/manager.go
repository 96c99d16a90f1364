// Package chains tracks dependencies between whole task chains and
// computes safe execution order across them.
package chains

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/logging"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// ErrCycleDetected indicates a circular blocked_by relationship among
// the requested chains.
var ErrCycleDetected = errors.New("circular chain dependency detected")

// ErrUnknownChain indicates an operation referenced an unregistered
// chain.
var ErrUnknownChain = errors.New("unknown chain")

// Ordering strategies accepted by ExecutionOrder.
const (
	StrategyTopological = "topological"
	StrategyParallel    = "parallel"
)

// Manager is the process-wide registry of chain specs and statuses.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	specs    map[string]*models.ChainSpec
	statuses map[string]models.ChainStatus
	logger   *logging.DebugLogger
}

// NewManager creates an empty chain registry.
func NewManager() *Manager {
	return &Manager{
		specs:    make(map[string]*models.ChainSpec),
		statuses: make(map[string]models.ChainStatus),
		logger:   logging.Nop(),
	}
}

// SetLogger sets the debug logger.
func (m *Manager) SetLogger(l *logging.DebugLogger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l != nil {
		m.logger = l
	}
}

// RegisterChain stores the spec with status pending. Registering the
// same chain ID twice is a programmer error.
func (m *Manager) RegisterChain(spec *models.ChainSpec) error {
	if spec == nil || spec.ChainID == "" {
		return fmt.Errorf("chain spec must carry a chain_id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.specs[spec.ChainID]; exists {
		return fmt.Errorf("chain %s already registered", spec.ChainID)
	}

	m.specs[spec.ChainID] = spec
	m.statuses[spec.ChainID] = models.ChainPending
	m.logger.Log("[chains] registered %s (%d dependencies)", spec.ChainID, len(spec.DependsOn))
	return nil
}

// CanStart reports whether every blocked_by dependency of the chain
// points to a completed chain. The second return value lists the chain
// IDs still blocking.
func (m *Manager) CanStart(chainID string) (bool, []string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	spec, ok := m.specs[chainID]
	if !ok {
		return false, nil, fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}

	var blocking []string
	for _, dep := range spec.DependsOn {
		if dep.Type != models.DependencyBlockedBy {
			continue
		}
		if m.statuses[dep.TargetChainID] != models.ChainCompleted {
			blocking = append(blocking, dep.TargetChainID)
		}
	}

	return len(blocking) == 0, blocking, nil
}

// UpdateChainStatus overwrites the chain's status. The update is
// idempotent and last-write-wins.
func (m *Manager) UpdateChainStatus(chainID string, status models.ChainStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid chain status %q", status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.specs[chainID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	m.statuses[chainID] = status
	m.logger.Log("[chains] %s -> %s", chainID, status)
	return nil
}

// Status returns the chain's current status.
func (m *Manager) Status(chainID string) (models.ChainStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statuses[chainID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	return status, nil
}

// Spec returns the registered spec for a chain.
func (m *Manager) Spec(chainID string) (*models.ChainSpec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	spec, ok := m.specs[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	return spec, nil
}

// ChainIDs returns all registered chain IDs in sorted order.
func (m *Manager) ChainIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.specs))
	for id := range m.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExecutionOrder computes an order for the given chains respecting all
// blocked_by edges among them. Dependencies on chains outside the
// requested set do not affect the ordering; CanStart gates those at
// dispatch time.
//
// The "topological" strategy returns a linear sequence. The "parallel"
// strategy returns the same partial order plus wave markers grouping
// mutually-independent chains for concurrent dispatch.
func (m *Manager) ExecutionOrder(chainIDs []string, strategy string) (*models.ExecutionOrder, error) {
	if strategy != StrategyTopological && strategy != StrategyParallel {
		return nil, fmt.Errorf("unknown ordering strategy %q", strategy)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	inSet := make(map[string]bool, len(chainIDs))
	for _, id := range chainIDs {
		if _, ok := m.specs[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownChain, id)
		}
		inSet[id] = true
	}

	// Kahn's algorithm over the blocked_by edges, with sorted ready
	// sets so the result is deterministic.
	blockedBy := make(map[string][]string, len(chainIDs))
	indegree := make(map[string]int, len(chainIDs))
	for _, id := range chainIDs {
		indegree[id] = 0
	}
	for _, id := range chainIDs {
		for _, dep := range m.specs[id].DependsOn {
			if dep.Type != models.DependencyBlockedBy || !inSet[dep.TargetChainID] {
				continue
			}
			blockedBy[id] = append(blockedBy[id], dep.TargetChainID)
			indegree[id]++
		}
	}

	dependents := make(map[string][]string, len(chainIDs))
	for id, deps := range blockedBy {
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	order := &models.ExecutionOrder{Strategy: strategy}
	remaining := len(chainIDs)

	var ready []string
	for _, id := range chainIDs {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	waveIndex := 0
	for len(ready) > 0 {
		wave := ready
		ready = nil

		if strategy == StrategyParallel {
			order.Waves = append(order.Waves, models.Wave{Index: waveIndex, ChainIDs: wave})
		}
		waveIndex++

		for _, id := range wave {
			order.Sequence = append(order.Sequence, id)
			remaining--
			for _, dependent := range dependents[id] {
				indegree[dependent]--
				if indegree[dependent] == 0 {
					ready = append(ready, dependent)
				}
			}
		}
		sort.Strings(ready)
	}

	if remaining > 0 {
		return nil, ErrCycleDetected
	}
	return order, nil
}
