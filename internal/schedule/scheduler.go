// Package schedule turns a decomposition into an ordered list of
// execution phases.
package schedule

import (
	"fmt"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/logging"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// SkipPolicy controls what happens when a phase's dependencies are not
// all satisfied at execution time.
type SkipPolicy string

const (
	// SkipPolicyWarn logs a warning and skips the phase; later
	// independent phases may still run.
	SkipPolicyWarn SkipPolicy = "warn"
	// SkipPolicyAbort treats an unschedulable phase as a hard stop.
	SkipPolicyAbort SkipPolicy = "abort"
)

// Valid returns true if the policy is a known value.
func (p SkipPolicy) Valid() bool {
	return p == SkipPolicyWarn || p == SkipPolicyAbort
}

// Scheduler builds phase schedules from decompositions using layered
// grouping: phase 0 holds subtasks with no dependencies, phase k holds
// subtasks whose dependencies are fully contained in phases 0..k-1.
type Scheduler struct {
	policy SkipPolicy
	logger *logging.DebugLogger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSkipPolicy sets the unmet-dependency phase policy.
func WithSkipPolicy(policy SkipPolicy) Option {
	return func(s *Scheduler) {
		if policy.Valid() {
			s.policy = policy
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *logging.DebugLogger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// New creates a Scheduler. The default skip policy is warn-and-skip.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		policy: SkipPolicyWarn,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured skip policy.
func (s *Scheduler) Policy() SkipPolicy {
	return s.policy
}

// CreateSchedule builds the layered phase schedule. A decomposition
// whose dependency graph cannot be layered (a cycle, or a dependency on
// an unknown subtask) is a programmer error and returns an error.
func (s *Scheduler) CreateSchedule(decomposition *models.DecompositionResult) (*models.Schedule, error) {
	known := make(map[string]*models.Subtask, len(decomposition.Subtasks))
	for _, st := range decomposition.Subtasks {
		known[st.ID] = st
	}
	for _, st := range decomposition.Subtasks {
		for _, dep := range st.Dependencies {
			if _, ok := known[dep]; !ok {
				return nil, fmt.Errorf("subtask %s depends on unknown subtask %s", st.ID, dep)
			}
		}
	}

	placed := make(map[string]bool, len(known))
	remaining := len(known)
	var phases []models.Phase

	for remaining > 0 {
		var members []string
		for _, st := range decomposition.Subtasks {
			if placed[st.ID] {
				continue
			}
			ready := true
			for _, dep := range st.Dependencies {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				members = append(members, st.ID)
			}
		}

		if len(members) == 0 {
			return nil, fmt.Errorf("dependency cycle: %d subtasks cannot be scheduled", remaining)
		}

		phases = append(phases, models.Phase{
			Index:          len(phases),
			SubtaskIDs:     members,
			CanRunParallel: parallelEligible(members, decomposition.ParallelGroups),
		})
		for _, id := range members {
			placed[id] = true
		}
		remaining -= len(members)
	}

	schedule := &models.Schedule{
		Phases:      phases,
		TotalPhases: len(phases),
	}
	for _, phase := range phases {
		if phase.CanRunParallel {
			schedule.ParallelPhases++
		} else {
			schedule.SequentialPhases++
		}
	}

	s.logger.Log("[schedule] built %d phases (%d parallel, %d sequential)",
		schedule.TotalPhases, schedule.ParallelPhases, schedule.SequentialPhases)

	return schedule, nil
}

// CanProceedToPhase reports whether every dependency referenced by the
// phase's subtasks is present in completed.
func (s *Scheduler) CanProceedToPhase(phase models.Phase, completed map[string]bool, decomposition *models.DecompositionResult) bool {
	for _, id := range phase.SubtaskIDs {
		st := decomposition.Subtask(id)
		if st == nil {
			return false
		}
		for _, dep := range st.Dependencies {
			if !completed[dep] {
				s.logger.Log("[schedule] phase %d gated: subtask %s waiting on %s", phase.Index, id, dep)
				return false
			}
		}
	}
	return true
}

// parallelEligible reports whether a phase may run concurrently: it
// needs more than one subtask and all members must belong to the same
// parallel group.
func parallelEligible(members []string, groups [][]string) bool {
	if len(members) < 2 {
		return false
	}
	for _, group := range groups {
		inGroup := make(map[string]bool, len(group))
		for _, id := range group {
			inGroup[id] = true
		}
		all := true
		for _, id := range members {
			if !inGroup[id] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
