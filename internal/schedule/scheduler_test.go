package schedule

import (
	"testing"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

func decomposition(subtasks ...*models.Subtask) *models.DecompositionResult {
	return &models.DecompositionResult{
		OriginalTask: "test task",
		Subtasks:     subtasks,
	}
}

func TestCreateScheduleCoversEverySubtaskOnce(t *testing.T) {
	d := decomposition(
		&models.Subtask{ID: "a", AgentType: models.AgentExplore},
		&models.Subtask{ID: "b", AgentType: models.AgentBuilder, Dependencies: []string{"a"}},
		&models.Subtask{ID: "c", AgentType: models.AgentBuilder, Dependencies: []string{"a"}},
		&models.Subtask{ID: "d", AgentType: models.AgentQuality, Dependencies: []string{"b", "c"}},
	)

	s := New()
	sched, err := s.CreateSchedule(d)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	seen := map[string]int{}
	for _, phase := range sched.Phases {
		for _, id := range phase.SubtaskIDs {
			seen[id]++
		}
	}
	if len(seen) != len(d.Subtasks) {
		t.Errorf("schedule covers %d subtasks, want %d", len(seen), len(d.Subtasks))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("subtask %s appears in %d phases, want 1", id, count)
		}
	}
	if sched.TotalPhases != len(sched.Phases) {
		t.Errorf("TotalPhases %d does not match phase count %d", sched.TotalPhases, len(sched.Phases))
	}
}

func TestCreateScheduleDependencyOrdering(t *testing.T) {
	d := decomposition(
		&models.Subtask{ID: "explore", AgentType: models.AgentExplore},
		&models.Subtask{ID: "build", AgentType: models.AgentBuilder, Dependencies: []string{"explore"}},
		&models.Subtask{ID: "verify", AgentType: models.AgentQuality, Dependencies: []string{"build"}},
	)

	s := New()
	sched, err := s.CreateSchedule(d)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	phaseOf := map[string]int{}
	for _, phase := range sched.Phases {
		for _, id := range phase.SubtaskIDs {
			phaseOf[id] = phase.Index
		}
	}

	for _, st := range d.Subtasks {
		for _, dep := range st.Dependencies {
			if phaseOf[st.ID] <= phaseOf[dep] {
				t.Errorf("subtask %s (phase %d) must come after dependency %s (phase %d)",
					st.ID, phaseOf[st.ID], dep, phaseOf[dep])
			}
		}
	}
}

func TestParallelEligibilityRequiresSharedGroup(t *testing.T) {
	d := decomposition(
		&models.Subtask{ID: "a", AgentType: models.AgentExplore},
		&models.Subtask{ID: "b", AgentType: models.AgentBuilder, Dependencies: []string{"a"}},
		&models.Subtask{ID: "c", AgentType: models.AgentBuilder, Dependencies: []string{"a"}},
	)

	s := New()

	// Without parallel groups, the two-builder phase stays sequential.
	sched, err := s.CreateSchedule(d)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if sched.Phases[1].CanRunParallel {
		t.Error("phase without a shared parallel group must not be parallel-eligible")
	}

	// With a shared group it becomes parallel-eligible.
	d.ParallelGroups = [][]string{{"b", "c"}}
	sched, err = s.CreateSchedule(d)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if !sched.Phases[1].CanRunParallel {
		t.Error("phase whose members share a parallel group should be parallel-eligible")
	}
	if sched.ParallelPhases != 1 || sched.SequentialPhases != 1 {
		t.Errorf("expected 1 parallel and 1 sequential phase, got %d/%d",
			sched.ParallelPhases, sched.SequentialPhases)
	}
}

func TestCreateScheduleDetectsCycle(t *testing.T) {
	d := decomposition(
		&models.Subtask{ID: "a", Dependencies: []string{"b"}},
		&models.Subtask{ID: "b", Dependencies: []string{"a"}},
	)

	if _, err := New().CreateSchedule(d); err == nil {
		t.Fatal("expected error for cyclic dependencies")
	}
}

func TestCreateScheduleUnknownDependency(t *testing.T) {
	d := decomposition(
		&models.Subtask{ID: "a", Dependencies: []string{"ghost"}},
	)

	if _, err := New().CreateSchedule(d); err == nil {
		t.Fatal("expected error for unknown dependency")
	}
}

func TestCanProceedToPhase(t *testing.T) {
	d := decomposition(
		&models.Subtask{ID: "a"},
		&models.Subtask{ID: "b", Dependencies: []string{"a"}},
	)

	s := New()
	sched, err := s.CreateSchedule(d)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	second := sched.Phases[1]
	if s.CanProceedToPhase(second, map[string]bool{}, d) {
		t.Error("phase must be gated while dependencies are incomplete")
	}
	if !s.CanProceedToPhase(second, map[string]bool{"a": true}, d) {
		t.Error("phase should proceed once dependencies completed")
	}
}

func TestSkipPolicyOption(t *testing.T) {
	if New().Policy() != SkipPolicyWarn {
		t.Error("default policy should be warn-and-skip")
	}
	if New(WithSkipPolicy(SkipPolicyAbort)).Policy() != SkipPolicyAbort {
		t.Error("abort policy should be configurable")
	}
	if New(WithSkipPolicy(SkipPolicy("bogus"))).Policy() != SkipPolicyWarn {
		t.Error("invalid policy must not override the default")
	}
}
