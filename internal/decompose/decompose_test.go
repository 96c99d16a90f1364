package decompose

import (
	"testing"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

func TestDecomposeImplementLayers(t *testing.T) {
	engine := New()

	result, err := engine.Decompose("implement a new export feature with a concurrent pipeline and schema changes", nil)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}

	if result.TaskType != models.TaskTypeImplement {
		t.Errorf("expected implement task type, got %s", result.TaskType)
	}

	seen := map[string]bool{}
	for _, st := range result.Subtasks {
		if seen[st.ID] {
			t.Errorf("duplicate subtask id %q", st.ID)
		}
		seen[st.ID] = true
	}

	for _, id := range []string{"explore", "build-core", "build-interface", "verify", "review"} {
		if !seen[id] {
			t.Errorf("missing expected subtask %q", id)
		}
	}
}

func TestDecomposeDependenciesWithinResult(t *testing.T) {
	engine := New()

	for _, desc := range []string{
		"fix the crash in the runner",
		"add unit test coverage",
		"update the readme",
		"investigate caching strategies",
	} {
		result, err := engine.Decompose(desc, nil)
		if err != nil {
			t.Fatalf("decompose %q: %v", desc, err)
		}

		ids := map[string]bool{}
		for _, st := range result.Subtasks {
			ids[st.ID] = true
		}
		for _, st := range result.Subtasks {
			for _, dep := range st.Dependencies {
				if !ids[dep] {
					t.Errorf("%q: subtask %s references unknown dependency %s", desc, st.ID, dep)
				}
			}
		}
	}
}

func TestParallelGroupsDisjointAndIndependent(t *testing.T) {
	engine := New()

	result, err := engine.Decompose("implement a distributed concurrent importer across the protocol and schema layers", nil)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}

	if len(result.ParallelGroups) == 0 {
		t.Fatal("expected at least one parallel group for a complex implement task")
	}

	deps := map[string]map[string]bool{}
	for _, st := range result.Subtasks {
		deps[st.ID] = map[string]bool{}
		for _, dep := range st.Dependencies {
			deps[st.ID][dep] = true
		}
	}

	membership := map[string]int{}
	for gi, group := range result.ParallelGroups {
		for _, id := range group {
			if prev, ok := membership[id]; ok {
				t.Errorf("subtask %s appears in groups %d and %d", id, prev, gi)
			}
			membership[id] = gi
		}
		// No mutual dependency within a group.
		for _, a := range group {
			for _, b := range group {
				if a != b && (deps[a][b] || deps[b][a]) {
					t.Errorf("group %d contains dependent pair %s, %s", gi, a, b)
				}
			}
		}
	}
}

func TestEstimatedSavingsPositiveWhenParallelizable(t *testing.T) {
	engine := New()

	result, err := engine.Decompose("implement concurrent distributed schema migration architecture work", nil)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if result.EstimatedSavingsMS <= 0 {
		t.Errorf("expected positive savings for a decomposition with parallel builders, got %d", result.EstimatedSavingsMS)
	}
}

func TestTrivialTaskPrunesSecondaryBuilder(t *testing.T) {
	engine := New()

	result, err := engine.Decompose("add flag", nil)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}

	for _, st := range result.Subtasks {
		if st.ID == "build-interface" {
			t.Error("trivial tasks should not include the interface build layer")
		}
	}
	// Sequential chain means no savings.
	if result.EstimatedSavingsMS != 0 {
		t.Errorf("expected zero savings for a sequential chain, got %d", result.EstimatedSavingsMS)
	}
}
