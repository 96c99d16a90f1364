// Package decompose splits a classified task into dependent subtasks
// grouped into parallel-eligible sets.
package decompose

import (
	"fmt"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/classify"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// Engine turns a task description into a DecompositionResult spanning
// the functional layers implied by the task type.
type Engine struct {
	classifier *classify.Classifier
}

// New creates an Engine with a default classifier.
func New() *Engine {
	return &Engine{classifier: classify.New()}
}

// NewWithClassifier creates an Engine using the supplied classifier.
func NewWithClassifier(c *classify.Classifier) *Engine {
	return &Engine{classifier: c}
}

// Decompose splits the description into subtasks with build-order
// dependencies and computes the parallel groups and estimated savings.
func (e *Engine) Decompose(description string, context map[string]string) (*models.DecompositionResult, error) {
	classification := e.classifier.Classify(description, context)

	template, ok := taskTemplates[classification.TaskType]
	if !ok {
		template = taskTemplates[models.TaskTypeImplement]
	}
	template = pruneForComplexity(template, classification.Complexity)

	scale := complexityScale[classification.Complexity]
	if scale == 0 {
		scale = 1.0
	}

	subtasks := make([]*models.Subtask, 0, len(template))
	for _, tmpl := range template {
		estimateMS := int64(float64(agentEstimatesMS[tmpl.AgentType]) * scale)
		subtasks = append(subtasks, &models.Subtask{
			ID:             tmpl.ID,
			Title:          tmpl.Title,
			Description:    fmt.Sprintf("%s\n\nOriginal task: %s", tmpl.Title, description),
			AgentType:      tmpl.AgentType,
			Dependencies:   append([]string{}, tmpl.DependsOn...),
			TimeoutSeconds: int(estimateMS / 1000),
			Metadata: map[string]string{
				"layer": tmpl.Layer,
			},
		})
	}

	if err := validateDependencies(subtasks); err != nil {
		return nil, err
	}

	return &models.DecompositionResult{
		OriginalTask:       description,
		TaskType:           classification.TaskType,
		Complexity:         classification.Complexity,
		Subtasks:           subtasks,
		ParallelGroups:     parallelGroups(subtasks),
		EstimatedSavingsMS: estimatedSavings(subtasks, scale),
	}, nil
}

// pruneForComplexity drops the secondary build layer for trivial and
// simple tasks, rewriting dependencies that pointed at it.
func pruneForComplexity(template []subtaskTemplate, complexity models.ComplexityLevel) []subtaskTemplate {
	if complexity != models.ComplexityTrivial && complexity != models.ComplexitySimple {
		return template
	}

	dropped := map[string]bool{}
	kept := make([]subtaskTemplate, 0, len(template))
	for _, tmpl := range template {
		if tmpl.Layer == "interface" || tmpl.Layer == "bindings" {
			dropped[tmpl.ID] = true
			continue
		}
		kept = append(kept, tmpl)
	}
	if len(dropped) == 0 {
		return template
	}

	for i := range kept {
		var deps []string
		for _, dep := range kept[i].DependsOn {
			if !dropped[dep] {
				deps = append(deps, dep)
			}
		}
		kept[i].DependsOn = deps
	}
	return kept
}

// validateDependencies checks that every dependency references a
// subtask in the same decomposition. A violation is a programmer error
// in the templates, so it propagates.
func validateDependencies(subtasks []*models.Subtask) error {
	ids := make(map[string]bool, len(subtasks))
	for _, st := range subtasks {
		if ids[st.ID] {
			return fmt.Errorf("duplicate subtask id %q", st.ID)
		}
		ids[st.ID] = true
	}
	for _, st := range subtasks {
		for _, dep := range st.Dependencies {
			if !ids[dep] {
				return fmt.Errorf("subtask %q depends on unknown subtask %q", st.ID, dep)
			}
		}
	}
	return nil
}

// parallelGroups groups mutually-independent subtasks by dependency
// depth. Only depths holding more than one subtask form a group, so
// every group is parallel-eligible and groups stay disjoint.
func parallelGroups(subtasks []*models.Subtask) [][]string {
	depths := dependencyDepths(subtasks)

	byDepth := map[int][]string{}
	maxDepth := 0
	for _, st := range subtasks {
		d := depths[st.ID]
		byDepth[d] = append(byDepth[d], st.ID)
		if d > maxDepth {
			maxDepth = d
		}
	}

	var groups [][]string
	for d := 0; d <= maxDepth; d++ {
		if len(byDepth[d]) > 1 {
			groups = append(groups, byDepth[d])
		}
	}
	return groups
}

// estimatedSavings is the sequential-sum estimate minus the critical
// path through the dependency graph.
func estimatedSavings(subtasks []*models.Subtask, scale float64) int64 {
	estimates := make(map[string]int64, len(subtasks))
	var sequential int64
	for _, st := range subtasks {
		est := int64(float64(agentEstimatesMS[st.AgentType]) * scale)
		estimates[st.ID] = est
		sequential += est
	}

	byID := make(map[string]*models.Subtask, len(subtasks))
	for _, st := range subtasks {
		byID[st.ID] = st
	}

	memo := make(map[string]int64, len(subtasks))
	var pathCost func(id string) int64
	pathCost = func(id string) int64 {
		if cost, ok := memo[id]; ok {
			return cost
		}
		var longestDep int64
		for _, dep := range byID[id].Dependencies {
			if c := pathCost(dep); c > longestDep {
				longestDep = c
			}
		}
		cost := estimates[id] + longestDep
		memo[id] = cost
		return cost
	}

	var critical int64
	for _, st := range subtasks {
		if c := pathCost(st.ID); c > critical {
			critical = c
		}
	}
	return sequential - critical
}

// dependencyDepths returns each subtask's depth: 0 for no dependencies,
// otherwise one more than the deepest dependency.
func dependencyDepths(subtasks []*models.Subtask) map[string]int {
	byID := make(map[string]*models.Subtask, len(subtasks))
	for _, st := range subtasks {
		byID[st.ID] = st
	}

	depths := make(map[string]int, len(subtasks))
	var depth func(id string) int
	depth = func(id string) int {
		if d, ok := depths[id]; ok {
			return d
		}
		st := byID[id]
		d := 0
		for _, dep := range st.Dependencies {
			if dd := depth(dep) + 1; dd > d {
				d = dd
			}
		}
		depths[id] = d
		return d
	}
	for _, st := range subtasks {
		depth(st.ID)
	}
	return depths
}
