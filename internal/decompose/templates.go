package decompose

import "github.com/omerlefaruk/CasareRPA-sub022/pkg/models"

// subtaskTemplate describes one subtask in a task-type template before
// it is bound to a concrete request.
type subtaskTemplate struct {
	ID        string
	Title     string
	AgentType models.AgentType
	// DependsOn references template IDs within the same template.
	DependsOn []string
	// Layer is the functional layer recorded in subtask metadata.
	Layer string
}

// taskTemplates maps each task type to the functional layers its
// decomposition spans. Dependencies reflect real build order: explore
// before build, build before verify, verify before review.
var taskTemplates = map[models.TaskType][]subtaskTemplate{
	models.TaskTypeImplement: {
		{ID: "explore", Title: "Explore affected code", AgentType: models.AgentExplore, Layer: "analysis"},
		{ID: "build-core", Title: "Implement core logic", AgentType: models.AgentBuilder, DependsOn: []string{"explore"}, Layer: "core"},
		{ID: "build-interface", Title: "Implement interface layer", AgentType: models.AgentBuilder, DependsOn: []string{"explore"}, Layer: "interface"},
		{ID: "verify", Title: "Verify with tests", AgentType: models.AgentQuality, DependsOn: []string{"build-core", "build-interface"}, Layer: "verification"},
		{ID: "review", Title: "Review changes", AgentType: models.AgentQuality, DependsOn: []string{"verify"}, Layer: "review"},
	},
	models.TaskTypeFix: {
		{ID: "explore", Title: "Diagnose the failure", AgentType: models.AgentExplore, Layer: "analysis"},
		{ID: "fix", Title: "Apply the fix", AgentType: models.AgentBuilder, DependsOn: []string{"explore"}, Layer: "core"},
		{ID: "verify", Title: "Verify the fix", AgentType: models.AgentQuality, DependsOn: []string{"fix"}, Layer: "verification"},
		{ID: "review", Title: "Review the fix", AgentType: models.AgentQuality, DependsOn: []string{"verify"}, Layer: "review"},
	},
	models.TaskTypeTest: {
		{ID: "explore", Title: "Map untested behavior", AgentType: models.AgentExplore, Layer: "analysis"},
		{ID: "write-tests", Title: "Write tests", AgentType: models.AgentBuilder, DependsOn: []string{"explore"}, Layer: "verification"},
		{ID: "review", Title: "Review test quality", AgentType: models.AgentQuality, DependsOn: []string{"write-tests"}, Layer: "review"},
	},
	models.TaskTypeDocs: {
		{ID: "explore", Title: "Collect current behavior", AgentType: models.AgentExplore, Layer: "analysis"},
		{ID: "write-docs", Title: "Write documentation", AgentType: models.AgentDocs, DependsOn: []string{"explore"}, Layer: "docs"},
		{ID: "review", Title: "Review documentation", AgentType: models.AgentQuality, DependsOn: []string{"write-docs"}, Layer: "review"},
	},
	models.TaskTypeUI: {
		{ID: "explore", Title: "Survey affected screens", AgentType: models.AgentExplore, Layer: "analysis"},
		{ID: "build-view", Title: "Build the view", AgentType: models.AgentBuilder, DependsOn: []string{"explore"}, Layer: "view"},
		{ID: "build-bindings", Title: "Wire view bindings", AgentType: models.AgentBuilder, DependsOn: []string{"explore"}, Layer: "bindings"},
		{ID: "verify", Title: "Verify interactions", AgentType: models.AgentQuality, DependsOn: []string{"build-view", "build-bindings"}, Layer: "verification"},
		{ID: "review", Title: "Review UI changes", AgentType: models.AgentQuality, DependsOn: []string{"verify"}, Layer: "review"},
	},
	models.TaskTypeResearch: {
		{ID: "gather", Title: "Gather sources", AgentType: models.AgentExplore, Layer: "analysis"},
		{ID: "analyze", Title: "Analyze findings", AgentType: models.AgentExplore, DependsOn: []string{"gather"}, Layer: "analysis"},
		{ID: "summarize", Title: "Summarize recommendation", AgentType: models.AgentDocs, DependsOn: []string{"analyze"}, Layer: "docs"},
	},
}

// agentEstimatesMS is the per-subtask sequential duration estimate in
// milliseconds, keyed by agent type. Used for savings calculation.
var agentEstimatesMS = map[models.AgentType]int64{
	models.AgentExplore: 5 * 60 * 1000,
	models.AgentBuilder: 15 * 60 * 1000,
	models.AgentQuality: 8 * 60 * 1000,
	models.AgentDocs:    6 * 60 * 1000,
}

// complexityScale scales subtask timeouts by complexity.
var complexityScale = map[models.ComplexityLevel]float64{
	models.ComplexityTrivial:  0.5,
	models.ComplexitySimple:   1.0,
	models.ComplexityModerate: 1.5,
	models.ComplexityComplex:  2.5,
}
