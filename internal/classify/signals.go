package classify

import "github.com/omerlefaruk/CasareRPA-sub022/pkg/models"

// taskTypeSignals is the single source of truth for classification
// keywords. Each keyword that appears in a task description counts as
// one matched signal for its task type.
var taskTypeSignals = map[models.TaskType][]string{
	models.TaskTypeFix: {
		"fix",
		"bug",
		"broken",
		"crash",
		"regression",
		"error",
		"incorrect",
		"fails",
	},
	models.TaskTypeTest: {
		"test",
		"coverage",
		"unit test",
		"integration test",
		"assertion",
		"flaky",
	},
	models.TaskTypeDocs: {
		"docs",
		"documentation",
		"readme",
		"changelog",
		"comment",
		"guide",
	},
	models.TaskTypeUI: {
		"ui",
		"screen",
		"panel",
		"dialog",
		"button",
		"layout",
		"widget",
		"style",
	},
	models.TaskTypeResearch: {
		"research",
		"investigate",
		"explore",
		"analyze",
		"compare",
		"evaluate",
		"spike",
	},
	models.TaskTypeImplement: {
		"implement",
		"add",
		"build",
		"create",
		"support",
		"feature",
		"integrate",
		"extend",
	},
}

// complexitySignals indicate work that spans layers or requires careful
// ordering. Each match nudges complexity upward.
var complexitySignals = []string{
	"migration",
	"refactor",
	"concurrent",
	"parallel",
	"distributed",
	"schema",
	"protocol",
	"architecture",
	"cross-cutting",
	"security",
}
