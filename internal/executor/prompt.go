package executor

import (
	"fmt"
	"strings"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// BuildPrompt renders the worker prompt for a subtask. The layer line
// is omitted when the subtask carries no layer metadata.
func BuildPrompt(subtask *models.Subtask) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Task: %s\n\n%s", subtask.Title, subtask.Description)
	if layer := subtask.Layer(); layer != "" {
		fmt.Fprintf(&b, "\n\n## Layer: %s", layer)
	}
	return b.String()
}
