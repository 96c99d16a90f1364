// Package classify scores task descriptions into a task type and
// complexity level that drive decomposition and estimation.
package classify

import (
	"strings"
	"time"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// Classification is the result of scoring a task description.
type Classification struct {
	TaskType   models.TaskType        `json:"task_type"`
	Complexity models.ComplexityLevel `json:"complexity"`
	// Confidence is 0.0-1.0 and rises monotonically with the number of
	// matched signals.
	Confidence float64 `json:"confidence"`
	// EstimatedDuration is a coarse per-classification duration hint.
	EstimatedDuration time.Duration `json:"estimated_duration"`
	// MatchedSignals lists the keywords that contributed to the score.
	MatchedSignals []string `json:"matched_signals,omitempty"`
}

// Classifier scores descriptions against keyword signals per task type.
// Classification never fails: when nothing matches it returns a usable
// default so downstream stages always have input.
type Classifier struct {
	signals map[models.TaskType][]string
}

// New creates a Classifier with the default signal tables.
func New() *Classifier {
	return &Classifier{signals: taskTypeSignals}
}

// baseDurations is the duration hint per complexity level.
var baseDurations = map[models.ComplexityLevel]time.Duration{
	models.ComplexityTrivial:  5 * time.Minute,
	models.ComplexitySimple:   15 * time.Minute,
	models.ComplexityModerate: 45 * time.Minute,
	models.ComplexityComplex:  2 * time.Hour,
}

// Classify scores the description and context hints into a task type
// and complexity level.
func (c *Classifier) Classify(description string, context map[string]string) Classification {
	lower := strings.ToLower(description)

	bestType := models.TaskTypeImplement
	bestCount := 0
	var bestMatched []string

	// Score every category; ties keep the earlier winner so FIX beats
	// the IMPLEMENT default when both match equally.
	for _, taskType := range []models.TaskType{
		models.TaskTypeFix,
		models.TaskTypeTest,
		models.TaskTypeDocs,
		models.TaskTypeUI,
		models.TaskTypeResearch,
		models.TaskTypeImplement,
	} {
		var matched []string
		for _, keyword := range c.signals[taskType] {
			if strings.Contains(lower, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) > bestCount {
			bestType = taskType
			bestCount = len(matched)
			bestMatched = matched
		}
	}

	// Context may pin the task type outright, e.g. a UI component area.
	if area := context["component"]; area != "" {
		switch strings.ToLower(area) {
		case "ui", "editor", "panel":
			bestType = models.TaskTypeUI
		case "docs":
			bestType = models.TaskTypeDocs
		}
	}

	complexity := c.scoreComplexity(lower, context)

	return Classification{
		TaskType:          bestType,
		Complexity:        complexity,
		Confidence:        confidenceFor(bestCount),
		EstimatedDuration: baseDurations[complexity],
		MatchedSignals:    bestMatched,
	}
}

// scoreComplexity derives a complexity level from description length,
// complexity signal density, and context hints.
func (c *Classifier) scoreComplexity(lowerDesc string, context map[string]string) models.ComplexityLevel {
	score := 0

	switch {
	case len(lowerDesc) > 400:
		score += 2
	case len(lowerDesc) > 120:
		score++
	}

	for _, keyword := range complexitySignals {
		if strings.Contains(lowerDesc, keyword) {
			score++
		}
	}

	if hint := context["complexity"]; hint != "" {
		if level := models.ComplexityLevel(strings.ToLower(hint)); level.Valid() {
			return level
		}
	}
	if context["cross_component"] == "true" {
		score += 2
	}

	switch {
	case score >= 4:
		return models.ComplexityComplex
	case score >= 2:
		return models.ComplexityModerate
	case score == 1:
		return models.ComplexitySimple
	default:
		return models.ComplexityTrivial
	}
}

// confidenceFor maps a matched-signal count to a confidence value.
// More matches always means equal or higher confidence, capped at 0.95;
// zero matches yields the floor used by the default classification.
func confidenceFor(matches int) float64 {
	confidence := 0.3 + 0.15*float64(matches)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}
