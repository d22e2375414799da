// Package analyzer extracts structured project requirements from free-text
// requests. Classification is keyword-based and fully deterministic; no
// model call is involved.
package analyzer

import (
	"errors"
	"strings"

	"github.com/agentix/studio/pkg/models"
)

// ErrEmptyInput is returned when the request text is empty or
// whitespace-only. No partial analysis is ever produced.
var ErrEmptyInput = errors.New("request text cannot be empty")

// featureKeywords maps each feature tag to the substrings that mark it
// present in a lower-cased request.
var featureKeywords = map[models.FeatureTag][]string{
	models.FeatureAuthentication: {"login", "auth", "signin", "signup", "password", "user management"},
	models.FeatureDatabase:       {"database", "db", "sql", "nosql", "storage", "persist"},
	models.FeatureAPI:            {"api", "rest", "endpoint", "service", "backend"},
	models.FeatureFrontend:       {"frontend", "ui", "interface", "react", "vue", "angular"},
	models.FeatureSecurity:       {"security", "encryption", "vulnerability", "ssl", "https"},
	models.FeatureDeployment:     {"deploy", "production", "staging", "docker", "kubernetes", "cloud"},
	models.FeatureTesting:        {"test", "testing", "unit test", "integration", "qa"},
	models.FeatureMonitoring:     {"monitor", "logging", "metrics", "analytics", "performance"},
}

var (
	urgencyHighKeywords = []string{"urgent", "asap", "immediately", "rush"}
	urgencyLowKeywords  = []string{"future", "later", "eventually"}

	complexityLowKeywords  = []string{"simple", "basic", "small", "minimal"}
	complexityHighKeywords = []string{"complex", "enterprise", "large-scale", "advanced"}

	// goalVerbs are the imperative openers that mark a sentence as a goal.
	goalVerbs = []string{"create", "build", "develop", "implement", "design"}
)

// defaultGoal is used when no sentence in the request qualifies as a goal.
const defaultGoal = "Develop the requested application"

// Analyzer turns a free-text project request into a ProjectAnalysis.
// The zero value is not usable; call New.
type Analyzer struct{}

// New creates a requirement analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze parses a project request into a structured analysis.
// Calling it twice with identical text yields identical results.
func (a *Analyzer) Analyze(text string) (*models.ProjectAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	lower := strings.ToLower(text)

	var features []models.FeatureTag
	for _, tag := range models.AllFeatureTags {
		if containsAny(lower, featureKeywords[tag]) {
			features = append(features, tag)
		}
	}

	// High urgency wins when both high and low keywords appear.
	urgency := models.UrgencyNormal
	switch {
	case containsAny(lower, urgencyHighKeywords):
		urgency = models.UrgencyHigh
	case containsAny(lower, urgencyLowKeywords):
		urgency = models.UrgencyLow
	}

	complexity := models.ComplexityMedium
	switch {
	case containsAny(lower, complexityLowKeywords):
		complexity = models.ComplexityLow
	case containsAny(lower, complexityHighKeywords):
		complexity = models.ComplexityHigh
	}

	return &models.ProjectAnalysis{
		Goals:        extractGoals(text),
		Features:     features,
		Urgency:      urgency,
		Complexity:   complexity,
		OriginalText: text,
	}, nil
}

// extractGoals splits the request on sentence boundaries and keeps the
// sentences that read as imperatives or need statements.
func extractGoals(text string) []string {
	var goals []string
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		if startsWithAny(lower, goalVerbs) ||
			strings.Contains(lower, "need") || strings.Contains(lower, "want") {
			goals = append(goals, sentence)
		}
	}
	if len(goals) == 0 {
		goals = []string{defaultGoal}
	}
	return goals
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
