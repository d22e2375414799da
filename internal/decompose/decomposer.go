package decompose

import (
	"strings"

	"github.com/agentix/studio/pkg/models"
)

// backendFeatures are the detected features that trigger a backend
// assignment, paired with their sub-task phrasing. Order matters: the
// phrases are joined in this order into one task description.
var backendFeatures = []struct {
	tag    models.FeatureTag
	phrase string
}{
	{models.FeatureAuthentication, "user authentication and authorization system"},
	{models.FeatureDatabase, "database schema and data models"},
	{models.FeatureAPI, "REST API endpoints and business logic"},
}

// Decomposer turns a project analysis into per-agent task assignments.
type Decomposer struct {
	capabilities map[string]AgentCapability
}

// New creates a decomposer with the default capability table.
func New() *Decomposer {
	return NewWithCapabilities(DefaultCapabilities())
}

// NewWithCapabilities creates a decomposer with a custom capability table,
// e.g. one loaded from role YAML files.
func NewWithCapabilities(caps map[string]AgentCapability) *Decomposer {
	return &Decomposer{capabilities: caps}
}

// Decompose maps the analysis to task assignments keyed by agent role.
// Backend and frontend assignments are conditional on detected features;
// a tester assignment is always produced.
func (d *Decomposer) Decompose(analysis *models.ProjectAnalysis) map[string]models.TaskAssignment {
	assignments := make(map[string]models.TaskAssignment)

	var backendTasks []string
	for _, bf := range backendFeatures {
		if analysis.HasFeature(bf.tag) {
			backendTasks = append(backendTasks, bf.phrase)
		}
	}
	if len(backendTasks) > 0 {
		assignments[RoleBackendCoder] = d.assignment(
			RoleBackendCoder, "Implement "+strings.Join(backendTasks, ", "))
	}

	if analysis.HasFeature(models.FeatureFrontend) {
		task := "Develop responsive user interface and client-side functionality"
		if analysis.HasFeature(models.FeatureAuthentication) {
			task += " including login/signup forms"
		}
		assignments[RoleFrontendCoder] = d.assignment(RoleFrontendCoder, task)
	}

	// Testing is mandatory regardless of detected features.
	assignments[RoleTester] = d.assignment(RoleTester, testerTask(analysis.Complexity))

	return assignments
}

// testerTask scales the testing scope with the detected complexity.
func testerTask(complexity models.Complexity) string {
	scope := "comprehensive unit and integration tests"
	switch complexity {
	case models.ComplexityHigh:
		scope += " with performance and load testing"
	case models.ComplexityLow:
		scope = "basic unit tests and functionality verification"
	}
	return "Perform " + scope + " on all implemented components"
}

func (d *Decomposer) assignment(role, task string) models.TaskAssignment {
	cap := d.capabilities[role]
	return models.TaskAssignment{
		AgentRole: role,
		RoleTitle: cap.RoleTitle,
		Action:    cap.DefaultAction,
		Task:      task,
	}
}
