package agent

import (
	"context"
	"fmt"

	"github.com/agentix/studio/pkg/models"
)

// Tester implements testing assignments: unit and integration tests
// over the components the coding agents produced.
type Tester struct {
	worker
}

// NewTester creates a tester backed by the given generator. A nil
// generator puts the agent in template-only mode.
func NewTester(generator CodeGenerator) *Tester {
	return &Tester{
		worker: newWorker(
			"tester",
			"Software Tester",
			[]string{"testing", "qa", "automation", "integration"},
			generator,
		),
	}
}

// ExecuteTask performs one testing assignment.
func (t *Tester) ExecuteTask(ctx context.Context, assignment models.TaskAssignment) (*models.TaskResult, error) {
	prompt := fmt.Sprintf(
		"You are a software tester. %s. "+
			"Write a test suite covering the happy path, input validation, and failure cases. "+
			"Respond with the complete test code only.",
		assignment.Task)

	return t.execute(ctx, assignment, prompt,
		func(text string) map[string]string {
			return map[string]string{"tests/suite_test.go": text}
		},
		testerTemplate,
	)
}
