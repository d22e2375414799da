package agent

import (
	"context"
	"fmt"

	"github.com/agentix/studio/pkg/models"
)

// BackendCoder implements server-side assignments: authentication,
// data models, and API endpoints.
type BackendCoder struct {
	worker
}

// NewBackendCoder creates a backend coder backed by the given
// generator. A nil generator puts the agent in template-only mode.
func NewBackendCoder(generator CodeGenerator) *BackendCoder {
	return &BackendCoder{
		worker: newWorker(
			"backend_coder",
			"Senior Backend Developer",
			[]string{"backend", "api", "database", "authentication"},
			generator,
		),
	}
}

// ExecuteTask performs one backend assignment.
func (b *BackendCoder) ExecuteTask(ctx context.Context, assignment models.TaskAssignment) (*models.TaskResult, error) {
	prompt := fmt.Sprintf(
		"You are a senior backend developer. %s. "+
			"Write production-quality server code with input validation and error handling. "+
			"Respond with the complete code only.",
		assignment.Task)

	return b.execute(ctx, assignment, prompt,
		func(text string) map[string]string {
			return map[string]string{"backend/main.go": text}
		},
		backendTemplate,
	)
}
