package agent

import (
	"context"
	"fmt"

	"github.com/agentix/studio/pkg/models"
)

// FrontendCoder implements client-side assignments: interface markup,
// styling, and browser logic.
type FrontendCoder struct {
	worker
}

// NewFrontendCoder creates a frontend coder backed by the given
// generator. A nil generator puts the agent in template-only mode.
func NewFrontendCoder(generator CodeGenerator) *FrontendCoder {
	return &FrontendCoder{
		worker: newWorker(
			"frontend_coder",
			"Frontend Developer",
			[]string{"frontend", "ui", "web", "client-side"},
			generator,
		),
	}
}

// ExecuteTask performs one frontend assignment.
func (f *FrontendCoder) ExecuteTask(ctx context.Context, assignment models.TaskAssignment) (*models.TaskResult, error) {
	prompt := fmt.Sprintf(
		"You are a frontend developer. %s. "+
			"Write a single self-contained HTML page with embedded CSS and JavaScript. "+
			"Respond with the complete page only.",
		assignment.Task)

	return f.execute(ctx, assignment, prompt,
		func(text string) map[string]string {
			return map[string]string{"frontend/index.html": text}
		},
		frontendTemplate,
	)
}
