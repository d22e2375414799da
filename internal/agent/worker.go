package agent

import (
	"context"
	"log"
	"sync"

	"github.com/agentix/studio/pkg/models"
)

// templateModel is the ModelUsed value recorded when an agent falls
// back to its static template instead of generated output.
const templateModel = "template"

// worker holds the state shared by all agent implementations.
type worker struct {
	name         string
	title        string
	capabilities []string
	generator    CodeGenerator

	mu     sync.RWMutex
	status string
}

func newWorker(name, title string, capabilities []string, generator CodeGenerator) worker {
	return worker{
		name:         name,
		title:        title,
		capabilities: capabilities,
		generator:    generator,
		status:       "idle",
	}
}

// GetStatus returns the agent's current state.
func (w *worker) GetStatus() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// GetCapabilities lists the feature areas the agent covers.
func (w *worker) GetCapabilities() []string {
	caps := make([]string, len(w.capabilities))
	copy(caps, w.capabilities)
	return caps
}

func (w *worker) setStatus(status string) {
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
}

// execute runs the shared assignment lifecycle: validate, mark busy,
// generate, and fall back to the template on generation failure. The
// files function maps generated text onto output files.
func (w *worker) execute(
	ctx context.Context,
	assignment models.TaskAssignment,
	prompt string,
	files func(text string) map[string]string,
	fallback func(task string) (string, map[string]string),
) (*models.TaskResult, error) {
	if err := assignment.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.setStatus("working on: " + assignment.Task)
	defer w.setStatus("idle")

	if w.generator == nil {
		output, outFiles := fallback(assignment.Task)
		return &models.TaskResult{
			Output:    output,
			Files:     outFiles,
			ModelUsed: templateModel,
		}, nil
	}

	res := w.generator.Generate(ctx, prompt)
	if res.Err != nil {
		log.Printf("[%s] generation failed, using template fallback: %v", w.name, res.Err)
		output, outFiles := fallback(assignment.Task)
		return &models.TaskResult{
			Output:     output,
			Files:      outFiles,
			ModelUsed:  templateModel,
			TokensUsed: res.TokensUsed,
		}, nil
	}

	return &models.TaskResult{
		Output:     res.Text,
		Files:      files(res.Text),
		ModelUsed:  res.Model,
		TokensUsed: res.TokensUsed,
	}, nil
}
