package agent

import "context"

// GenerateResult is the outcome of one generation call. Generation
// failures are carried in Err rather than an error return so that
// agents always receive the token accounting that was accumulated
// before the failure.
type GenerateResult struct {
	// Text is the generated code or prose. Empty when Err is set.
	Text string
	// Model is the model that produced the text.
	Model string
	// TokensUsed is the total input+output tokens consumed by the call.
	TokensUsed int64
	// Err is non-nil when generation failed. Agents fall back to
	// templates instead of failing the task.
	Err error
}

// CodeGenerator produces code from a prompt. The production
// implementation calls the Anthropic API; tests substitute a stub.
type CodeGenerator interface {
	Generate(ctx context.Context, prompt string) GenerateResult
}

// RepositoryPublisher pushes generated project files to a remote
// repository. Publishing is best effort: failures are reported but do
// not fail the workflow that produced the files.
type RepositoryPublisher interface {
	Publish(ctx context.Context, name string, files map[string]string) (url string, err error)
}

// SiteDeployer deploys generated frontend files to a hosting provider.
type SiteDeployer interface {
	Deploy(ctx context.Context, name string, files map[string]string) (url string, err error)
}
