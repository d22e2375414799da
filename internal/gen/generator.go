package gen

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/agentix/studio/internal/agent"
)

const maxTokens = 8192

const systemPrompt = "You are a software engineer on a small product team. " +
	"Produce complete, working code for the requested component. " +
	"Do not include explanations outside the code."

// Generator turns prompts into code via the Anthropic API. It satisfies
// the agents' CodeGenerator contract: failures are carried in the
// result so callers can fall back to templates.
type Generator struct {
	client *Client
}

var _ agent.CodeGenerator = (*Generator)(nil)

// NewGenerator creates a generator over the given client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate runs one completion for the prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) agent.GenerateResult {
	resp, err := g.client.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.client.Model(),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return agent.GenerateResult{Err: fmt.Errorf("API call failed: %w", err)}
	}

	g.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	return agent.GenerateResult{
		Text:       stripCodeFence(text.String()),
		Model:      string(g.client.Model()),
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}
}

// stripCodeFence removes a surrounding markdown code fence, if the
// model wrapped its output in one.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.TrimSpace(lines[len(lines)-1]) != "```" {
		return s
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
