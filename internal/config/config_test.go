package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
anthropic:
  model: claude-sonnet-4-20250514
  use_bedrock: true
  aws_region: us-west-2
workflow:
  task_timeout: 90s
health:
  self_heal: false
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("model: got %q", cfg.Anthropic.Model)
	}
	if !cfg.Anthropic.UseBedrock || cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("bedrock settings: %+v", cfg.Anthropic)
	}
	if cfg.Workflow.TaskTimeout != 90*time.Second {
		t.Errorf("task timeout: got %s", cfg.Workflow.TaskTimeout)
	}
	if cfg.Health.SelfHeal {
		t.Error("self_heal should be disabled")
	}
	// Unset values keep their defaults.
	if cfg.Health.Interval != 30*time.Second {
		t.Errorf("health interval default: got %s", cfg.Health.Interval)
	}
}

func TestLoadFromPathExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_STUDIO_KEY", "sk-test-123")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
anthropic:
  api_key: ${TEST_STUDIO_KEY}
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-test-123" {
		t.Errorf("api key: got %q", cfg.Anthropic.APIKey)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Workflow.TaskTimeout != 5*time.Minute {
		t.Errorf("task timeout: got %s", cfg.Workflow.TaskTimeout)
	}
	if !cfg.Health.SelfHeal {
		t.Error("self-heal should default on")
	}
}
