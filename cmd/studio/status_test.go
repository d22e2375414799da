package main

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/agentix/studio/internal/state"
	"github.com/agentix/studio/pkg/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "build an api", 60, "build an api"},
		{"exact length unchanged", strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{"long ascii", strings.Repeat("a", 61), 60, strings.Repeat("a", 57) + "..."},
		{"multibyte boundary", strings.Repeat("é", 61), 60, strings.Repeat("é", 57) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestRenderRunMultibyteRequest(t *testing.T) {
	started := time.Now()
	success := true
	run := state.RunRecord{
		ID:        "run-1",
		Request:   strings.Repeat("créer une application wéb ", 5),
		StartedAt: started,
		Success:   &success,
		Summary:   models.NewWorkflowSummary(2, 2),
	}

	out := renderRun(run, []state.ExecutionRecord{
		{TaskID: "t1", AgentName: "backend_coder", Task: "Implement REST API", Status: models.StatusCompleted},
	})
	if !utf8.ValidString(out) {
		t.Errorf("renderRun produced invalid UTF-8: %q", out)
	}
	if !strings.Contains(out, "...") {
		t.Error("long request was not truncated")
	}
}
