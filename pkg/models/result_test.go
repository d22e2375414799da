package models

import "testing"

func TestNewWorkflowSummary(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		successful int
		wantFailed int
		wantRate   string
	}{
		{"all successful", 3, 3, 0, "100.0%"},
		{"partial", 3, 2, 1, "66.7%"},
		{"all failed", 2, 0, 2, "0.0%"},
		{"empty workflow", 0, 0, 0, "0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewWorkflowSummary(tt.total, tt.successful)
			if s.Failed != tt.wantFailed {
				t.Errorf("failed: got %d, want %d", s.Failed, tt.wantFailed)
			}
			if s.SuccessRate != tt.wantRate {
				t.Errorf("success rate: got %q, want %q", s.SuccessRate, tt.wantRate)
			}
			if s.Successful+s.Failed != s.TotalTasks {
				t.Errorf("summary invariant violated: %d + %d != %d", s.Successful, s.Failed, s.TotalTasks)
			}
		})
	}
}
