package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/agentix/studio/internal/state"
	"github.com/agentix/studio/pkg/models"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent workflow runs",
	Long: `Display the run history recorded in the studio database:
each run's request, outcome, and per-task results.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 5, "Number of runs to show")
}

var (
	runBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	runOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	runFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	runDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func runStatus(cmd *cobra.Command, args []string) error {
	dbPath := state.GlobalDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet. Run 'studio run <request>' to start.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	runs, err := db.RecentRuns(statusLimit)
	if err != nil {
		return fmt.Errorf("load runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Run 'studio run <request>' to start.")
		return nil
	}

	for _, run := range runs {
		execs, err := db.RunExecutions(run.ID)
		if err != nil {
			return fmt.Errorf("load executions for %s: %w", run.ID, err)
		}
		fmt.Println(runBoxStyle.Render(renderRun(run, execs)))
	}
	return nil
}

// truncate shortens s to at most max runes, never splitting a rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func renderRun(run state.RunRecord, execs []state.ExecutionRecord) string {
	var b strings.Builder

	outcome := runDimStyle.Render("in progress")
	if run.Success != nil {
		if *run.Success {
			outcome = runOKStyle.Render("success")
		} else {
			outcome = runFailStyle.Render("failed")
		}
	}

	request := truncate(run.Request, 60)
	fmt.Fprintf(&b, "%s  %s\n", run.StartedAt.Format("2006-01-02 15:04"), outcome)
	fmt.Fprintf(&b, "%s\n", request)
	if run.Summary.TotalTasks > 0 {
		fmt.Fprintf(&b, "%s", runDimStyle.Render(
			fmt.Sprintf("%d/%d tasks, %s success rate",
				run.Summary.Successful, run.Summary.TotalTasks, run.Summary.SuccessRate)))
	}

	for _, exec := range execs {
		marker := runDimStyle.Render("•")
		switch exec.Status {
		case models.StatusCompleted:
			marker = runOKStyle.Render("✓")
		case models.StatusFailed:
			marker = runFailStyle.Render("✗")
		}
		fmt.Fprintf(&b, "\n%s %s: %s", marker, exec.AgentName, exec.Task)
		if exec.ErrorMessage != "" {
			fmt.Fprintf(&b, "\n  %s", runFailStyle.Render(exec.ErrorMessage))
		}
	}
	return b.String()
}
