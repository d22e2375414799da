package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentix/studio/internal/agent"
	"github.com/agentix/studio/internal/config"
	"github.com/agentix/studio/internal/decompose"
	"github.com/agentix/studio/internal/deploy"
	"github.com/agentix/studio/internal/gen"
	"github.com/agentix/studio/internal/orchestrator"
	"github.com/agentix/studio/internal/state"
	"github.com/agentix/studio/internal/watch"
	"github.com/agentix/studio/pkg/models"
)

var (
	runOutputDir string
	runTimeout   time.Duration
	runDeploy    bool
	runDryRun    bool
)

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Process a project request end to end",
	Long: `Analyze the request, decompose it into agent assignments, and
execute the workflow. Generated files are written to the output
directory; with --deploy they are also pushed to GitHub and the
frontend is published to Netlify.

With --dry-run the request is analyzed and decomposed but nothing is
executed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWorkflow,
}

func init() {
	runCmd.Flags().StringVarP(&runOutputDir, "output", "o", "generated", "Directory for generated files")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-task timeout (overrides config)")
	runCmd.Flags().BoolVar(&runDeploy, "deploy", false, "Publish results to GitHub and Netlify")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Show the assignments without executing")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	request := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runTimeout > 0 {
		cfg.Workflow.TaskTimeout = runTimeout
	}

	generator, tracker := buildGenerator(cfg)

	var stateDB *state.DB
	if db, err := state.OpenGlobal(); err == nil {
		stateDB = db
		defer db.Close()
	} else {
		fmt.Fprintf(os.Stderr, "%s run history unavailable: %v\n", color.YellowString("⚠"), err)
	}

	capabilities, err := loadCapabilities(cfg)
	if err != nil {
		return err
	}

	orch := orchestrator.NewOrchestrator(orchestrator.Config{
		TaskTimeout:  cfg.Workflow.TaskTimeout,
		StateDB:      stateDB,
		Capabilities: capabilities,
	})
	defer orch.Close()

	orch.RegisterAgent(decompose.RoleBackendCoder, agent.NewBackendCoder(generator))
	orch.RegisterAgent(decompose.RoleFrontendCoder, agent.NewFrontendCoder(generator))
	orch.RegisterAgent(decompose.RoleTester, agent.NewTester(generator))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assignments, err := orch.ProcessRequest(ctx, request)
	if err != nil {
		return err
	}

	printAssignments(assignments)
	if runDryRun {
		return nil
	}

	signals := watchSignals(orch)
	if signals != nil {
		defer signals.Close()
	}
	go printEvents(orch)

	result, err := orch.ExecuteWorkflow(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println(color.YellowString("Workflow aborted."))
			return nil
		}
		return err
	}

	printSummary(result)
	printUsage(tracker)

	projectName := fmt.Sprintf("studio-%s", time.Now().Format("20060102-150405"))
	if err := writeResultFiles(result, filepath.Join(runOutputDir, projectName)); err != nil {
		return err
	}

	if runDeploy {
		deployResult(ctx, cfg, projectName, result)
	}

	if !result.Success {
		return fmt.Errorf("%d of %d tasks failed", result.Summary.Failed, result.Summary.TotalTasks)
	}
	return nil
}

// loadConfig resolves the configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// buildGenerator creates the shared code generator, or nil for
// template-only operation when no credentials are configured.
func buildGenerator(cfg *config.Config) (agent.CodeGenerator, *gen.TokenTracker) {
	if cfg.Anthropic.APIKey == "" && os.Getenv("ANTHROPIC_API_KEY") == "" && !cfg.Anthropic.UseBedrock {
		fmt.Fprintf(os.Stderr, "%s no API key configured, agents will use templates\n", color.YellowString("⚠"))
		return nil, nil
	}

	client, err := gen.NewClient(gen.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s generator unavailable (%v), agents will use templates\n", color.YellowString("⚠"), err)
		return nil, nil
	}
	return gen.NewGenerator(client), client.Tracker()
}

func loadCapabilities(cfg *config.Config) (map[string]decompose.AgentCapability, error) {
	if cfg.Workflow.RolesDir == "" {
		return nil, nil
	}
	caps, err := config.LoadRoles(cfg.Workflow.RolesDir)
	if err != nil {
		return nil, fmt.Errorf("loading roles from %s: %w", cfg.Workflow.RolesDir, err)
	}
	return caps, nil
}

// watchSignals aborts the orchestrator when an abort control file
// appears under .studio/signals.
func watchSignals(orch *orchestrator.Orchestrator) *watch.Signals {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	signals, err := watch.NewSignals(cwd)
	if err != nil {
		return nil
	}
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			signals.Refresh()
			if signals.AbortRequested() {
				orch.Abort()
				return
			}
			select {
			case <-signals.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return signals
}

func printAssignments(assignments map[string]models.TaskAssignment) {
	bold := color.New(color.Bold)
	bold.Printf("Assignments (%d):\n", len(assignments))
	for _, role := range sortedRoles(assignments) {
		a := assignments[role]
		fmt.Printf("  %s %s — %s\n", color.CyanString("•"), a.RoleTitle, a.Task)
	}
	fmt.Println()
}

func sortedRoles(assignments map[string]models.TaskAssignment) []string {
	roles := make([]string, 0, len(assignments))
	for _, a := range []string{decompose.RoleBackendCoder, decompose.RoleFrontendCoder, decompose.RoleTester} {
		if _, ok := assignments[a]; ok {
			roles = append(roles, a)
		}
	}
	for role := range assignments {
		known := false
		for _, r := range roles {
			if r == role {
				known = true
				break
			}
		}
		if !known {
			roles = append(roles, role)
		}
	}
	return roles
}

func printEvents(orch *orchestrator.Orchestrator) {
	for ev := range orch.Events() {
		switch ev.Type {
		case orchestrator.EventTaskStarted:
			fmt.Printf("%s %s: %s\n", color.CyanString("→"), ev.AgentName, ev.Message)
		case orchestrator.EventTaskCompleted:
			fmt.Printf("%s %s finished\n", color.GreenString("✓"), ev.AgentName)
		case orchestrator.EventTaskFailed:
			fmt.Printf("%s %s failed: %v\n", color.RedString("✗"), ev.AgentName, ev.Error)
		}
	}
}

func printSummary(result *models.WorkflowResult) {
	fmt.Println()
	if result.Success {
		color.Green("Workflow complete: %s success (%d/%d tasks)",
			result.Summary.SuccessRate, result.Summary.Successful, result.Summary.TotalTasks)
	} else {
		color.Red("Workflow finished with failures: %s success (%d/%d tasks)",
			result.Summary.SuccessRate, result.Summary.Successful, result.Summary.TotalTasks)
		for agentName, msg := range result.Errors {
			fmt.Printf("  %s %s: %s\n", color.RedString("✗"), agentName, msg)
		}
	}
}

func printUsage(tracker *gen.TokenTracker) {
	if tracker == nil || tracker.Calls() == 0 {
		return
	}
	in, out := tracker.Total()
	fmt.Printf("Model usage: %d calls, %d input + %d output tokens (~$%.4f)\n",
		tracker.Calls(), in, out, tracker.Cost())
}

// writeResultFiles writes every generated file under dir.
func writeResultFiles(result *models.WorkflowResult, dir string) error {
	wrote := 0
	for _, taskResult := range result.Results {
		for name, content := range taskResult.Files {
			path := filepath.Join(dir, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			wrote++
		}
	}
	if wrote > 0 {
		fmt.Printf("Wrote %d files to %s\n", wrote, dir)
	}
	return nil
}

// deployResult publishes the workflow output. Failures are reported
// but never fail the run.
func deployResult(ctx context.Context, cfg *config.Config, projectName string, result *models.WorkflowResult) {
	allFiles := make(map[string]string)
	frontendFiles := make(map[string]string)
	for _, taskResult := range result.Results {
		for name, content := range taskResult.Files {
			allFiles[name] = content
			if strings.HasPrefix(name, "frontend/") {
				frontendFiles[strings.TrimPrefix(name, "frontend/")] = content
			}
		}
	}

	publisher := deploy.NewGitHubPublisher(cfg.Deploy.GitHubToken, cfg.Deploy.GitHubOwner)
	if url, err := publisher.Publish(ctx, projectName, allFiles); err != nil {
		fmt.Fprintf(os.Stderr, "%s GitHub publish failed: %v\n", color.YellowString("⚠"), err)
	} else {
		fmt.Printf("%s Repository: %s\n", color.GreenString("✓"), url)
	}

	if len(frontendFiles) == 0 {
		return
	}
	deployer := deploy.NewNetlifyDeployer(cfg.Deploy.NetlifyToken)
	if url, err := deployer.Deploy(ctx, projectName, frontendFiles); err != nil {
		fmt.Fprintf(os.Stderr, "%s Netlify deploy failed: %v\n", color.YellowString("⚠"), err)
	} else {
		fmt.Printf("%s Site: %s\n", color.GreenString("✓"), url)
	}
}
