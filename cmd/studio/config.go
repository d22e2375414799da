package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentix/studio/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default user config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(config.Default()); err != nil {
			return err
		}
		fmt.Printf("%s Wrote %s\n", color.GreenString("✓"), config.GetUserConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("user config:    %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Printf("project config: %s\n", project)
	}
	fmt.Println()

	fmt.Printf("anthropic.model:       %s\n", orDefault(cfg.Anthropic.Model, "(sdk default)"))
	fmt.Printf("anthropic.api_key:     %s\n", redact(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("workflow.task_timeout: %s\n", cfg.Workflow.TaskTimeout)
	fmt.Printf("workflow.roles_dir:    %s\n", orDefault(cfg.Workflow.RolesDir, "(built-in)"))
	fmt.Printf("health.interval:       %s\n", cfg.Health.Interval)
	fmt.Printf("health.stale_after:    %s\n", cfg.Health.StaleAfter)
	fmt.Printf("health.self_heal:      %t\n", cfg.Health.SelfHeal)
	fmt.Printf("deploy.github_owner:   %s\n", orDefault(cfg.Deploy.GitHubOwner, "(unset)"))
	fmt.Printf("deploy.github_token:   %s\n", redact(cfg.Deploy.GitHubToken))
	fmt.Printf("deploy.netlify_token:  %s\n", redact(cfg.Deploy.NetlifyToken))
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func redact(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
