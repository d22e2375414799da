// Package config handles configuration loading for the studio.
// It supports XDG config paths, project-level overrides, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the studio.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Health    HealthConfig    `mapstructure:"health"`
	Deploy    DeployConfig    `mapstructure:"deploy"`
}

// AnthropicConfig holds code-generation model settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the model name passed to the SDK.
	Model string `mapstructure:"model"`
	// UseBedrock routes calls through AWS Bedrock.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
}

// WorkflowConfig holds orchestration settings.
type WorkflowConfig struct {
	// TaskTimeout bounds each agent execution. Zero disables the bound.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// RolesDir points at a directory of role capability YAML files.
	// Empty uses the built-in capability table.
	RolesDir string `mapstructure:"roles_dir"`
}

// HealthConfig holds protocol health-monitor settings.
type HealthConfig struct {
	// Interval is the poll period.
	Interval time.Duration `mapstructure:"interval"`
	// StaleAfter is the check-in window before a subordinate is
	// considered unresponsive.
	StaleAfter time.Duration `mapstructure:"stale_after"`
	// SelfHeal enables recovery attempts.
	SelfHeal bool `mapstructure:"self_heal"`
}

// DeployConfig holds publishing credentials.
type DeployConfig struct {
	// GitHubToken authenticates repository creation and pushes.
	GitHubToken string `mapstructure:"github_token"`
	// GitHubOwner is the account repositories are created under.
	GitHubOwner string `mapstructure:"github_owner"`
	// NetlifyToken authenticates site deploys.
	NetlifyToken string `mapstructure:"netlify_token"`
}

// Load loads configuration with the following precedence, highest first:
// environment variables, project config (.studio.yaml in the current
// directory or a parent), user config (~/.config/studio/config.yaml),
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("deploy.github_token", "GITHUB_TOKEN")
	v.BindEnv("deploy.netlify_token", "NETLIFY_AUTH_TOKEN")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	expand(cfg)
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	expand(cfg)
	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("workflow.task_timeout", cfg.Workflow.TaskTimeout.String())
	v.Set("workflow.roles_dir", cfg.Workflow.RolesDir)
	v.Set("health.interval", cfg.Health.Interval.String())
	v.Set("health.stale_after", cfg.Health.StaleAfter.String())
	v.Set("health.self_heal", cfg.Health.SelfHeal)
	v.Set("deploy.github_token", cfg.Deploy.GitHubToken)
	v.Set("deploy.github_owner", cfg.Deploy.GitHubOwner)
	v.Set("deploy.netlify_token", cfg.Deploy.NetlifyToken)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the project config file path, if one exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{},
		Workflow: WorkflowConfig{
			TaskTimeout: 5 * time.Minute,
		},
		Health: HealthConfig{
			Interval:   30 * time.Second,
			StaleAfter: 2 * time.Minute,
			SelfHeal:   true,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("workflow.task_timeout", "5m")
	v.SetDefault("workflow.roles_dir", "")

	v.SetDefault("health.interval", "30s")
	v.SetDefault("health.stale_after", "2m")
	v.SetDefault("health.self_heal", true)

	v.SetDefault("deploy.github_token", "")
	v.SetDefault("deploy.github_owner", "")
	v.SetDefault("deploy.netlify_token", "")
}

// getUserConfigDir returns the XDG config directory for the studio.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "studio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "studio")
	}
	return filepath.Join(home, ".config", "studio")
}

// findProjectConfig searches for .studio.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(cwd, ".studio.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}

// expand resolves ${VAR} references in credential fields.
func expand(cfg *Config) {
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.Deploy.GitHubToken = os.ExpandEnv(cfg.Deploy.GitHubToken)
	cfg.Deploy.NetlifyToken = os.ExpandEnv(cfg.Deploy.NetlifyToken)
}
