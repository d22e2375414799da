package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentix/studio/internal/config"
	"github.com/agentix/studio/internal/decompose"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List agent roles and their capabilities",
	RunE:  runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	capabilities := decompose.DefaultCapabilities()
	if cfg.Workflow.RolesDir != "" {
		capabilities, err = config.LoadRoles(cfg.Workflow.RolesDir)
		if err != nil {
			return err
		}
	}

	roles := make([]string, 0, len(capabilities))
	for role := range capabilities {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	bold := color.New(color.Bold)
	for _, role := range roles {
		cap := capabilities[role]
		bold.Printf("%s", cap.RoleTitle)
		fmt.Printf(" (%s)\n", role)
		fmt.Printf("  action:      %s\n", cap.DefaultAction)
		fmt.Printf("  specialties: %s\n\n", strings.Join(cap.Specialties, ", "))
	}
	return nil
}
