// Package decompose maps an analyzed project request onto per-agent task
// assignments, using static capability metadata to decide which role
// handles which detected feature.
package decompose

import "github.com/agentix/studio/pkg/models"

// Canonical agent role identifiers used in assignments and registration.
const (
	RoleBackendCoder  = "backend_coder"
	RoleFrontendCoder = "frontend_coder"
	RoleTester        = "tester"
)

// AgentCapability is static registry metadata describing one worker role:
// its human title, the feature areas it covers, and the action it performs.
type AgentCapability struct {
	// RoleTitle is the human-readable role label.
	RoleTitle string `yaml:"role_title"`
	// Specialties are the feature areas the role covers.
	Specialties []string `yaml:"specialties"`
	// DefaultAction is the action this role performs.
	DefaultAction models.Action `yaml:"default_action"`
}

// DefaultCapabilities returns the built-in capability table for the three
// prototype roles. Role YAML files under configs/ can override these.
func DefaultCapabilities() map[string]AgentCapability {
	return map[string]AgentCapability{
		RoleBackendCoder: {
			RoleTitle:     "Senior Backend Developer",
			Specialties:   []string{"backend", "api", "database", "authentication"},
			DefaultAction: models.ActionWriteCode,
		},
		RoleFrontendCoder: {
			RoleTitle:     "Frontend Developer",
			Specialties:   []string{"frontend", "ui", "web", "client-side"},
			DefaultAction: models.ActionWriteCode,
		},
		RoleTester: {
			RoleTitle:     "Software Tester",
			Specialties:   []string{"testing", "qa", "automation", "integration"},
			DefaultAction: models.ActionTestCode,
		},
	}
}
