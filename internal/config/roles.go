package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/agentix/studio/internal/decompose"
	"github.com/agentix/studio/pkg/models"
)

// roleFile is the on-disk shape of one role capability YAML file.
type roleFile struct {
	Role          string        `yaml:"role"`
	RoleTitle     string        `yaml:"role_title"`
	Specialties   []string      `yaml:"specialties"`
	DefaultAction models.Action `yaml:"default_action"`
}

// LoadRoles reads every *.yaml file in dir into a capability table,
// starting from the built-in defaults so a partial directory only
// overrides what it names.
func LoadRoles(dir string) (map[string]decompose.AgentCapability, error) {
	capabilities := decompose.DefaultCapabilities()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading roles directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading role file %s: %w", path, err)
		}

		var rf roleFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parsing role file %s: %w", path, err)
		}
		if rf.Role == "" {
			return nil, fmt.Errorf("role file %s has no role id", path)
		}
		if !rf.DefaultAction.Valid() {
			return nil, fmt.Errorf("role file %s has unknown action %q", path, rf.DefaultAction)
		}

		capabilities[rf.Role] = decompose.AgentCapability{
			RoleTitle:     rf.RoleTitle,
			Specialties:   rf.Specialties,
			DefaultAction: rf.DefaultAction,
		}
	}

	return capabilities, nil
}
