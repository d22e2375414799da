package config

import (
	"path/filepath"
	"testing"

	"github.com/agentix/studio/internal/decompose"
	"github.com/agentix/studio/pkg/models"
)

func TestLoadRolesOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "backend.yaml"), `
role: backend_coder
role_title: Staff Backend Engineer
specialties: [backend, api]
default_action: Write code
`)

	caps, err := LoadRoles(dir)
	if err != nil {
		t.Fatalf("LoadRoles: %v", err)
	}
	backend := caps[decompose.RoleBackendCoder]
	if backend.RoleTitle != "Staff Backend Engineer" {
		t.Errorf("title: got %q", backend.RoleTitle)
	}
	// Roles not named in the directory keep their built-in capability.
	tester := caps[decompose.RoleTester]
	if tester.DefaultAction != models.ActionTestCode {
		t.Errorf("tester capability lost: %+v", tester)
	}
}

func TestLoadRolesAddsNewRole(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "reviewer.yaml"), `
role: reviewer
role_title: Code Reviewer
specialties: [review]
default_action: Test code
`)

	caps, err := LoadRoles(dir)
	if err != nil {
		t.Fatalf("LoadRoles: %v", err)
	}
	if _, ok := caps["reviewer"]; !ok {
		t.Error("expected the reviewer role to be added")
	}
}

func TestLoadRolesRejectsBadAction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), `
role: bad_role
role_title: Bad Role
default_action: Dance
`)

	if _, err := LoadRoles(dir); err == nil {
		t.Fatal("expected an error for an unknown action")
	}
}

func TestLoadRolesRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anon.yaml"), `
role_title: Anonymous
default_action: Write code
`)

	if _, err := LoadRoles(dir); err == nil {
		t.Fatal("expected an error for a missing role id")
	}
}

func TestLoadRolesMissingDir(t *testing.T) {
	if _, err := LoadRoles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
