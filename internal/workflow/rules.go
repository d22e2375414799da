// Package workflow enforces ordering and compliance rules over a set of
// task assignments before they are dispatched to agents.
package workflow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agentix/studio/internal/decompose"
	"github.com/agentix/studio/pkg/models"
)

// ErrWorkflowViolation is the sentinel wrapped by every rule failure.
// Callers match it with errors.Is.
var ErrWorkflowViolation = errors.New("workflow rule violation")

// actionPriority orders assignments for execution. Lower runs first.
// Unknown actions sort last.
var actionPriority = map[models.Action]int{
	models.ActionWriteCode: 1,
	models.ActionTestCode:  3,
}

const unknownActionPriority = 999

func priorityFor(action models.Action) int {
	if p, ok := actionPriority[action]; ok {
		return p
	}
	return unknownActionPriority
}

// Rule is one compliance check over a full assignment set. A rule may
// carry a Fix that repairs a violating set by adding assignments; fixes
// never remove or modify existing entries.
type Rule struct {
	Name        string
	Description string
	Enabled     bool
	Check       func(assignments map[string]models.TaskAssignment) error
	Fix         func(assignments map[string]models.TaskAssignment)
}

// DefaultRules returns the built-in rule set. Only the testing rule is
// enabled; the security and deployment rules are staged for later
// activation and are skipped during validation.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "testing_required",
			Description: "every workflow must include a testing assignment before completion",
			Enabled:     true,
			Check: func(assignments map[string]models.TaskAssignment) error {
				for _, a := range assignments {
					if a.Action == models.ActionTestCode {
						return nil
					}
				}
				return fmt.Errorf("%w: no testing assignment present", ErrWorkflowViolation)
			},
			Fix: func(assignments map[string]models.TaskAssignment) {
				if _, ok := assignments[decompose.RoleTester]; ok {
					return
				}
				caps := decompose.DefaultCapabilities()[decompose.RoleTester]
				assignments[decompose.RoleTester] = models.TaskAssignment{
					AgentRole: decompose.RoleTester,
					RoleTitle: caps.RoleTitle,
					Action:    models.ActionTestCode,
					Task:      "Perform comprehensive unit and integration tests on all implemented components",
				}
			},
		},
		{
			Name:        "security_review",
			Description: "security-sensitive workflows require a security review assignment",
			Enabled:     false,
		},
		{
			Name:        "deployment_approval",
			Description: "deployment assignments require an approved test run",
			Enabled:     false,
		},
	}
}

// Validator runs compliance rules over assignment sets.
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator with the default rule set.
func NewValidator() *Validator {
	return &Validator{rules: DefaultRules()}
}

// NewValidatorWithRules creates a validator with a custom rule set.
func NewValidatorWithRules(rules []Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate runs every enabled rule and returns the first violation.
// All returned errors wrap ErrWorkflowViolation.
func (v *Validator) Validate(assignments map[string]models.TaskAssignment) error {
	for _, rule := range v.rules {
		if !rule.Enabled || rule.Check == nil {
			continue
		}
		if err := rule.Check(assignments); err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name, err)
		}
	}
	return nil
}

// Fix applies the fixes of every enabled rule whose check currently
// fails, mutating the set in place. It returns true if any assignment
// was added. Fixing is idempotent: a compliant set passes through
// unchanged, and fixes only ever add entries.
func (v *Validator) Fix(assignments map[string]models.TaskAssignment) bool {
	before := len(assignments)
	for _, rule := range v.rules {
		if !rule.Enabled || rule.Check == nil || rule.Fix == nil {
			continue
		}
		if rule.Check(assignments) != nil {
			rule.Fix(assignments)
		}
	}
	return len(assignments) != before
}

// ExecutionOrder flattens the assignment set into dispatch order: write
// assignments before test assignments, with ties broken by agent role so
// ordering is deterministic.
func ExecutionOrder(assignments map[string]models.TaskAssignment) []models.TaskAssignment {
	ordered := make([]models.TaskAssignment, 0, len(assignments))
	for _, a := range assignments {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].AgentRole < ordered[j].AgentRole
	})
	sort.SliceStable(ordered, func(i, j int) bool {
		return priorityFor(ordered[i].Action) < priorityFor(ordered[j].Action)
	})
	return ordered
}
