// pkg/cli/plan.go
package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ToolPlan selects one tool and its loosely-typed options for a scan.
type ToolPlan struct {
	Name    string                 `yaml:"name"`
	Options map[string]interface{} `yaml:"options"`
}

// Plan is a declarative scan plan loaded from a YAML file: which targets
// to scan and which tools to run against each of them.
type Plan struct {
	ProjectID string     `yaml:"project_id"`
	Targets   []string   `yaml:"targets"`
	Tools     []ToolPlan `yaml:"tools"`
}

// LoadPlan reads and validates a YAML scan plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scan plan: %w", err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing scan plan %s: %w", path, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("scan plan %s: %w", path, err)
	}
	return &plan, nil
}

// DefaultPlan builds a plan from CLI targets and tool names with default
// options, for runs without a plan file.
func DefaultPlan(targets, tools []string) *Plan {
	plan := &Plan{Targets: targets}
	for _, name := range tools {
		plan.Tools = append(plan.Tools, ToolPlan{Name: name})
	}
	return plan
}

// Validate checks the plan names at least one target and one known tool.
func (p *Plan) Validate() error {
	if len(p.Targets) == 0 {
		return fmt.Errorf("no targets")
	}
	if len(p.Tools) == 0 {
		return fmt.Errorf("no tools")
	}
	for _, t := range p.Tools {
		if !knownTool(t.Name) {
			return fmt.Errorf("unknown tool %q", t.Name)
		}
	}
	return nil
}
