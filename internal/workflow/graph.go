package workflow

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Condition gates a step on a field of an earlier step's payload. The
// predicate is configuration supplied with the workflow definition, never
// inferred. A condition that references a skipped step is unsatisfied.
type Condition struct {
	Step   string   `yaml:"step"`
	Field  string   `yaml:"field"`
	Equals string   `yaml:"equals,omitempty"`
	In     []string `yaml:"in,omitempty"`
}

// Satisfied evaluates the condition against the payloads of completed steps.
func (c *Condition) Satisfied(payloads map[string]map[string]any) bool {
	payload, ok := payloads[c.Step]
	if !ok {
		return false
	}
	value, ok := payload[c.Field].(string)
	if !ok {
		return false
	}
	if c.Equals != "" {
		return value == c.Equals
	}
	for _, candidate := range c.In {
		if value == candidate {
			return true
		}
	}
	return false
}

// Step is one unit of work in a graph: a named binding of an agent with
// dependencies and an optional condition.
type Step struct {
	Key       string     `yaml:"key"`
	Agent     string     `yaml:"agent"`
	DependsOn []string   `yaml:"depends_on,omitempty"`
	When      *Condition `yaml:"when,omitempty"`
}

// Graph is a static workflow definition. Steps are stored in declaration
// order; validation rejects forward references, so declaration order is a
// topological order.
type Graph struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Validate checks structural soundness: unique keys, dependencies and
// condition references that point at earlier steps only.
func (g *Graph) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("workflow has no name")
	}
	if len(g.Steps) == 0 {
		return fmt.Errorf("workflow %q has no steps", g.Name)
	}

	seen := make(map[string]bool, len(g.Steps))
	for _, step := range g.Steps {
		if step.Key == "" {
			return fmt.Errorf("workflow %q has a step without a key", g.Name)
		}
		if step.Agent == "" {
			return fmt.Errorf("step %q in workflow %q has no agent", step.Key, g.Name)
		}
		if seen[step.Key] {
			return fmt.Errorf("duplicate step %q in workflow %q", step.Key, g.Name)
		}

		for _, dep := range step.DependsOn {
			if dep == step.Key {
				return fmt.Errorf("step %q in workflow %q depends on itself", step.Key, g.Name)
			}
			if !seen[dep] {
				return fmt.Errorf("step %q in workflow %q depends on %q, which is not an earlier step", step.Key, g.Name, dep)
			}
		}
		if step.When != nil {
			if !seen[step.When.Step] {
				return fmt.Errorf("step %q in workflow %q is conditioned on %q, which is not an earlier step", step.Key, g.Name, step.When.Step)
			}
			if step.When.Field == "" {
				return fmt.Errorf("step %q in workflow %q has a condition without a field", step.Key, g.Name)
			}
			if step.When.Equals == "" && len(step.When.In) == 0 {
				return fmt.Errorf("step %q in workflow %q has a condition without equals or in", step.Key, g.Name)
			}
		}

		seen[step.Key] = true
	}

	return nil
}

type definitionsFile struct {
	Workflows []*Graph `yaml:"workflows"`
}

// LoadDefinitions parses a YAML workflow definition document and validates
// every graph in it.
func LoadDefinitions(r io.Reader) (map[string]*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow definitions: %w", err)
	}

	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse workflow definitions: %w", err)
	}
	if len(file.Workflows) == 0 {
		return nil, fmt.Errorf("workflow definitions contain no workflows")
	}

	graphs := make(map[string]*Graph, len(file.Workflows))
	for _, g := range file.Workflows {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if _, ok := graphs[g.Name]; ok {
			return nil, fmt.Errorf("duplicate workflow %q", g.Name)
		}
		graphs[g.Name] = g
	}

	return graphs, nil
}
