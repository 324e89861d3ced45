package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   *Graph
		wantErr string
	}{
		{
			name: "valid chain",
			graph: &Graph{Name: "ok", Steps: []Step{
				{Key: "classify", Agent: "artifact_analysis"},
				{Key: "report", Agent: "report_generation", DependsOn: []string{"classify"}},
			}},
		},
		{
			name:    "no name",
			graph:   &Graph{Steps: []Step{{Key: "a", Agent: "x"}}},
			wantErr: "no name",
		},
		{
			name:    "no steps",
			graph:   &Graph{Name: "empty"},
			wantErr: "no steps",
		},
		{
			name: "duplicate key",
			graph: &Graph{Name: "dup", Steps: []Step{
				{Key: "a", Agent: "x"},
				{Key: "a", Agent: "y"},
			}},
			wantErr: "duplicate step",
		},
		{
			name: "forward dependency",
			graph: &Graph{Name: "fwd", Steps: []Step{
				{Key: "a", Agent: "x", DependsOn: []string{"b"}},
				{Key: "b", Agent: "y"},
			}},
			wantErr: "not an earlier step",
		},
		{
			name: "self dependency",
			graph: &Graph{Name: "self", Steps: []Step{
				{Key: "a", Agent: "x", DependsOn: []string{"a"}},
			}},
			wantErr: "depends on itself",
		},
		{
			name: "condition on later step",
			graph: &Graph{Name: "cond", Steps: []Step{
				{Key: "a", Agent: "x", When: &Condition{Step: "b", Field: "material", Equals: "bone"}},
				{Key: "b", Agent: "y"},
			}},
			wantErr: "conditioned on",
		},
		{
			name: "condition without predicate",
			graph: &Graph{Name: "pred", Steps: []Step{
				{Key: "a", Agent: "x"},
				{Key: "b", Agent: "y", When: &Condition{Step: "a", Field: "material"}},
			}},
			wantErr: "without equals or in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConditionSatisfied(t *testing.T) {
	payloads := map[string]map[string]any{
		"classify": {"material": "bone", "type": "tool"},
	}

	equals := &Condition{Step: "classify", Field: "material", Equals: "bone"}
	assert.True(t, equals.Satisfied(payloads))

	in := &Condition{Step: "classify", Field: "material", In: []string{"wood", "bone"}}
	assert.True(t, in.Satisfied(payloads))

	miss := &Condition{Step: "classify", Field: "material", Equals: "stone"}
	assert.False(t, miss.Satisfied(payloads))

	absentStep := &Condition{Step: "date", Field: "material", Equals: "bone"}
	assert.False(t, absentStep.Satisfied(payloads))

	absentField := &Condition{Step: "classify", Field: "era", Equals: "bronze"}
	assert.False(t, absentField.Satisfied(payloads))

	nonString := &Condition{Step: "classify", Field: "material", Equals: "bone"}
	assert.False(t, nonString.Satisfied(map[string]map[string]any{
		"classify": {"material": 42},
	}))
}

func TestLoadDefinitions(t *testing.T) {
	doc := `
workflows:
  - name: survey
    steps:
      - key: classify
        agent: artifact_analysis
      - key: date
        agent: carbon_dating
        depends_on: [classify]
        when:
          step: classify
          field: material
          in: [bone, wood]
      - key: report
        agent: report_generation
        depends_on: [classify, date]
`
	graphs, err := LoadDefinitions(strings.NewReader(doc))
	require.NoError(t, err)
	require.Contains(t, graphs, "survey")

	g := graphs["survey"]
	require.Len(t, g.Steps, 3)
	assert.Equal(t, []string{"classify"}, g.Steps[1].DependsOn)
	require.NotNil(t, g.Steps[1].When)
	assert.Equal(t, []string{"bone", "wood"}, g.Steps[1].When.In)
}

func TestLoadDefinitionsRejectsInvalid(t *testing.T) {
	_, err := LoadDefinitions(strings.NewReader("workflows: []"))
	assert.Error(t, err)

	_, err = LoadDefinitions(strings.NewReader(`
workflows:
  - name: bad
    steps:
      - key: a
        agent: x
        depends_on: [missing]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an earlier step")

	_, err = LoadDefinitions(strings.NewReader("workflows: [not a map"))
	assert.Error(t, err)
}

func TestDefaultDefinitionsValid(t *testing.T) {
	graphs := DefaultDefinitions()
	require.Contains(t, graphs, "artifact_analysis")
	require.Contains(t, graphs, "excavation_planning")
	require.Contains(t, graphs, "research")

	for name, g := range graphs {
		assert.NoError(t, g.Validate(), "workflow %s", name)
	}

	// The dating step only runs for organic material.
	artifact := graphs["artifact_analysis"]
	var dating *Step
	for i := range artifact.Steps {
		if artifact.Steps[i].Agent == "carbon_dating" {
			dating = &artifact.Steps[i]
		}
	}
	require.NotNil(t, dating)
	require.NotNil(t, dating.When)
	assert.Contains(t, dating.When.In, "bone")
	assert.NotContains(t, dating.When.In, "stone")
}
