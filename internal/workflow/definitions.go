package workflow

// organicMaterials lists material classifications for which radiocarbon
// dating is applicable.
var organicMaterials = []string{"bone", "wood", "textile", "shell", "charcoal", "leather", "plant"}

// DefaultDefinitions returns the built-in workflow graphs. Deployments may
// replace them with a YAML definitions file.
func DefaultDefinitions() map[string]*Graph {
	graphs := map[string]*Graph{
		"artifact_analysis": {
			Name: "artifact_analysis",
			Steps: []Step{
				{Key: "classify", Agent: "artifact_analysis"},
				{
					Key:       "date",
					Agent:     "carbon_dating",
					DependsOn: []string{"classify"},
					When:      &Condition{Step: "classify", Field: "material", In: organicMaterials},
				},
				{Key: "civilization", Agent: "civilization_research", DependsOn: []string{"classify"}},
				{Key: "report", Agent: "report_generation", DependsOn: []string{"classify", "date", "civilization"}},
			},
		},
		"excavation_planning": {
			Name: "excavation_planning",
			Steps: []Step{
				{Key: "plan", Agent: "excavation_planning"},
				{Key: "report", Agent: "report_generation", DependsOn: []string{"plan"}},
			},
		},
		"research": {
			Name: "research",
			Steps: []Step{
				{Key: "research", Agent: "research_assistant"},
				{Key: "report", Agent: "report_generation", DependsOn: []string{"research"}},
			},
		},
	}

	for _, g := range graphs {
		if err := g.Validate(); err != nil {
			// Built-in graphs are fixed at compile time; a validation
			// failure here is a programming error.
			panic(err)
		}
	}

	return graphs
}
