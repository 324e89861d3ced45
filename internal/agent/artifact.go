package agent

import (
	"context"
	"fmt"
)

// ArtifactAgent classifies an artifact from its submitted description:
// material, object type, period, culture and condition.
type ArtifactAgent struct {
	reasoner *Reasoner
	prompts  *PromptManager
}

func NewArtifactAgent(reasoner *Reasoner, prompts *PromptManager) *ArtifactAgent {
	return &ArtifactAgent{reasoner: reasoner, prompts: prompts}
}

func (a *ArtifactAgent) Key() string {
	return "artifact_analysis"
}

func (a *ArtifactAgent) Describe() string {
	return "Classify an artifact's material, type, period, culture and condition from its description."
}

func (a *ArtifactAgent) Execute(ctx context.Context, input map[string]any) (*Finding, error) {
	userPrompt := fmt.Sprintf("ARTIFACT SUBMISSION:\n%s", formatInput(input))

	completion, err := a.reasoner.Complete(ctx, a.Key(), a.prompts.Get(a.Key()), userPrompt)
	if err != nil {
		return nil, err
	}

	return &Finding{
		Payload:    completion.Payload,
		Confidence: completion.Confidence,
	}, nil
}
