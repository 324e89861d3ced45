package agent

import (
	"context"
	"fmt"

	"github.com/archaeovault/archaeovault/internal/sources"
)

// ResearchAgent answers free-form archaeological research queries, gathering
// web material before its reasoning call.
type ResearchAgent struct {
	reasoner *Reasoner
	prompts  *PromptManager
	sources  *sources.Registry
}

func NewResearchAgent(reasoner *Reasoner, prompts *PromptManager, registry *sources.Registry) *ResearchAgent {
	return &ResearchAgent{reasoner: reasoner, prompts: prompts, sources: registry}
}

func (a *ResearchAgent) Key() string {
	return "research_assistant"
}

func (a *ResearchAgent) Describe() string {
	return "Answer an archaeological research query using gathered web references."
}

func (a *ResearchAgent) Execute(ctx context.Context, input map[string]any) (*Finding, error) {
	userPrompt := fmt.Sprintf("RESEARCH QUERY:\n%s", formatInput(input))

	query := stringField(input, "query", "question", "description")
	if refs := gatherReferences(ctx, a.sources, query, input); refs != "" {
		userPrompt += "\n\nREFERENCE MATERIAL:\n" + refs
	}

	completion, err := a.reasoner.Complete(ctx, a.Key(), a.prompts.Get(a.Key()), userPrompt)
	if err != nil {
		return nil, err
	}

	return &Finding{
		Payload:    completion.Payload,
		Confidence: completion.Confidence,
	}, nil
}
