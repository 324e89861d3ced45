package agent

import (
	"context"
	"fmt"
)

// ExcavationAgent drafts an excavation plan for a described site.
type ExcavationAgent struct {
	reasoner *Reasoner
	prompts  *PromptManager
}

func NewExcavationAgent(reasoner *Reasoner, prompts *PromptManager) *ExcavationAgent {
	return &ExcavationAgent{reasoner: reasoner, prompts: prompts}
}

func (a *ExcavationAgent) Key() string {
	return "excavation_planning"
}

func (a *ExcavationAgent) Describe() string {
	return "Draft a phased excavation plan for a described site."
}

func (a *ExcavationAgent) Execute(ctx context.Context, input map[string]any) (*Finding, error) {
	userPrompt := fmt.Sprintf("SITE DESCRIPTION:\n%s", formatInput(input))

	completion, err := a.reasoner.Complete(ctx, a.Key(), a.prompts.Get(a.Key()), userPrompt)
	if err != nil {
		return nil, err
	}

	return &Finding{
		Payload:    completion.Payload,
		Confidence: completion.Confidence,
	}, nil
}
