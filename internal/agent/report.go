package agent

import (
	"context"
	"fmt"
)

// ReportAgent synthesizes the findings of earlier steps into a structured
// report. The coordinator passes dependency payloads under "findings".
type ReportAgent struct {
	reasoner *Reasoner
	prompts  *PromptManager
}

func NewReportAgent(reasoner *Reasoner, prompts *PromptManager) *ReportAgent {
	return &ReportAgent{reasoner: reasoner, prompts: prompts}
}

func (a *ReportAgent) Key() string {
	return "report_generation"
}

func (a *ReportAgent) Describe() string {
	return "Synthesize earlier findings into a structured report."
}

func (a *ReportAgent) Execute(ctx context.Context, input map[string]any) (*Finding, error) {
	userPrompt := fmt.Sprintf("FINDINGS TO REPORT ON:\n%s", formatInput(input))

	completion, err := a.reasoner.Complete(ctx, a.Key(), a.prompts.Get(a.Key()), userPrompt)
	if err != nil {
		return nil, err
	}

	return &Finding{
		Payload:    completion.Payload,
		Confidence: completion.Confidence,
	}, nil
}
