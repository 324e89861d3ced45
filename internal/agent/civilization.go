package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/archaeovault/archaeovault/internal/sources"
)

// CivilizationAgent researches the civilization behind an artifact. It
// gathers reference material through the source registry first, then makes
// its single reasoning call with that material folded into the prompt.
type CivilizationAgent struct {
	reasoner *Reasoner
	prompts  *PromptManager
	sources  *sources.Registry
}

func NewCivilizationAgent(reasoner *Reasoner, prompts *PromptManager, registry *sources.Registry) *CivilizationAgent {
	return &CivilizationAgent{reasoner: reasoner, prompts: prompts, sources: registry}
}

func (a *CivilizationAgent) Key() string {
	return "civilization_research"
}

func (a *CivilizationAgent) Describe() string {
	return "Research the civilization and cultural context associated with an artifact."
}

func (a *CivilizationAgent) Execute(ctx context.Context, input map[string]any) (*Finding, error) {
	userPrompt := fmt.Sprintf("RESEARCH SUBJECT:\n%s", formatInput(input))

	query := stringField(input, "civilization", "culture", "query")
	if query == "" {
		if findings, ok := input["findings"].(map[string]any); ok {
			if classify, ok := findings["classify"].(map[string]any); ok {
				query = stringField(classify, "culture", "civilization")
			}
		}
	}

	if refs := gatherReferences(ctx, a.sources, query+" civilization archaeology", input); refs != "" {
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

// gatherReferences collects optional background material: a web search for
// the query plus the first user-supplied reference URL. Failures degrade to
// an empty block; gathering is an enrichment, not part of the reasoning
// call's success criteria.
func gatherReferences(ctx context.Context, registry *sources.Registry, query string, input map[string]any) string {
	if registry == nil {
		return ""
	}

	var sections []string

	if strings.TrimSpace(query) != "" {
		if res, err := registry.Gather(ctx, "search", query); err == nil {
			sections = append(sections, "SEARCH RESULTS:\n"+res)
		} else {
			log.Printf("reference search failed: %v", err)
		}
	}

	if urls := stringSlice(input["reference_urls"]); len(urls) > 0 {
		if res, err := registry.Gather(ctx, "scraper", urls[0]); err == nil {
			sections = append(sections, res)
		} else {
			log.Printf("reference fetch failed for %s: %v", urls[0], err)
		}
	}

	return strings.Join(sections, "\n\n")
}
