package agent

import (
	"context"
	"encoding/json"
)

// Finding is the parsed outcome of one reasoning call: a structured payload
// plus the model's self-reported confidence in [0,1].
type Finding struct {
	Payload    map[string]any `json:"payload"`
	Confidence float64        `json:"confidence"`
}

// Agent wraps one external reasoning capability behind a stable key.
// Execute performs exactly one reasoning call; retries belong to the caller.
type Agent interface {
	Key() string
	Describe() string
	Execute(ctx context.Context, input map[string]any) (*Finding, error)
}

// Registry manages the set of available agents.
type Registry struct {
	agents map[string]Agent
}

func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]Agent),
	}
}

func (r *Registry) Register(a Agent) {
	r.agents[a.Key()] = a
}

func (r *Registry) Get(key string) Agent {
	return r.agents[key]
}

func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.agents))
	for k := range r.agents {
		keys = append(keys, k)
	}
	return keys
}

type runIDKey struct{}

// WithRunID tags ctx with the workflow run identifier so agents can attribute
// their reasoning-call logs to the run that triggered them.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFrom extracts the run identifier, or "" when absent.
func RunIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey{}).(string); ok {
		return v
	}
	return ""
}

// formatInput renders an input payload deterministically for inclusion in a
// prompt. encoding/json sorts map keys, so equal inputs render identically.
func formatInput(input map[string]any) string {
	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func stringField(input map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := input[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
