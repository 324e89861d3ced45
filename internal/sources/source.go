package sources

import (
	"context"
	"fmt"

	"github.com/archaeovault/archaeovault/internal/governance"
	"github.com/archaeovault/archaeovault/internal/observability"
)

// Source fetches reference material an agent folds into its prompt.
// Target is a URL for page sources and a query string for search sources.
type Source interface {
	Name() string
	Description() string
	Gather(ctx context.Context, target string) (string, error)
}

// Registry manages the set of available sources and applies the fetch
// policy before dispatching to any of them.
type Registry struct {
	sources map[string]Source
	policy  governance.PolicyEngine
	logger  *observability.Logger
}

func NewRegistry(policy governance.PolicyEngine, logger *observability.Logger) *Registry {
	return &Registry{
		sources: make(map[string]Source),
		policy:  policy,
		logger:  logger,
	}
}

func (r *Registry) Register(s Source) {
	r.sources[s.Name()] = s
}

func (r *Registry) Get(name string) Source {
	return r.sources[name]
}

// Gather evaluates the fetch policy, then dispatches to the named source.
func (r *Registry) Gather(ctx context.Context, name, target string) (string, error) {
	s := r.sources[name]
	if s == nil {
		return "", fmt.Errorf("unknown source: %s", name)
	}

	if r.policy != nil {
		res, err := r.policy.Evaluate(ctx, governance.Request{Source: name, Target: target})
		if err != nil {
			return "", fmt.Errorf("policy evaluation failed: %w", err)
		}
		if r.logger != nil {
			r.logger.LogPolicyCheck(name, target, string(res.Effect), res.Reason)
		}
		if res.Effect == governance.EffectDeny {
			return "", fmt.Errorf("fetch denied: %s", res.Reason)
		}
	}

	out, err := s.Gather(ctx, target)
	if r.logger != nil {
		r.logger.LogFetch(name, target, len(out), err)
	}
	return out, err
}
