package governance

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request contains the context of a source fetch to be evaluated.
type Request struct {
	Source string // source name, e.g. "scraper" or "search"
	Target string // URL or query being fetched
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// PolicyEngine evaluates source fetches against a set of rules.
type PolicyEngine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
}

// DefaultPolicyEngine is a basic implementation of PolicyEngine.
type DefaultPolicyEngine struct {
	DeniedSources map[string]bool
	DeniedHosts   map[string]bool
	DeniedRegex   []*regexp.Regexp
}

func NewDefaultPolicyEngine() *DefaultPolicyEngine {
	return &DefaultPolicyEngine{
		DeniedSources: make(map[string]bool),
		DeniedHosts:   make(map[string]bool),
		DeniedRegex:   make([]*regexp.Regexp, 0),
	}
}

func (e *DefaultPolicyEngine) DenySource(name string) {
	e.DeniedSources[name] = true
}

func (e *DefaultPolicyEngine) DenyHost(host string) {
	e.DeniedHosts[host] = true
}

func (e *DefaultPolicyEngine) DenyTarget(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	e.DeniedRegex = append(e.DeniedRegex, re)
	return nil
}

func (e *DefaultPolicyEngine) Evaluate(ctx context.Context, req Request) (Result, error) {
	if e.DeniedSources[req.Source] {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("Source '%s' is restricted by system policy", req.Source),
		}, nil
	}

	if u, err := url.Parse(req.Target); err == nil && u.Hostname() != "" {
		if e.DeniedHosts[u.Hostname()] {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Host '%s' is restricted by system policy", u.Hostname()),
			}, nil
		}
	}

	for _, re := range e.DeniedRegex {
		if re.MatchString(req.Target) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Target matches restricted pattern: %s", re.String()),
			}, nil
		}
	}

	return Result{
		Effect: EffectAllow,
		Reason: "Approved by default policy",
	}, nil
}
