package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/archaeovault/archaeovault/internal/agent"
	"github.com/archaeovault/archaeovault/internal/cache"
	"github.com/archaeovault/archaeovault/internal/observability"
)

// cacheEntry is the serialized form of a successful step outcome.
type cacheEntry struct {
	Payload    map[string]any `json:"payload"`
	Confidence float64        `json:"confidence"`
}

// Executor runs one step: cache check, at most one agent call, at most one
// cache write. Retry policy belongs to the Coordinator.
type Executor struct {
	agents *agent.Registry
	cache  cache.Cache
	ttl    time.Duration
	logger *observability.Logger
}

func NewExecutor(agents *agent.Registry, c cache.Cache, ttl time.Duration, logger *observability.Logger) *Executor {
	return &Executor{
		agents: agents,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// ExecuteStep resolves one step to a terminal StepResult. It never returns
// an error: failures are classified into the result's FailureKind.
func (e *Executor) ExecuteStep(ctx context.Context, step Step, input map[string]any) StepResult {
	started := time.Now()
	result := StepResult{
		Step:     step.Key,
		Agent:    step.Agent,
		Attempts: 1,
	}
	runID := agent.RunIDFrom(ctx)

	key := Fingerprint(step.Key, input)
	if data, ok := e.cache.Get(ctx, key); ok {
		var entry cacheEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			e.logger.LogCache(runID, step.Key, "hit", key)
			result.Status = StatusCached
			result.Payload = entry.Payload
			result.Confidence = entry.Confidence
			result.Attempts = 0
			result.Elapsed = time.Since(started)
			return result
		}
		// A corrupt entry is dropped and treated as a miss.
		log.Printf("dropping corrupt cache entry for %s", key)
		e.cache.Delete(ctx, key)
	}
	e.logger.LogCache(runID, step.Key, "miss", key)

	a := e.agents.Get(step.Agent)
	if a == nil {
		result.Status = StatusFailed
		result.Failure = FailureAPIError
		result.Error = "unknown agent: " + step.Agent
		result.Elapsed = time.Since(started)
		return result
	}

	finding, err := a.Execute(ctx, input)
	result.Elapsed = time.Since(started)
	if err != nil {
		result.Status = StatusFailed
		result.Failure = classifyError(err)
		result.Error = err.Error()
		return result
	}

	result.Status = StatusSuccess
	result.Payload = finding.Payload
	result.Confidence = finding.Confidence

	if data, err := json.Marshal(cacheEntry{Payload: finding.Payload, Confidence: finding.Confidence}); err == nil {
		e.cache.Set(ctx, key, data, e.ttl)
	}

	return result
}

// classifyError maps an agent error onto the failure taxonomy.
func classifyError(err error) FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, agent.ErrInvalidResponse):
		return FailureInvalidResponse
	default:
		return FailureAPIError
	}
}
