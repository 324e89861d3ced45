package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/archaeovault/archaeovault/internal/agent"
	"github.com/archaeovault/archaeovault/internal/observability"
)

// RunRecorder persists finished runs. Recording is best effort and never
// fails a workflow.
type RunRecorder interface {
	Record(ctx context.Context, res *Result) error
}

// Coordinator sequences a workflow's steps in graph order, feeding earlier
// payloads into later steps, retrying each failed step once, and skipping
// everything downstream of a terminal failure.
type Coordinator struct {
	graphs     map[string]*Graph
	exec       *Executor
	recorder   RunRecorder
	logger     *observability.Logger
	retryDelay time.Duration

	sleep func(time.Duration)
}

func NewCoordinator(graphs map[string]*Graph, exec *Executor, retryDelay time.Duration, recorder RunRecorder, logger *observability.Logger) *Coordinator {
	return &Coordinator{
		graphs:     graphs,
		exec:       exec,
		recorder:   recorder,
		logger:     logger,
		retryDelay: retryDelay,
		sleep:      time.Sleep,
	}
}

// Workflows lists the known workflow names.
func (c *Coordinator) Workflows() []string {
	names := make([]string, 0, len(c.graphs))
	for name := range c.graphs {
		names = append(names, name)
	}
	return names
}

// Run executes one workflow invocation. Step failures never surface as Go
// errors; they are terminal entries in the Result. The only error case is a
// request naming an unknown workflow.
func (c *Coordinator) Run(ctx context.Context, req Request) (*Result, error) {
	g, ok := c.graphs[req.Workflow]
	if !ok {
		return nil, fmt.Errorf("unknown workflow: %q", req.Workflow)
	}
	if req.Input == nil {
		req.Input = map[string]any{}
	}

	ctx = agent.WithRunID(ctx, req.ID)
	started := time.Now()

	payloads := make(map[string]map[string]any)
	failed := make(map[string]bool)
	skipped := make(map[string]bool)
	results := make([]StepResult, 0, len(g.Steps))

	for _, step := range g.Steps {
		// A caller may abandon the run between steps; nothing further is
		// executed once the context is done.
		if ctx.Err() != nil {
			results = append(results, StepResult{
				Step:   step.Key,
				Agent:  step.Agent,
				Status: StatusSkipped,
				Error:  "run cancelled",
			})
			skipped[step.Key] = true
			continue
		}

		if dep := failedDependency(step, failed); dep != "" {
			res := StepResult{
				Step:    step.Key,
				Agent:   step.Agent,
				Status:  StatusFailed,
				Failure: FailureUpstream,
				Error:   fmt.Sprintf("dependency %q failed", dep),
			}
			failed[step.Key] = true
			results = append(results, res)
			c.logger.LogStep(req.ID, req.Workflow, step.Key, string(res.Status), 0)
			continue
		}

		if step.When != nil {
			// A condition-gated step is skipped, not failed, when its
			// predicate does not hold; downstream steps treat it as
			// satisfied-and-absent.
			if skipped[step.When.Step] || !step.When.Satisfied(payloads) {
				results = append(results, StepResult{
					Step:   step.Key,
					Agent:  step.Agent,
					Status: StatusSkipped,
				})
				skipped[step.Key] = true
				c.logger.LogStep(req.ID, req.Workflow, step.Key, string(StatusSkipped), 0)
				continue
			}
		}

		observability.SetActive(req.Workflow, step.Key)
		input := buildStepInput(req.Input, step, payloads)

		res := c.exec.ExecuteStep(ctx, step, input)
		if res.Status == StatusFailed {
			// One bounded retry with a fixed backoff; a second failure is
			// terminal for the step and everything downstream of it.
			observability.SetWaiting(req.Workflow, step.Key)
			c.sleep(c.retryDelay)
			retry := c.exec.ExecuteStep(ctx, step, input)
			retry.Attempts += res.Attempts
			res = retry
		}

		if res.Succeeded() {
			payloads[step.Key] = res.Payload
		} else {
			failed[step.Key] = true
		}
		results = append(results, res)
		c.logger.LogStep(req.ID, req.Workflow, step.Key, string(res.Status), res.Attempts)
	}

	observability.SetIdle()

	result := c.aggregate(req, g, results, started)
	c.logger.LogWorkflow(req.ID, req.Workflow,
		result.Summary.Succeeded, result.Summary.Cached,
		result.Summary.Failed, result.Summary.Skipped,
		result.Summary.Elapsed)

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, result); err != nil {
			log.Printf("failed to record run %s: %v", req.ID, err)
		}
	}

	return result, nil
}

// failedDependency returns the first declared dependency with a terminal
// failure. Condition references count as dependencies for failure purposes.
func failedDependency(step Step, failed map[string]bool) string {
	for _, dep := range step.DependsOn {
		if failed[dep] {
			return dep
		}
	}
	if step.When != nil && failed[step.When.Step] {
		return step.When.Step
	}
	return ""
}

// buildStepInput merges the request input with the payloads of the step's
// satisfied dependencies under "findings". Condition-skipped dependencies
// are simply absent.
func buildStepInput(base map[string]any, step Step, payloads map[string]map[string]any) map[string]any {
	input := make(map[string]any, len(base)+1)
	for k, v := range base {
		input[k] = v
	}

	findings := make(map[string]any)
	for _, dep := range step.DependsOn {
		if payload, ok := payloads[dep]; ok {
			findings[dep] = payload
		}
	}
	if len(findings) > 0 {
		input["findings"] = findings
	}

	return input
}

func (c *Coordinator) aggregate(req Request, g *Graph, steps []StepResult, started time.Time) *Result {
	combined := make(map[string]map[string]any)
	summary := Summary{Total: len(steps)}

	for _, res := range steps {
		switch res.Status {
		case StatusSuccess:
			summary.Succeeded++
			combined[res.Step] = res.Payload
		case StatusCached:
			summary.Cached++
			combined[res.Step] = res.Payload
		case StatusFailed:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		}
	}

	finished := time.Now()
	summary.Elapsed = finished.Sub(started)

	return &Result{
		RequestID:  req.ID,
		Workflow:   g.Name,
		Steps:      steps,
		Combined:   combined,
		Summary:    summary,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
	}
}
