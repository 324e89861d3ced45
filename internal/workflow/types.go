package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal outcome of a step.
type Status string

const (
	StatusSuccess Status = "success"
	StatusCached  Status = "cached"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// FailureKind classifies a failed step.
type FailureKind string

const (
	FailureTimeout         FailureKind = "timeout"
	FailureAPIError        FailureKind = "api_error"
	FailureInvalidResponse FailureKind = "invalid_response"
	FailureUpstream        FailureKind = "upstream_failure"
)

// Request identifies one workflow invocation. Immutable once submitted.
type Request struct {
	ID          string         `json:"id"`
	Workflow    string         `json:"workflow"`
	Input       map[string]any `json:"input"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

func NewRequest(workflow string, input map[string]any) Request {
	return Request{
		ID:          uuid.New().String(),
		Workflow:    workflow,
		Input:       input,
		SubmittedAt: time.Now().UTC(),
	}
}

// StepResult is the terminal outcome of one step executor invocation.
// Payload and Confidence are set for success and cached outcomes only.
type StepResult struct {
	Step       string         `json:"step"`
	Agent      string         `json:"agent"`
	Status     Status         `json:"status"`
	Payload    map[string]any `json:"payload,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Failure    FailureKind    `json:"failure,omitempty"`
	Error      string         `json:"error,omitempty"`
	Attempts   int            `json:"attempts"`
	Elapsed    time.Duration  `json:"elapsed"`
}

// Succeeded reports whether the step produced a usable payload.
func (r StepResult) Succeeded() bool {
	return r.Status == StatusSuccess || r.Status == StatusCached
}

// Summary aggregates step outcomes for one run.
type Summary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Cached    int           `json:"cached"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Result is the aggregated outcome of one workflow invocation. The step
// list preserves the graph's declared order.
type Result struct {
	RequestID  string                    `json:"request_id"`
	Workflow   string                    `json:"workflow"`
	Steps      []StepResult              `json:"steps"`
	Combined   map[string]map[string]any `json:"combined"`
	Summary    Summary                   `json:"summary"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt time.Time                 `json:"finished_at"`
}

// StepStatus returns the recorded status for a step, or "" when the step
// never reached a terminal outcome (cancelled run).
func (r *Result) StepStatus(step string) Status {
	for _, s := range r.Steps {
		if s.Step == step {
			return s.Status
		}
	}
	return ""
}
