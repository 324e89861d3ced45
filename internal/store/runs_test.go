package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archaeovault/archaeovault/internal/workflow"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := NewRunStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id string, started time.Time) *workflow.Result {
	return &workflow.Result{
		RequestID: id,
		Workflow:  "artifact_analysis",
		Steps: []workflow.StepResult{
			{
				Step:       "classify",
				Agent:      "artifact_analysis",
				Status:     workflow.StatusSuccess,
				Payload:    map[string]any{"material": "bone", "type": "needle"},
				Confidence: 0.9,
				Attempts:   1,
			},
			{
				Step:   "date",
				Agent:  "carbon_dating",
				Status: workflow.StatusSkipped,
			},
			{
				Step:     "report",
				Agent:    "report_generation",
				Status:   workflow.StatusFailed,
				Failure:  workflow.FailureTimeout,
				Error:    "context deadline exceeded",
				Attempts: 2,
			},
		},
		Summary:    workflow.Summary{Total: 3, Succeeded: 1, Failed: 1, Skipped: 1},
		StartedAt:  started,
		FinishedAt: started.Add(12 * time.Second),
	}
}

func TestRunStoreRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, sampleResult("run-1", base)))
	require.NoError(t, s.Record(ctx, sampleResult("run-2", base.Add(time.Hour))))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, "artifact_analysis", runs[0].Workflow)
	assert.Equal(t, 1, runs[0].Succeeded)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, 1, runs[0].Skipped)

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRunStoreGetRunSteps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, sampleResult("run-1", time.Now().UTC())))

	steps, err := s.GetRunSteps(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, "classify", steps[0].Step)
	assert.Equal(t, workflow.StatusSuccess, steps[0].Status)
	assert.Equal(t, "bone", steps[0].Payload["material"])
	assert.Equal(t, 0.9, steps[0].Confidence)

	assert.Equal(t, workflow.StatusSkipped, steps[1].Status)
	assert.Nil(t, steps[1].Payload)

	assert.Equal(t, workflow.StatusFailed, steps[2].Status)
	assert.Equal(t, workflow.FailureTimeout, steps[2].Failure)
	assert.Equal(t, 2, steps[2].Attempts)

	none, err := s.GetRunSteps(ctx, "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, none)
}
