package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archaeovault/archaeovault/internal/store"
	"github.com/archaeovault/archaeovault/internal/workflow"
)

type fakeRunner struct {
	lastReq workflow.Request
	result  *workflow.Result
	err     error
}

func (f *fakeRunner) Run(_ context.Context, req workflow.Request) (*workflow.Result, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRunner) Workflows() []string {
	return []string{"artifact_analysis", "research"}
}

type fakeLister struct {
	runs []store.RunSummary
	err  error
}

func (f *fakeLister) ListRuns(context.Context, int) ([]store.RunSummary, error) {
	return f.runs, f.err
}

func serve(g *HTTPGateway, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	g.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	g := NewHTTPGateway(":0", &fakeRunner{}, nil)
	rec := serve(g, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListWorkflows(t *testing.T) {
	g := NewHTTPGateway(":0", &fakeRunner{}, nil)
	rec := serve(g, http.MethodGet, "/api/v1/workflows", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Workflows []string `json:"workflows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"artifact_analysis", "research"}, body.Workflows)
}

func TestRunWorkflow(t *testing.T) {
	runner := &fakeRunner{
		result: &workflow.Result{
			RequestID: "r-1",
			Workflow:  "artifact_analysis",
			Summary:   workflow.Summary{Total: 4, Succeeded: 3, Skipped: 1},
			StartedAt: time.Now().UTC(),
		},
	}
	g := NewHTTPGateway(":0", runner, nil)

	rec := serve(g, http.MethodPost, "/api/v1/workflows/artifact_analysis",
		`{"input": {"description": "bronze fibula"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "artifact_analysis", runner.lastReq.Workflow)
	assert.Equal(t, "bronze fibula", runner.lastReq.Input["description"])
	assert.NotEmpty(t, runner.lastReq.ID)

	var res workflow.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "r-1", res.RequestID)
	assert.Equal(t, 3, res.Summary.Succeeded)
}

func TestRunWorkflowUnknownName(t *testing.T) {
	runner := &fakeRunner{err: errors.New(`unknown workflow: "bogus"`)}
	g := NewHTTPGateway(":0", runner, nil)

	rec := serve(g, http.MethodPost, "/api/v1/workflows/bogus", `{"input": {}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunWorkflowBadBody(t *testing.T) {
	g := NewHTTPGateway(":0", &fakeRunner{}, nil)
	rec := serve(g, http.MethodPost, "/api/v1/workflows/research", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRuns(t *testing.T) {
	lister := &fakeLister{runs: []store.RunSummary{
		{ID: "r-2", Workflow: "research", Succeeded: 2},
		{ID: "r-1", Workflow: "artifact_analysis", Succeeded: 4},
	}}
	g := NewHTTPGateway(":0", &fakeRunner{}, lister)

	rec := serve(g, http.MethodGet, "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Runs []store.RunSummary `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Runs, 2)
	assert.Equal(t, "r-2", body.Runs[0].ID)
}

func TestListRunsStoreError(t *testing.T) {
	g := NewHTTPGateway(":0", &fakeRunner{}, &fakeLister{err: errors.New("db closed")})
	rec := serve(g, http.MethodGet, "/api/v1/runs", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
