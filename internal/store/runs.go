package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/archaeovault/archaeovault/internal/workflow"
)

// RunStore keeps the history of workflow runs in SQLite.
type RunStore struct {
	DB *sql.DB
}

func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS workflow_runs (
			id TEXT PRIMARY KEY,
			workflow TEXT,
			started DATETIME,
			finished DATETIME,
			succeeded INTEGER,
			cached INTEGER,
			failed INTEGER,
			skipped INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS step_results (
			run_id TEXT,
			position INTEGER,
			step TEXT,
			agent TEXT,
			status TEXT,
			failure TEXT,
			error TEXT,
			confidence REAL,
			attempts INTEGER,
			payload TEXT
		);`,
	}
	for _, q := range queries {
		_, err = db.Exec(q)
		if err != nil {
			return nil, err
		}
	}

	return &RunStore{DB: db}, nil
}

// Record persists a finished run and its step results.
func (s *RunStore) Record(ctx context.Context, res *workflow.Result) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workflow_runs (id, workflow, started, finished, succeeded, cached, failed, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RequestID, res.Workflow, res.StartedAt, res.FinishedAt,
		res.Summary.Succeeded, res.Summary.Cached, res.Summary.Failed, res.Summary.Skipped,
	)
	if err != nil {
		return err
	}

	for i, step := range res.Steps {
		payload := ""
		if step.Payload != nil {
			data, err := json.Marshal(step.Payload)
			if err != nil {
				return fmt.Errorf("failed to serialize payload for step %s: %w", step.Step, err)
			}
			payload = string(data)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO step_results (run_id, position, step, agent, status, failure, error, confidence, attempts, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.RequestID, i, step.Step, step.Agent, string(step.Status), string(step.Failure),
			step.Error, step.Confidence, step.Attempts, payload,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RunSummary is one row of run history.
type RunSummary struct {
	ID        string    `json:"id"`
	Workflow  string    `json:"workflow"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Succeeded int       `json:"succeeded"`
	Cached    int       `json:"cached"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, workflow, started, finished, succeeded, cached, failed, skipped
		 FROM workflow_runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Workflow, &r.Started, &r.Finished,
			&r.Succeeded, &r.Cached, &r.Failed, &r.Skipped); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunSteps returns the recorded step results of one run in execution
// order.
func (s *RunStore) GetRunSteps(ctx context.Context, runID string) ([]workflow.StepResult, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT step, agent, status, failure, error, confidence, attempts, payload
		 FROM step_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []workflow.StepResult
	for rows.Next() {
		var (
			res             workflow.StepResult
			status, failure string
			payload         string
		)
		if err := rows.Scan(&res.Step, &res.Agent, &status, &failure,
			&res.Error, &res.Confidence, &res.Attempts, &payload); err != nil {
			return nil, err
		}
		res.Status = workflow.Status(status)
		res.Failure = workflow.FailureKind(failure)
		if payload != "" {
			if err := json.Unmarshal([]byte(payload), &res.Payload); err != nil {
				return nil, fmt.Errorf("corrupt payload for run %s step %s: %w", runID, res.Step, err)
			}
		}
		steps = append(steps, res)
	}
	return steps, rows.Err()
}

// Close releases the database handle.
func (s *RunStore) Close() error {
	return s.DB.Close()
}
