package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agentix/studio/pkg/models"
)

// RunRecord is one persisted orchestration run.
type RunRecord struct {
	ID         string
	Request    string
	StartedAt  time.Time
	FinishedAt *time.Time
	Success    *bool
	Summary    models.WorkflowSummary
}

// ExecutionRecord is one persisted task execution within a run.
type ExecutionRecord struct {
	TaskID       string
	RunID        string
	AgentName    string
	Action       string
	Task         string
	Status       models.ExecutionStatus
	StartedAt    *time.Time
	FinishedAt   *time.Time
	ErrorMessage string
}

// CreateRun inserts a new run in the started state.
func (db *DB) CreateRun(runID, request string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, request) VALUES (?, ?)", runID, request)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// CompleteRun stamps a run's outcome and summary counts.
func (db *DB) CompleteRun(runID string, success bool, summary models.WorkflowSummary) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	res, err := db.conn.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP, success = ?,
		    total_tasks = ?, successful = ?, failed = ?, success_rate = ?
		WHERE id = ?`,
		success, summary.TotalTasks, summary.Successful, summary.Failed,
		summary.SuccessRate, runID)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("complete run: no run with id %s", runID)
	}
	return nil
}

// RecordExecution upserts the terminal record for one task execution.
func (db *DB) RecordExecution(runID string, exec *models.TaskExecution) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(`
		INSERT INTO executions
			(task_id, run_id, agent_name, action, task, status, started_at, finished_at, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			status = excluded.status,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			error_message = excluded.error_message`,
		exec.TaskID, runID, exec.AgentName, string(exec.Assignment.Action),
		exec.Assignment.Task, string(exec.Status), exec.StartTime, exec.EndTime,
		exec.ErrorMessage)
	if err != nil {
		return fmt.Errorf("record execution: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	rows, err := db.conn.Query(`
		SELECT id, request, started_at, finished_at, success,
		       total_tasks, successful, failed, success_rate
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var finished sql.NullTime
		var success sql.NullBool
		err := rows.Scan(&r.ID, &r.Request, &r.StartedAt, &finished, &success,
			&r.Summary.TotalTasks, &r.Summary.Successful, &r.Summary.Failed,
			&r.Summary.SuccessRate)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		if success.Valid {
			b := success.Bool
			r.Success = &b
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunExecutions returns the executions recorded for a run, oldest first.
func (db *DB) RunExecutions(runID string) ([]ExecutionRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	rows, err := db.conn.Query(`
		SELECT task_id, run_id, agent_name, action, task, status,
		       started_at, finished_at, error_message
		FROM executions WHERE run_id = ? ORDER BY started_at`, runID)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var execs []ExecutionRecord
	for rows.Next() {
		var e ExecutionRecord
		var status string
		var started, finished sql.NullTime
		err := rows.Scan(&e.TaskID, &e.RunID, &e.AgentName, &e.Action, &e.Task,
			&status, &started, &finished, &e.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		e.Status = models.ExecutionStatus(status)
		if started.Valid {
			t := started.Time
			e.StartedAt = &t
		}
		if finished.Valid {
			t := finished.Time
			e.FinishedAt = &t
		}
		execs = append(execs, e)
	}
	return execs, rows.Err()
}
