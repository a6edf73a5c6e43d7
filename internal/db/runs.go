package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Run is one recorded conversion attempt.
type Run struct {
	ID         string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	Input      string          `json:"input_path"`
	ScriptPath string          `json:"script_path,omitempty"`
	STLPath    string          `json:"stl_path,omitempty"`
	Params     json.RawMessage `json:"params"`
	Rows       int             `json:"grid_rows"`
	Cols       int             `json:"grid_cols"`
	Vertices   int             `json:"vertex_count"`
	Faces      int             `json:"face_count"`
	Duration   time.Duration   `json:"duration"`
	Status     string          `json:"status"`
	ErrorKind  string          `json:"error_kind,omitempty"`
	Error      string          `json:"error_message,omitempty"`
}

// ErrRunNotFound is returned by GetRun for unknown ids.
var ErrRunNotFound = errors.New("run not found")

// InsertRun stores r, assigning a new id when r.ID is empty. The id is
// returned.
func (db *DB) InsertRun(r *Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		return "", fmt.Errorf("run %s has no status", r.ID)
	}
	params := r.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	_, err := db.Exec(`
		INSERT INTO conversion_runs (
			run_id, started_nanos, input_path, script_path, stl_path, params_json,
			grid_rows, grid_cols, vertex_count, face_count, duration_ms,
			status, error_kind, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixNano(), r.Input, nullString(r.ScriptPath), nullString(r.STLPath), string(params),
		r.Rows, r.Cols, r.Vertices, r.Faces, r.Duration.Milliseconds(),
		r.Status, nullString(r.ErrorKind), nullString(r.Error),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `run_id, started_nanos, input_path, script_path, stl_path, params_json,
	grid_rows, grid_cols, vertex_count, face_count, duration_ms,
	status, error_kind, error_message`

// GetRun loads the run with the given id.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM conversion_runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM conversion_runs
		ORDER BY started_nanos DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// CountRuns returns the number of runs with the given status, or all runs
// when status is empty.
func (db *DB) CountRuns(status string) (int, error) {
	var n int
	var err error
	if status == "" {
		err = db.QueryRow(`SELECT COUNT(*) FROM conversion_runs`).Scan(&n)
	} else {
		err = db.QueryRow(`SELECT COUNT(*) FROM conversion_runs WHERE status = ?`, status).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r                            Run
		startedNanos, durationMs     int64
		script, stl, errKind, errMsg sql.NullString
		params                       string
	)
	if err := s.Scan(&r.ID, &startedNanos, &r.Input, &script, &stl, &params,
		&r.Rows, &r.Cols, &r.Vertices, &r.Faces, &durationMs,
		&r.Status, &errKind, &errMsg); err != nil {
		return nil, err
	}
	r.StartedAt = time.Unix(0, startedNanos).UTC()
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.ScriptPath = script.String
	r.STLPath = stl.String
	r.ErrorKind = errKind.String
	r.Error = errMsg.String
	r.Params = json.RawMessage(params)
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
