package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// Run statuses. A run is created running and moves to exactly one terminal
// status; a process killed mid-run leaves the row running for an operator
// to reconcile.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one execution of the ingestion pipeline.
type Run struct {
	ID           string
	StartedAt    time.Time
	CompletedAt  time.Time
	Status       string
	ScriptName   string
	Platform     string
	SystemInfo   string
	PostsFetched int
	PostsNew     int
	ErrorMessage string
}

func (s *Store) InsertRun(ctx context.Context, r *Run) error {
	_, err := s.sql.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, status, script_name, platform, system_info, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		r.ID, fmtTime(r.StartedAt), r.Status, r.ScriptName, r.Platform, r.SystemInfo, fmtTime(time.Now()))
	return errors.Wrap(err, "insert run")
}

// FinishRun records the terminal status and counters for a run.
func (s *Store) FinishRun(ctx context.Context, runID, status string, completedAt time.Time, postsFetched, postsNew int, errorMessage string) error {
	res, err := s.sql.ExecContext(ctx, `
		UPDATE runs SET completed_at = ?, status = ?, posts_fetched = ?, posts_new = ?, error_message = ?
		WHERE run_id = ?`,
		fmtTime(completedAt), status, postsFetched, postsNew, nullIfEmpty(errorMessage), runID)
	if err != nil {
		return errors.Wrap(err, "finish run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "run %s", runID)
	}
	return nil
}

// GetRun loads one run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.sql.QueryRowContext(ctx, `
		SELECT run_id, started_at, COALESCE(completed_at,''), status, COALESCE(script_name,''),
		       COALESCE(platform,''), COALESCE(system_info,''), posts_fetched, posts_new,
		       COALESCE(error_message,'')
		FROM runs WHERE run_id = ?`, runID)
	return scanRun(row)
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT run_id, started_at, COALESCE(completed_at,''), status, COALESCE(script_name,''),
		       COALESCE(platform,''), COALESCE(system_info,''), posts_fetched, posts_new,
		       COALESCE(error_message,'')
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "recent runs")
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var started, completed string
	if err := row.Scan(&r.ID, &started, &completed, &r.Status, &r.ScriptName,
		&r.Platform, &r.SystemInfo, &r.PostsFetched, &r.PostsNew, &r.ErrorMessage); err != nil {
		return Run{}, errors.Wrap(err, "scan run")
	}
	r.StartedAt = parseTime(started)
	if completed != "" {
		r.CompletedAt = parseTime(completed)
	}
	return r, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
