package ingest

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"postvault/internal/identifier"
	"postvault/internal/metrics"
	"postvault/internal/store"
)

// ErrRunCompleted is returned when Complete is called on a run that already
// reached a terminal status. The second call is a programming error, not a
// no-op, so it is surfaced loudly.
var ErrRunCompleted = errors.New("run already completed")

// Run tracks one ingestion execution from start to its single terminal
// transition.
type Run struct {
	id        string
	store     *store.Store
	startedAt time.Time
	completed bool
}

// StartRun records a new run in status running and returns its tracker.
func StartRun(ctx context.Context, st *store.Store, scriptName, platform string) (*Run, error) {
	hostname, _ := os.Hostname()
	sysInfo, _ := json.Marshal(map[string]string{
		"hostname": hostname,
		"platform": platform,
		"script":   scriptName,
	})
	r := &Run{
		id:        identifier.Generate(identifier.PrefixRun),
		store:     st,
		startedAt: time.Now().UTC(),
	}
	err := st.InsertRun(ctx, &store.Run{
		ID:         r.id,
		StartedAt:  r.startedAt,
		Status:     store.RunStatusRunning,
		ScriptName: scriptName,
		Platform:   platform,
		SystemInfo: string(sysInfo),
	})
	if err != nil {
		return nil, errors.Wrap(err, "start run")
	}
	metrics.IngestRuns.Inc()
	return r, nil
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Complete moves the run to its terminal status: failed when any document
// errored or an abort message was supplied, completed otherwise. Calling it
// twice returns ErrRunCompleted and leaves the stored row untouched.
func (r *Run) Complete(ctx context.Context, stats Stats, errorMessage string) error {
	if r.completed {
		return errors.Wrapf(ErrRunCompleted, "run %s", r.id)
	}
	status := store.RunStatusCompleted
	if stats.Errors > 0 || errorMessage != "" {
		status = store.RunStatusFailed
	}
	if err := r.store.FinishRun(ctx, r.id, status, time.Now().UTC(), stats.Processed, stats.New, errorMessage); err != nil {
		return errors.Wrap(err, "complete run")
	}
	r.completed = true
	return nil
}
