package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// Observation records one sighting of a post during one run. Observations
// are append-only: never updated, never deduplicated.
type Observation struct {
	ID             string
	PostID         string
	RunID          string
	ObservedAt     time.Time
	TotalReactions int64
	StatsJSON      []byte
	RawJSON        []byte
	SourceFilePath string
}

func (s *Store) InsertObservation(ctx context.Context, o *Observation) error {
	_, err := s.sql.ExecContext(ctx, `
		INSERT INTO observations (
		  observation_id, post_id, run_id, observed_at,
		  total_reactions, stats_json, raw_json, source_file_path, created_at
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		o.ID, o.PostID, o.RunID, fmtTime(o.ObservedAt),
		o.TotalReactions, string(o.StatsJSON), string(o.RawJSON), o.SourceFilePath, fmtTime(time.Now()))
	return errors.Wrap(err, "insert observation")
}

// ObservationsForPost returns the post's time series, oldest first.
func (s *Store) ObservationsForPost(ctx context.Context, postID string) ([]Observation, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT observation_id, post_id, run_id, observed_at, total_reactions,
		       COALESCE(stats_json,''), COALESCE(raw_json,''), COALESCE(source_file_path,'')
		FROM observations WHERE post_id = ? ORDER BY observed_at, observation_id`, postID)
	if err != nil {
		return nil, errors.Wrap(err, "observations for post")
	}
	defer rows.Close()
	var out []Observation
	for rows.Next() {
		var o Observation
		var observed, stats, raw string
		if err := rows.Scan(&o.ID, &o.PostID, &o.RunID, &observed, &o.TotalReactions,
			&stats, &raw, &o.SourceFilePath); err != nil {
			return nil, errors.Wrap(err, "scan observation")
		}
		o.ObservedAt = parseTime(observed)
		o.StatsJSON = []byte(stats)
		o.RawJSON = []byte(raw)
		out = append(out, o)
	}
	return out, rows.Err()
}
