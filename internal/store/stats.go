package store

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Totals are the aggregate corpus counts shown by the stats command.
type Totals struct {
	Posts        int
	MarkedPosts  int
	Observations int
	Runs         int
}

func (s *Store) GetTotals(ctx context.Context) (Totals, error) {
	var t Totals
	row := s.sql.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM posts),
		       (SELECT COUNT(*) FROM posts WHERE is_marked = 1),
		       (SELECT COUNT(*) FROM observations),
		       (SELECT COUNT(*) FROM runs)`)
	if err := row.Scan(&t.Posts, &t.MarkedPosts, &t.Observations, &t.Runs); err != nil {
		return Totals{}, errors.Wrap(err, "totals")
	}
	return t, nil
}

// DayCount is one bucket of the first-seen histogram.
type DayCount struct {
	Day   string
	Count int
}

// FirstSeenHistogram buckets posts by the calendar day they were first
// ingested, oldest day first.
func (s *Store) FirstSeenHistogram(ctx context.Context) ([]DayCount, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT date(first_seen_at), COUNT(*)
		FROM posts GROUP BY date(first_seen_at) ORDER BY date(first_seen_at)`)
	if err != nil {
		return nil, errors.Wrap(err, "first seen histogram")
	}
	defer rows.Close()
	var out []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, errors.Wrap(err, "scan histogram row")
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
