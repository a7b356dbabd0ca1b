// Package store is the SQLite persistence layer. A Store is passed
// explicitly into every component that needs one; there is no package-level
// handle.
package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// ErrDuplicateURN is returned by InsertPost when the posts.urn uniqueness
// constraint rejects the row. Concurrent runs can hit this even after a
// lookup found nothing; callers count it and continue.
var ErrDuplicateURN = errors.New("duplicate urn")

// ErrNotFound is returned by point lookups that matched no row.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database holding posts, observations and runs.
type Store struct{ sql *sql.DB }

func Open(path string) (*Store, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;`); err != nil {
		return nil, errors.Wrap(err, "set pragmas")
	}
	s := &Store{sql: d}
	if err := s.migrate(); err != nil {
		_ = d.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return s, nil
}

func (s *Store) Close() error { return s.sql.Close() }

func (s *Store) migrate() error {
	_, err := s.sql.Exec(`
	CREATE TABLE IF NOT EXISTS posts (
	  post_id TEXT PRIMARY KEY,
	  urn TEXT NOT NULL UNIQUE,
	  full_urn TEXT,
	  platform TEXT NOT NULL,
	  posted_at_timestamp INTEGER,
	  author_username TEXT,
	  text_content TEXT,
	  post_type TEXT,
	  url TEXT,
	  raw_json TEXT,
	  first_seen_at TEXT NOT NULL,
	  is_read INTEGER NOT NULL DEFAULT 0,
	  is_marked INTEGER NOT NULL DEFAULT 0,
	  created_at TEXT NOT NULL,
	  updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_first_seen ON posts(first_seen_at);
	CREATE TABLE IF NOT EXISTS observations (
	  observation_id TEXT PRIMARY KEY,
	  post_id TEXT NOT NULL REFERENCES posts(post_id),
	  run_id TEXT NOT NULL REFERENCES runs(run_id),
	  observed_at TEXT NOT NULL,
	  total_reactions INTEGER NOT NULL DEFAULT 0,
	  stats_json TEXT,
	  raw_json TEXT,
	  source_file_path TEXT,
	  created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_observations_post ON observations(post_id);
	CREATE INDEX IF NOT EXISTS idx_observations_run ON observations(run_id);
	CREATE TABLE IF NOT EXISTS runs (
	  run_id TEXT PRIMARY KEY,
	  started_at TEXT NOT NULL,
	  completed_at TEXT,
	  status TEXT NOT NULL,
	  script_name TEXT,
	  platform TEXT,
	  system_info TEXT,
	  posts_fetched INTEGER NOT NULL DEFAULT 0,
	  posts_new INTEGER NOT NULL DEFAULT 0,
	  error_message TEXT,
	  created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tags (
	  tag_id TEXT PRIMARY KEY,
	  name TEXT NOT NULL UNIQUE,
	  color TEXT NOT NULL DEFAULT 'cyan',
	  description TEXT,
	  created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS profiles (
	  profile_id TEXT PRIMARY KEY,
	  username TEXT NOT NULL UNIQUE,
	  name TEXT,
	  notes TEXT,
	  platform TEXT NOT NULL DEFAULT 'linkedin',
	  active INTEGER NOT NULL DEFAULT 1,
	  created_at TEXT NOT NULL,
	  updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS profile_tags (
	  profile_id TEXT NOT NULL REFERENCES profiles(profile_id),
	  tag_id TEXT NOT NULL REFERENCES tags(tag_id),
	  created_at TEXT NOT NULL,
	  PRIMARY KEY (profile_id, tag_id)
	);
	`)
	return err
}

// fmtTime and parseTime fix the on-disk timestamp representation to UTC
// RFC3339, which sqlite's date() understands for the histogram queries.
func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
