package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
)

// Post is one deduplicated post row, keyed by its URN within a platform.
type Post struct {
	ID                string
	URN               string
	FullURN           string
	Platform          string
	PostedAtTimestamp int64
	AuthorUsername    string
	TextContent       string
	PostType          string
	URL               string
	RawJSON           []byte
	FirstSeenAt       time.Time
	IsRead            bool
	IsMarked          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FindPostIDByURN returns the id of the post with the given URN, or
// ("", false, nil) when none exists.
func (s *Store) FindPostIDByURN(ctx context.Context, urn string) (string, bool, error) {
	var id string
	err := s.sql.QueryRowContext(ctx, `SELECT post_id FROM posts WHERE urn = ?`, urn).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "find post by urn")
	}
	return id, true, nil
}

// InsertPost persists a new post. A uniqueness rejection on urn is surfaced
// as ErrDuplicateURN so callers can treat it as a per-document outcome.
func (s *Store) InsertPost(ctx context.Context, p *Post) error {
	now := fmtTime(time.Now())
	_, err := s.sql.ExecContext(ctx, `
		INSERT INTO posts (
		  post_id, urn, full_urn, platform, posted_at_timestamp,
		  author_username, text_content, post_type, url, raw_json,
		  first_seen_at, is_read, is_marked, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.URN, p.FullURN, p.Platform, p.PostedAtTimestamp,
		p.AuthorUsername, p.TextContent, p.PostType, p.URL, string(p.RawJSON),
		fmtTime(p.FirstSeenAt), boolInt(p.IsRead), boolInt(p.IsMarked), now, now)
	if isUniqueViolation(err) {
		return errors.Wrapf(ErrDuplicateURN, "urn %s", p.URN)
	}
	return errors.Wrap(err, "insert post")
}

// ListPosts returns all posts newest-first by posted timestamp.
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT post_id, urn, COALESCE(full_urn,''), platform, COALESCE(posted_at_timestamp,0),
		       COALESCE(author_username,''), COALESCE(text_content,''), COALESCE(post_type,''),
		       COALESCE(url,''), COALESCE(raw_json,''), first_seen_at, is_read, is_marked,
		       created_at, updated_at
		FROM posts ORDER BY posted_at_timestamp DESC, post_id`)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	defer rows.Close()
	var out []Post
	for rows.Next() {
		var p Post
		var raw, firstSeen, created, updated string
		var isRead, isMarked int
		if err := rows.Scan(&p.ID, &p.URN, &p.FullURN, &p.Platform, &p.PostedAtTimestamp,
			&p.AuthorUsername, &p.TextContent, &p.PostType, &p.URL, &raw,
			&firstSeen, &isRead, &isMarked, &created, &updated); err != nil {
			return nil, errors.Wrap(err, "scan post")
		}
		p.RawJSON = []byte(raw)
		p.FirstSeenAt = parseTime(firstSeen)
		p.IsRead = isRead != 0
		p.IsMarked = isMarked != 0
		p.CreatedAt = parseTime(created)
		p.UpdatedAt = parseTime(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetPostRead and SetPostMarked flip the reader-facing flags. Ingestion
// never calls these; they exist for viewing front-ends.
func (s *Store) SetPostRead(ctx context.Context, postID string, read bool) error {
	return s.setPostFlag(ctx, postID, "is_read", read)
}

func (s *Store) SetPostMarked(ctx context.Context, postID string, marked bool) error {
	return s.setPostFlag(ctx, postID, "is_marked", marked)
}

func (s *Store) setPostFlag(ctx context.Context, postID, column string, v bool) error {
	res, err := s.sql.ExecContext(ctx,
		`UPDATE posts SET `+column+` = ?, updated_at = ? WHERE post_id = ?`,
		boolInt(v), fmtTime(time.Now()), postID)
	if err != nil {
		return errors.Wrapf(err, "update %s", column)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "post %s", postID)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
