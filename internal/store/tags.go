package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
)

// Tag labels profiles for triage. Tags live in this store rather than a
// separate one so profile-tag joins stay cheap.
type Tag struct {
	ID          string
	Name        string
	Color       string
	Description string
	CreatedAt   time.Time
}

func (s *Store) InsertTag(ctx context.Context, t *Tag) error {
	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO tags (tag_id, name, color, description, created_at) VALUES (?,?,?,?,?)`,
		t.ID, t.Name, t.Color, nullIfEmpty(t.Description), fmtTime(time.Now()))
	if isUniqueViolation(err) {
		return errors.Wrapf(ErrDuplicateName, "tag %q", t.Name)
	}
	return errors.Wrap(err, "insert tag")
}

// ErrDuplicateName is returned when a named entity already exists.
var ErrDuplicateName = errors.New("name already exists")

func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	if _, err := s.sql.ExecContext(ctx, `DELETE FROM profile_tags WHERE tag_id = ?`, tagID); err != nil {
		return errors.Wrap(err, "delete tag assignments")
	}
	res, err := s.sql.ExecContext(ctx, `DELETE FROM tags WHERE tag_id = ?`, tagID)
	if err != nil {
		return errors.Wrap(err, "delete tag")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "tag %s", tagID)
	}
	return nil
}

func (s *Store) RenameTag(ctx context.Context, tagID, newName string) error {
	res, err := s.sql.ExecContext(ctx, `UPDATE tags SET name = ? WHERE tag_id = ?`, newName, tagID)
	if isUniqueViolation(err) {
		return errors.Wrapf(ErrDuplicateName, "tag %q", newName)
	}
	if err != nil {
		return errors.Wrap(err, "rename tag")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "tag %s", tagID)
	}
	return nil
}

func (s *Store) GetTagByName(ctx context.Context, name string) (Tag, error) {
	row := s.sql.QueryRowContext(ctx,
		`SELECT tag_id, name, color, COALESCE(description,''), created_at FROM tags WHERE name = ?`, name)
	return scanTag(row)
}

func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.sql.QueryContext(ctx,
		`SELECT tag_id, name, color, COALESCE(description,''), created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list tags")
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTag(row rowScanner) (Tag, error) {
	var t Tag
	var created string
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Description, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tag{}, ErrNotFound
		}
		return Tag{}, errors.Wrap(err, "scan tag")
	}
	t.CreatedAt = parseTime(created)
	return t, nil
}

// TagProfile assigns a tag to a profile; assigning twice is a no-op.
func (s *Store) TagProfile(ctx context.Context, profileID, tagID string) error {
	_, err := s.sql.ExecContext(ctx, `
		INSERT INTO profile_tags (profile_id, tag_id, created_at) VALUES (?,?,?)
		ON CONFLICT (profile_id, tag_id) DO NOTHING`,
		profileID, tagID, fmtTime(time.Now()))
	return errors.Wrap(err, "tag profile")
}

func (s *Store) UntagProfile(ctx context.Context, profileID, tagID string) error {
	_, err := s.sql.ExecContext(ctx,
		`DELETE FROM profile_tags WHERE profile_id = ? AND tag_id = ?`, profileID, tagID)
	return errors.Wrap(err, "untag profile")
}

func (s *Store) ProfileTags(ctx context.Context, profileID string) ([]Tag, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT t.tag_id, t.name, t.color, COALESCE(t.description,''), t.created_at
		FROM tags t JOIN profile_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.profile_id = ? ORDER BY t.name`, profileID)
	if err != nil {
		return nil, errors.Wrap(err, "profile tags")
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
