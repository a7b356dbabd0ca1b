package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
)

// Profile is an account whose posts we archive.
type Profile struct {
	ID        string
	Username  string
	Name      string
	Notes     string
	Platform  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Store) InsertProfile(ctx context.Context, p *Profile) error {
	now := fmtTime(time.Now())
	_, err := s.sql.ExecContext(ctx, `
		INSERT INTO profiles (profile_id, username, name, notes, platform, active, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.Username, p.Name, p.Notes, p.Platform, boolInt(p.Active), now, now)
	if isUniqueViolation(err) {
		return errors.Wrapf(ErrDuplicateName, "profile %q", p.Username)
	}
	return errors.Wrap(err, "insert profile")
}

func (s *Store) UpdateProfile(ctx context.Context, p *Profile) error {
	res, err := s.sql.ExecContext(ctx, `
		UPDATE profiles SET name = ?, notes = ?, platform = ?, active = ?, updated_at = ?
		WHERE profile_id = ?`,
		p.Name, p.Notes, p.Platform, boolInt(p.Active), fmtTime(time.Now()), p.ID)
	if err != nil {
		return errors.Wrap(err, "update profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "profile %s", p.ID)
	}
	return nil
}

func (s *Store) GetProfileByUsername(ctx context.Context, username string) (Profile, error) {
	row := s.sql.QueryRowContext(ctx, `
		SELECT profile_id, username, COALESCE(name,''), COALESCE(notes,''), platform, active, created_at, updated_at
		FROM profiles WHERE username = ?`, username)
	return scanProfile(row)
}

// ListProfiles returns profiles by username; activeOnly drops deactivated ones.
func (s *Store) ListProfiles(ctx context.Context, activeOnly bool) ([]Profile, error) {
	q := `SELECT profile_id, username, COALESCE(name,''), COALESCE(notes,''), platform, active, created_at, updated_at
	      FROM profiles`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY username`
	rows, err := s.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list profiles")
	}
	defer rows.Close()
	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var active int
	var created, updated string
	if err := row.Scan(&p.ID, &p.Username, &p.Name, &p.Notes, &p.Platform, &active, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, errors.Wrap(err, "scan profile")
	}
	p.Active = active != 0
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}
