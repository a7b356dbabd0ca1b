// Package profiles keeps the registry of accounts whose posts we archive,
// synced both ways with the operator's CSV sheet.
package profiles

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"postvault/internal/identifier"
	"postvault/internal/store"
)

// SyncStats counts the outcome of one CSV sync.
type SyncStats struct {
	Added   int
	Updated int
	Skipped int
}

// Manager wraps profile persistence and CSV import/export.
type Manager struct {
	store    *store.Store
	platform string
}

func NewManager(st *store.Store, platform string) *Manager {
	return &Manager{store: st, platform: platform}
}

// Add registers a new active profile.
func (m *Manager) Add(ctx context.Context, username, name, notes string) (store.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return store.Profile{}, errors.New("empty username")
	}
	p := store.Profile{
		ID:       identifier.Generate(identifier.PrefixProfile),
		Username: username,
		Name:     name,
		Notes:    notes,
		Platform: m.platform,
		Active:   true,
	}
	if err := m.store.InsertProfile(ctx, &p); err != nil {
		return store.Profile{}, err
	}
	return p, nil
}

func (m *Manager) List(ctx context.Context, activeOnly bool) ([]store.Profile, error) {
	return m.store.ListProfiles(ctx, activeOnly)
}

// SyncFromCSV imports profiles from a CSV with header columns name,username.
// Existing profiles are updated by username; rows missing either column are
// skipped. A missing file is not an error: the sync just reports zero work.
func (m *Manager) SyncFromCSV(ctx context.Context, path string) (SyncStats, error) {
	var stats SyncStats
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, errors.Wrap(err, "open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return stats, errors.Wrap(err, "read csv header")
	}
	nameCol, userCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameCol = i
		case "username":
			userCol = i
		}
	}
	if nameCol < 0 || userCol < 0 {
		return stats, errors.New("csv must have name and username columns")
	}

	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		if len(row) <= nameCol || len(row) <= userCol {
			stats.Skipped++
			continue
		}
		username := strings.TrimSpace(row[userCol])
		name := strings.TrimSpace(row[nameCol])
		if username == "" || name == "" {
			stats.Skipped++
			continue
		}
		existing, err := m.store.GetProfileByUsername(ctx, username)
		switch {
		case err == nil:
			existing.Name = name
			if err := m.store.UpdateProfile(ctx, &existing); err != nil {
				return stats, err
			}
			stats.Updated++
		case errors.Is(err, store.ErrNotFound):
			if _, err := m.Add(ctx, username, name, ""); err != nil {
				return stats, err
			}
			stats.Added++
		default:
			return stats, err
		}
	}
	return stats, nil
}

// ExportToCSV writes profiles to a CSV with header name,username.
func (m *Manager) ExportToCSV(ctx context.Context, path string, activeOnly bool) error {
	profiles, err := m.store.ListProfiles(ctx, activeOnly)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create export directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "username"}); err != nil {
		return err
	}
	for _, p := range profiles {
		if err := w.Write([]string{p.Name, p.Username}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
