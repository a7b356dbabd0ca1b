// Package tags manages the tag vocabulary and profile-tag assignments.
package tags

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"postvault/internal/identifier"
	"postvault/internal/store"
)

var defaultColors = map[string]string{
	"aws":     "orange",
	"ai":      "magenta",
	"startup": "green",
}

// Manager wraps the store's tag operations with naming rules and defaults.
type Manager struct {
	store *store.Store
}

func NewManager(st *store.Store) *Manager { return &Manager{store: st} }

// EnsureDefaults creates the starter tags when they are missing.
func (m *Manager) EnsureDefaults(ctx context.Context) error {
	for _, name := range []string{"aws", "ai", "startup"} {
		if _, err := m.GetOrCreate(ctx, name, defaultColors[name], ""); err != nil {
			return err
		}
	}
	return nil
}

// Add creates a tag. Names are normalized to lower case.
func (m *Manager) Add(ctx context.Context, name, color, description string) (store.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return store.Tag{}, errors.New("empty tag name")
	}
	if color == "" {
		color = "cyan"
	}
	t := store.Tag{
		ID:          identifier.Generate(identifier.PrefixTag),
		Name:        name,
		Color:       color,
		Description: description,
	}
	if err := m.store.InsertTag(ctx, &t); err != nil {
		return store.Tag{}, err
	}
	return t, nil
}

// GetOrCreate returns the tag with the given name, creating it if needed.
func (m *Manager) GetOrCreate(ctx context.Context, name, color, description string) (store.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, err := m.store.GetTagByName(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.Tag{}, err
	}
	t, err = m.Add(ctx, name, color, description)
	if errors.Is(err, store.ErrDuplicateName) {
		// Lost a race with another writer; the tag exists now.
		return m.store.GetTagByName(ctx, name)
	}
	return t, err
}

// Get looks a tag up by name.
func (m *Manager) Get(ctx context.Context, name string) (store.Tag, error) {
	return m.store.GetTagByName(ctx, strings.ToLower(strings.TrimSpace(name)))
}

func (m *Manager) Delete(ctx context.Context, tagID string) error {
	return m.store.DeleteTag(ctx, tagID)
}

func (m *Manager) Rename(ctx context.Context, tagID, newName string) error {
	newName = strings.ToLower(strings.TrimSpace(newName))
	if newName == "" {
		return errors.New("empty tag name")
	}
	return m.store.RenameTag(ctx, tagID, newName)
}

func (m *Manager) List(ctx context.Context) ([]store.Tag, error) {
	return m.store.ListTags(ctx)
}

// SetProfileTags replaces a profile's tag set with exactly the given tags.
func (m *Manager) SetProfileTags(ctx context.Context, profileID string, tagIDs []string) error {
	current, err := m.store.ProfileTags(ctx, profileID)
	if err != nil {
		return err
	}
	want := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		want[id] = struct{}{}
	}
	for _, t := range current {
		if _, ok := want[t.ID]; !ok {
			if err := m.store.UntagProfile(ctx, profileID, t.ID); err != nil {
				return err
			}
		}
	}
	for id := range want {
		if err := m.store.TagProfile(ctx, profileID, id); err != nil {
			return err
		}
	}
	return nil
}
