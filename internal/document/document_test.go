package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURNResolutionOrder(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
		ok   bool
	}{
		{"full_urn wins", `{"full_urn":"urn:li:activity:1","urn":{"activity_urn":"urn:li:activity:2"}}`, "urn:li:activity:1", true},
		{"composite activity", `{"urn":{"activity_urn":"urn:li:activity:2","ugcPost_urn":"urn:li:ugcPost:3"}}`, "urn:li:activity:2", true},
		{"composite ugcPost fallback", `{"urn":{"ugcPost_urn":"urn:li:ugcPost:3"}}`, "urn:li:ugcPost:3", true},
		{"scalar urn", `{"urn":"urn:li:share:4"}`, "urn:li:share:4", true},
		{"no urn at all", `{"text":"hello"}`, "", false},
		{"empty full_urn ignored", `{"full_urn":"","urn":"urn:li:share:5"}`, "urn:li:share:5", true},
		{"empty composite", `{"urn":{}}`, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			docs, err := DecodeFile([]byte(c.doc))
			require.NoError(t, err)
			require.Len(t, docs, 1)
			urn, ok := docs[0].URN()
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, urn)
		})
	}
}

func TestDecodeFileShapes(t *testing.T) {
	docs, err := DecodeFile([]byte(`[{"urn":"a"},{"urn":"b"}]`))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = DecodeFile([]byte(`{"urn":"a"}`))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// Valid JSON that is neither array nor object is skipped, not an error.
	docs, err = DecodeFile([]byte(`"just a string"`))
	require.NoError(t, err)
	assert.Nil(t, docs)

	docs, err = DecodeFile([]byte(`42`))
	require.NoError(t, err)
	assert.Nil(t, docs)

	_, err = DecodeFile([]byte(`{"urn":`))
	assert.Error(t, err)

	_, err = DecodeFile([]byte(``))
	assert.Error(t, err)
}

func TestDecodePromotedFields(t *testing.T) {
	raw := `{
		"full_urn": "urn:li:activity:7331",
		"author": {"username": "cloudarchitect", "name": "Cloud Architect"},
		"text": "AWS announces new processors",
		"posted_at": {"timestamp": 1733300000000, "date": "2025-12-04 14:30:00"},
		"post_type": "regular",
		"url": "https://example.com/posts/7331",
		"stats": {"total_reactions": 42, "like": 30, "comments": 12}
	}`
	docs, err := DecodeFile([]byte(raw))
	require.NoError(t, err)
	d := docs[0]
	assert.Equal(t, "cloudarchitect", d.Author.Username)
	assert.Equal(t, int64(1733300000000), d.PostedAt.Timestamp)
	assert.Equal(t, "regular", d.PostType)
	assert.Equal(t, int64(42), d.Stats.TotalReactions)
	// Raw payloads preserve unpromoted fields verbatim.
	assert.Contains(t, string(d.Stats.Raw), `"comments"`)
	assert.Contains(t, string(d.Raw), `"like"`)
}
