// Package filter matches free-text queries against archived posts. It is
// read-only and stateless: searchable text is rebuilt on every call and
// never persisted.
package filter

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"postvault/internal/store"
)

// DefaultThreshold is the minimum partial-ratio score (0-100) a word needs
// against a post's searchable text.
const DefaultThreshold = 80

// Filter returns the posts matching query, preserving corpus order. An
// empty or whitespace-only query returns the corpus unchanged. A multi-word
// query requires every word to score at or above threshold independently;
// words need not be adjacent or ordered.
func Filter(query string, posts []store.Post, threshold int) []store.Post {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return posts
	}
	matched := make([]store.Post, 0, len(posts))
	for i := range posts {
		if matchesAll(words, SearchableText(&posts[i]), threshold) {
			matched = append(matched, posts[i])
		}
	}
	return matched
}

// SearchableText is the lower-cased concatenation of a post's text and
// author identity, the only fields queries are matched against.
func SearchableText(p *store.Post) string {
	return strings.ToLower(p.TextContent + " " + p.AuthorUsername)
}

// matchesAll scores each word with partial-ratio: the best alignment of the
// shorter string inside the longer one, 100 on verbatim containment, with
// graceful degradation for near-misses. Strictly more permissive than plain
// substring search.
func matchesAll(words []string, searchable string, threshold int) bool {
	for _, w := range words {
		if fuzzy.PartialRatio(w, searchable) < threshold {
			return false
		}
	}
	return true
}
