package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleanroomlabs/website/content"
)

// ComputeVisiblePosts returns the posts that pass both the search and the
// tag predicate, in their original order. posts is not modified; the
// result is always a fresh slice.
//
// The search predicate passes when query is empty, or when the lowercased
// query occurs in the lowercased title, the lowercased excerpt or the
// already lowercase SearchContent. The tag predicate passes when the post
// carries every selected tag.
func ComputeVisiblePosts(posts []content.Post, query string, tags TagSet) []content.Post {
	lower := cases.Lower(language.Und)
	q := lower.String(query)
	visible := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if matchesQuery(lower, p, q) && hasAllTags(p, tags) {
			visible = append(visible, p)
		}
	}
	return visible
}

func matchesQuery(lower cases.Caser, p content.Post, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(lower.String(p.Title), q) {
		return true
	}
	if p.Excerpt != "" && strings.Contains(lower.String(p.Excerpt), q) {
		return true
	}
	return strings.Contains(p.SearchContent, q)
}

func hasAllTags(p content.Post, tags TagSet) bool {
	for _, t := range tags.tags {
		if !p.HasTag(t) {
			return false
		}
	}
	return true
}
