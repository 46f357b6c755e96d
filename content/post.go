// Package content loads blog post sources into search-ready Post records.
//
// A post source is one file per post in the content directory: a YAML
// frontmatter block fenced by "---" lines followed by a markdown/MDX body.
// The filename without its extension is the slug.
//
// Nothing here caches. Every Loader call re-reads the sources, so repeated
// calls from a dev server always see the current files.
package content

import (
	"net/url"
	"strings"
	"time"
)

// Post is one blog entry as consumed by list pages and the filter engine.
// Posts are built once by a Loader and treated as read-only afterwards.
type Post struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Date          string    `json:"date"`
	Author        string    `json:"author,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	ReadTime      string    `json:"readTime,omitempty"`
	SearchContent string    `json:"searchContent"`
	Time          time.Time `json:"-"`
}

// HasTag reports whether tag is among the post's tags.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Link returns the post's site-relative URL.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// RawPost is a post source with its metadata left unprocessed and its body
// untouched, for pages that render the full post.
type RawPost struct {
	Slug     string
	Metadata map[string]any
	Body     string
}

// String returns the metadata value for key when it is a string. Unquoted
// YAML dates and timestamps come back in the form they were written.
func (r RawPost) String(key string) string {
	switch v := r.Metadata[key].(type) {
	case string:
		return v
	case time.Time:
		if v.Equal(v.Truncate(24*time.Hour)) && v.Location() == time.UTC {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	}
	return ""
}

// Tags returns the metadata tags as strings, accepting a list or a
// comma-separated scalar.
func (r RawPost) Tags() []string {
	switch v := r.Metadata["tags"].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// ValidSlug reports whether slug can be used unescaped in a URL path
// segment and does not name a hidden file.
func ValidSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	return url.PathEscape(slug) == slug && !strings.ContainsAny(slug, "/\\?#")
}
