package views

import (
	"net/url"

	"github.com/cleanroomlabs/website/content"
	"github.com/cleanroomlabs/website/filter"
)

// SiteConfig holds the site-wide settings every page needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Product is a product card with its resolved documentation entry.
type Product struct {
	Name        string
	Description string
	DocsURL     string
	DocsTitle   string
	Available   bool
}

// TagLink is one tag chip on the blog index.
type TagLink struct {
	Name   string
	Active bool
	URL    string // canonical URL of the toggled state
	Action string // same page with a toggle action, for HTMX; empty on static pages
}

// BlogPage is everything the blog index and its results partial render.
type BlogPage struct {
	Path     string
	Query    string
	TagParam string
	Tags     []TagLink
	Posts    []content.Post // visible posts
	Total    int
	ClearURL string
	Action   string // page URL carrying the current state, for the search form
	Static   bool   // pre-rendered page: plain links, no search form
}

// NewBlogPage derives the view model from the full post list, the visible
// subset and the filter state.
func NewBlogPage(all, visible []content.Post, state filter.State, knownTags []string, path string) BlogPage {
	current := state.Link(path)
	p := BlogPage{
		Path:     path,
		Query:    state.Query,
		TagParam: state.Tags.String(),
		Posts:    visible,
		Total:    len(all),
		ClearURL: filter.ClearFilters().Link(path),
		Action:   current,
	}
	for _, t := range knownTags {
		p.Tags = append(p.Tags, TagLink{
			Name:   t,
			Active: state.Tags.Has(t),
			URL:    state.Toggled(t).Link(path),
			Action: withParam(current, "toggle", t),
		})
	}
	return p
}

// TagPagePath is the pre-rendered page listing the posts tagged tag.
func TagPagePath(path, tag string) string {
	return path + "tags/" + url.PathEscape(tag) + "/"
}

// NewStaticBlogPage derives the view model of a pre-rendered blog page,
// with at most one selected tag and no search. Tag chips link to the other
// tag pages and deselecting returns to path.
func NewStaticBlogPage(all, visible []content.Post, tag string, knownTags []string, path string) BlogPage {
	p := BlogPage{
		Path:     path,
		TagParam: tag,
		Posts:    visible,
		Total:    len(all),
		ClearURL: path,
		Action:   path,
		Static:   true,
	}
	if tag != "" {
		p.Action = TagPagePath(path, tag)
	}
	for _, t := range knownTags {
		link := TagLink{Name: t, Active: t == tag, URL: TagPagePath(path, t)}
		if link.Active {
			link.URL = path
		}
		p.Tags = append(p.Tags, link)
	}
	return p
}

// NoPosts reports that there is nothing to filter at all.
func (p BlogPage) NoPosts() bool { return p.Total == 0 }

// Empty reports that posts exist but the filter hides all of them.
func (p BlogPage) Empty() bool { return p.Total > 0 && len(p.Posts) == 0 }

// Filtering reports whether a search query or tag is active.
func (p BlogPage) Filtering() bool { return p.Query != "" || p.TagParam != "" }

// ClearAction is the page URL with a clear action, for HTMX.
func (p BlogPage) ClearAction() string { return withParam(p.Action, "clear", "1") }

// PostPage is a single rendered post.
type PostPage struct {
	Post    content.Post
	Body    string
	Related []content.Post
}
