// Package filter holds the blog's search and tag filter: the filter state,
// its projection to and from a URL query, the visible-post derivation and
// an Engine that keeps state and URL in step.
//
// Everything except Engine is a pure function of its arguments. Nothing
// here mutates a post slice or a TagSet it was handed.
package filter

import "strings"

// State is the (search query, selected tags) pair driving the visible
// post subset. The zero value is the cleared state.
type State struct {
	Query string
	Tags  TagSet
}

// Empty reports whether no filter is active.
func (s State) Empty() bool {
	return s.Query == "" && s.Tags.Len() == 0
}

// ClearFilters returns the cleared state.
func ClearFilters() State {
	return State{}
}

// SetSearchQuery returns text as the new query. The query is kept verbatim;
// case and whitespace only stop mattering inside the match predicate.
func SetSearchQuery(text string) string {
	return text
}

// TagSet is a set of tag names that remembers insertion order, so the
// URL it projects to is deterministic. Values are immutable: every
// operation returns a new set.
type TagSet struct {
	tags []string
}

// NewTagSet builds a set from tags, dropping repeats and empty names.
func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, t := range tags {
		if t == "" || s.Has(t) {
			continue
		}
		s.tags = append(s.tags, t)
	}
	return s
}

// Has reports membership.
func (s TagSet) Has(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Len returns the number of tags in the set.
func (s TagSet) Len() int { return len(s.tags) }

// Slice returns the tags in insertion order. The caller owns the result.
func (s TagSet) Slice() []string {
	if len(s.tags) == 0 {
		return nil
	}
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Equal reports whether both sets have the same members, ignoring order.
func (s TagSet) Equal(o TagSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, t := range s.tags {
		if !o.Has(t) {
			return false
		}
	}
	return true
}

func (s TagSet) String() string {
	return strings.Join(s.tags, ",")
}

// ToggleTag returns current with tag removed if present, or appended if
// not. current itself is left unchanged.
func ToggleTag(tag string, current TagSet) TagSet {
	next := TagSet{tags: make([]string, 0, len(current.tags)+1)}
	found := false
	for _, t := range current.tags {
		if t == tag {
			found = true
			continue
		}
		next.tags = append(next.tags, t)
	}
	if !found {
		next.tags = append(next.tags, tag)
	}
	if len(next.tags) == 0 {
		return TagSet{}
	}
	return next
}

// Toggled returns s with tag toggled in its selection.
func (s State) Toggled(tag string) State {
	return State{Query: s.Query, Tags: ToggleTag(tag, s.Tags)}
}
