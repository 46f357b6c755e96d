package filter

import (
	"net/url"
	"strings"
)

// Query parameter names. No other parameter is part of the filter state.
const (
	ParamQuery = "q"
	ParamTags  = "tags"
)

// RestoreFromURL rebuilds filter state from a query. q is taken verbatim.
// Each tags value is split on commas, so both tags=a,b and tags=a&tags=b
// work. Tags not in knownTags are dropped without error.
func RestoreFromURL(q url.Values, knownTags []string) State {
	known := make(map[string]struct{}, len(knownTags))
	for _, t := range knownTags {
		known[t] = struct{}{}
	}
	var tags []string
	for _, v := range q[ParamTags] {
		for _, t := range strings.Split(v, ",") {
			if _, ok := known[t]; ok {
				tags = append(tags, t)
			}
		}
	}
	return State{Query: q.Get(ParamQuery), Tags: NewTagSet(tags...)}
}

// SyncToURL projects filter state to the query that represents it: q only
// if the query is non-empty, tags only if any are selected, comma-joined.
// The cleared state gives an empty query. path is accepted so callers can
// pair the result with ReplaceURL; it does not affect the values.
func SyncToURL(query string, tags TagSet, path string) url.Values {
	v := url.Values{}
	if query != "" {
		v.Set(ParamQuery, query)
	}
	if tags.Len() > 0 {
		v.Set(ParamTags, tags.String())
	}
	return v
}

// ReplaceURL renders path with values as its whole query string. Commas
// in the tags value are left readable.
func ReplaceURL(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + strings.ReplaceAll(values.Encode(), "%2C", ",")
}

// Link returns the URL of the state s on path.
func (s State) Link(path string) string {
	return ReplaceURL(path, SyncToURL(s.Query, s.Tags, path))
}
