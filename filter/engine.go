package filter

import (
	"net/url"

	"github.com/cleanroomlabs/website/content"
)

// Router is the narrow routing contract the Engine needs. Query reports the
// current query parameters and whether routing has resolved them yet.
// ReplaceQuery swaps the whole query of path without adding a history
// entry.
type Router interface {
	Query() (url.Values, bool)
	ReplaceQuery(path string, q url.Values)
}

// Engine holds the filter state for one page and mirrors it to the URL.
//
// An Engine starts uninitialized and never writes to the URL in that state,
// so a deep link is read before anything can overwrite it. Init moves it to
// initialized exactly once; from then on every mutation writes the URL once.
// Engines are not safe for concurrent use.
type Engine struct {
	router      Router
	knownTags   []string
	path        string
	state       State
	initialized bool
}

// NewEngine returns an uninitialized Engine for the page at path.
func NewEngine(r Router, knownTags []string, path string) *Engine {
	return &Engine{router: r, knownTags: knownTags, path: path}
}

// Init restores state from the URL the first time the router is ready and
// reports whether the engine is initialized. The URL wins this once. If the
// restored state projects to a different query, for instance because a stale
// tag was dropped, the canonical query is written back.
func (e *Engine) Init() bool {
	if e.initialized {
		return true
	}
	q, ready := e.router.Query()
	if !ready {
		return false
	}
	e.state = RestoreFromURL(q, e.knownTags)
	e.initialized = true

	canonical := SyncToURL(e.state.Query, e.state.Tags, e.path)
	if canonical.Encode() != q.Encode() {
		e.router.ReplaceQuery(e.path, canonical)
	}
	return true
}

// Initialized reports whether Init has completed.
func (e *Engine) Initialized() bool { return e.initialized }

// State returns the current filter state.
func (e *Engine) State() State { return e.state }

// Path returns the page path the engine writes to.
func (e *Engine) Path() string { return e.path }

// KnownTags returns the tag registry the engine restores against.
func (e *Engine) KnownTags() []string { return e.knownTags }

// Visible derives the visible subset of posts from the current state.
func (e *Engine) Visible(posts []content.Post) []content.Post {
	return ComputeVisiblePosts(posts, e.state.Query, e.state.Tags)
}

// SetSearchQuery replaces the search query.
func (e *Engine) SetSearchQuery(text string) {
	e.Batch(func(tx *Tx) { tx.SetSearchQuery(text) })
}

// ToggleTag adds or removes tag from the selection.
func (e *Engine) ToggleTag(tag string) {
	e.Batch(func(tx *Tx) { tx.ToggleTag(tag) })
}

// Clear resets the query and the tag selection.
func (e *Engine) Clear() {
	e.Batch(func(tx *Tx) { tx.Clear() })
}

// Batch applies every mutation made through tx and then writes the URL
// once with the combined result. A batch that changes nothing writes
// nothing.
func (e *Engine) Batch(fn func(tx *Tx)) {
	tx := &Tx{state: e.state}
	fn(tx)
	if !tx.touched {
		return
	}
	e.state = tx.state
	if e.initialized {
		e.router.ReplaceQuery(e.path, SyncToURL(e.state.Query, e.state.Tags, e.path))
	}
}

// Tx collects the mutations of a single Batch.
type Tx struct {
	state   State
	touched bool
}

// SetSearchQuery replaces the query.
func (tx *Tx) SetSearchQuery(text string) {
	tx.state.Query = SetSearchQuery(text)
	tx.touched = true
}

// ToggleTag toggles tag in the selection.
func (tx *Tx) ToggleTag(tag string) {
	tx.state.Tags = ToggleTag(tag, tx.state.Tags)
	tx.touched = true
}

// Clear resets the state.
func (tx *Tx) Clear() {
	tx.state = ClearFilters()
	tx.touched = true
}

// State returns the state as mutated so far.
func (tx *Tx) State() State { return tx.state }
