package filter_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanroomlabs/website/filter"
)

type fakeRouter struct {
	query  url.Values
	ready  bool
	writes []string
}

func (r *fakeRouter) Query() (url.Values, bool) { return r.query, r.ready }

func (r *fakeRouter) ReplaceQuery(path string, q url.Values) {
	r.writes = append(r.writes, filter.ReplaceURL(path, q))
	r.query = q
}

var known = []string{"privacy", "security", "tools"}

func TestEngineNoWritesBeforeInit(t *testing.T) {
	r := &fakeRouter{query: url.Values{"q": {"deep"}}}
	e := filter.NewEngine(r, known, "/blog/")

	assert.False(t, e.Init())
	assert.False(t, e.Initialized())

	e.SetSearchQuery("typed early")
	e.ToggleTag("tools")
	e.Clear()
	assert.Empty(t, r.writes)
	assert.Equal(t, url.Values{"q": {"deep"}}, r.query, "deep link clobbered before init")
}

func TestEngineInitRestoresFromURL(t *testing.T) {
	r := &fakeRouter{query: url.Values{"q": {"airgap"}, "tags": {"privacy"}}, ready: true}
	e := filter.NewEngine(r, known, "/blog/")

	require.True(t, e.Init())
	assert.Equal(t, "airgap", e.State().Query)
	assert.Equal(t, []string{"privacy"}, e.State().Tags.Slice())
	assert.Empty(t, r.writes, "canonical URL rewritten")
}

func TestEngineInitRunsOnce(t *testing.T) {
	r := &fakeRouter{query: url.Values{"q": {"first"}}, ready: true}
	e := filter.NewEngine(r, known, "/blog/")
	require.True(t, e.Init())

	r.query = url.Values{"q": {"second"}}
	assert.True(t, e.Init())
	assert.Equal(t, "first", e.State().Query, "URL won twice")
}

func TestEngineInitAfterReadiness(t *testing.T) {
	r := &fakeRouter{}
	e := filter.NewEngine(r, known, "/blog/")
	assert.False(t, e.Init())

	r.query, r.ready = url.Values{"tags": {"tools"}}, true
	assert.True(t, e.Init())
	assert.Equal(t, []string{"tools"}, e.State().Tags.Slice())
}

func TestEngineInitCanonicalizes(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"stale tag", url.Values{"q": {"airgap"}, "tags": {"privacy,bogus"}}, "/blog/?q=airgap&tags=privacy"},
		{"repeated tags", url.Values{"tags": {"tools", "privacy"}}, "/blog/?tags=tools,privacy"},
		{"foreign keys", url.Values{"utm_source": {"feed"}}, "/blog/"},
		{"empty values", url.Values{"q": {""}, "tags": {""}}, "/blog/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRouter{query: tt.query, ready: true}
			e := filter.NewEngine(r, known, "/blog/")
			require.True(t, e.Init())
			assert.Equal(t, []string{tt.want}, r.writes)
		})
	}
}

func TestEngineWritesOncePerChange(t *testing.T) {
	r := &fakeRouter{query: url.Values{}, ready: true}
	e := filter.NewEngine(r, known, "/blog/")
	require.True(t, e.Init())

	e.SetSearchQuery("air")
	e.ToggleTag("privacy")
	e.ToggleTag("tools")
	e.ToggleTag("privacy")
	e.Clear()

	assert.Equal(t, []string{
		"/blog/?q=air",
		"/blog/?q=air&tags=privacy",
		"/blog/?q=air&tags=privacy,tools",
		"/blog/?q=air&tags=tools",
		"/blog/",
	}, r.writes)
	assert.True(t, e.State().Empty())
}

func TestEngineBatchWritesFinalState(t *testing.T) {
	r := &fakeRouter{query: url.Values{}, ready: true}
	e := filter.NewEngine(r, known, "/blog/")
	require.True(t, e.Init())

	e.Batch(func(tx *filter.Tx) {
		tx.Clear()
		tx.SetSearchQuery("a")
		tx.SetSearchQuery("air")
		tx.ToggleTag("security")
		assert.Equal(t, "air", tx.State().Query)
	})
	assert.Equal(t, []string{"/blog/?q=air&tags=security"}, r.writes)

	e.Batch(func(*filter.Tx) {})
	assert.Len(t, r.writes, 1, "empty batch wrote")
}

func TestEngineStateBeforeInitIsKept(t *testing.T) {
	r := &fakeRouter{}
	e := filter.NewEngine(r, known, "/blog/")
	e.SetSearchQuery("early")
	assert.Equal(t, "early", e.State().Query)
	assert.Empty(t, r.writes)
}

func TestEngineVisible(t *testing.T) {
	r := &fakeRouter{query: url.Values{"tags": {"privacy"}}, ready: true}
	e := filter.NewEngine(r, known, "/blog/")
	require.True(t, e.Init())

	posts := samplePosts()
	assert.Equal(t, []string{"Air-Gapped Basics", "Local Transcription"}, titles(e.Visible(posts)))

	e.SetSearchQuery("xyznonexistentquery123")
	visible := e.Visible(posts)
	assert.Empty(t, visible)
	assert.Len(t, posts, 3)
}

func TestEngineAccessors(t *testing.T) {
	e := filter.NewEngine(&fakeRouter{}, known, "/blog/")
	assert.Equal(t, "/blog/", e.Path())
	assert.Equal(t, known, e.KnownTags())
}
