package docs_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanroomlabs/website/docs"
)

func bundle() fstest.MapFS {
	return fstest.MapFS{
		"index.html": {Data: []byte(`<!DOCTYPE html><html><head><title>Cleanroom Labs &#8212; Cleanroom Labs 1.0 documentation</title></head><body></body></html>`)},
		"airgap-transfer/readme.html": {Data: []byte(`<html><head><title>AirGap Transfer &#8212; Cleanroom Labs 1.0 documentation</title></head>
<body><h1>Ignored<a class="headerlink" href="#x">¶</a></h1></body></html>`)},
		"airgap-deploy/readme.html": {Data: []byte(`<html><head></head><body><h1>AirGap Deploy<a class="headerlink" href="#airgap-deploy">¶</a></h1></body></html>`)},
		"_static/basic.css":         {Data: []byte("body{}")},
		"_sources/readme.html":      {Data: []byte("<title>source</title>")},
	}
}

func TestTitle(t *testing.T) {
	b := docs.Open(bundle())

	title, err := b.Title("airgap-transfer/readme.html")
	require.NoError(t, err)
	assert.Equal(t, "AirGap Transfer", title)

	title, err = b.Title("airgap-deploy/readme.html")
	require.NoError(t, err)
	assert.Equal(t, "AirGap Deploy", title)

	_, err = b.Title("missing.html")
	require.Error(t, err)
	assert.True(t, docs.IsNotExist(err))
}

func TestPages(t *testing.T) {
	pages, err := docs.Open(bundle()).Pages()
	require.NoError(t, err)
	assert.Equal(t, []docs.Page{
		{Path: "airgap-deploy/readme.html", Title: "AirGap Deploy"},
		{Path: "airgap-transfer/readme.html", Title: "AirGap Transfer"},
		{Path: "index.html", Title: "Cleanroom Labs"},
	}, pages)
}

func TestResolve(t *testing.T) {
	products := []docs.Product{
		{Name: "AirGap Transfer", DocsURL: "/docs/airgap-transfer/readme.html"},
		{Name: "Cleanroom Whisper", DocsURL: "/docs/cleanroom-whisper/readme.html"},
		{Name: "Index", DocsURL: "/docs/#top"},
		{Name: "External", DocsURL: "https://example.com/docs"},
		{Name: "Unlinked"},
	}
	entries := docs.Open(bundle()).Resolve(products)
	require.Len(t, entries, 5)

	assert.True(t, entries[0].Available)
	assert.Equal(t, "AirGap Transfer", entries[0].Title)
	assert.False(t, entries[1].Available)
	assert.True(t, entries[2].Available)
	assert.Equal(t, "Cleanroom Labs", entries[2].Title)
	assert.True(t, entries[3].Available)
	assert.Empty(t, entries[3].Title)
	assert.False(t, entries[4].Available)

	missing := docs.Open(bundle()).Missing(products)
	assert.Equal(t, []string{"Cleanroom Whisper", "Unlinked"}, []string{missing[0].Name, missing[1].Name})
}

func TestEmptyBundle(t *testing.T) {
	b := docs.Open(nil)
	assert.False(t, b.Exists())
	pages, err := b.Pages()
	require.NoError(t, err)
	assert.Empty(t, pages)

	entries := b.Resolve([]docs.Product{{Name: "A", DocsURL: "/docs/a.html"}})
	assert.False(t, entries[0].Available)

	assert.True(t, docs.Open(bundle()).Exists())
	assert.False(t, docs.Open(fstest.MapFS{}).Exists())
}
