package website

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"/":                     "index.html",
		"/about/":               "about/index.html",
		"/blog/alpha/":          "blog/alpha/index.html",
		"/feed.xml":             "feed.xml",
		"/blog/posts.json":      "blog/posts.json",
		"/blog/tags/go/":        "blog/tags/go/index.html",
		"/blog/tags/air%20gap/": "blog/tags/air gap/index.html",
	}
	for route, want := range tests {
		assert.Equal(t, want, outputPath(route), route)
	}
}

func TestExporterRoutes(t *testing.T) {
	a := newTestApp(t, blogFS())
	snap, err := a.Snapshot()
	require.NoError(t, err)

	routes := NewExporter(a).Routes(snap)

	assert.Subset(t, routes, StaticPages)
	assert.Subset(t, routes, []string{"/blog/alpha/", "/blog/beta/", "/blog/gamma/", "/blog/posts.json", "/feed.xml", "/sitemap.xml", "/robots.txt"})
	assert.Subset(t, routes, []string{"/blog/tags/go/", "/blog/tags/release/", "/blog/tags/security/"})
	assert.NotContains(t, routes, "/favicon.svg")
}

func TestExporterBuild(t *testing.T) {
	a := newTestApp(t, blogFS())
	out := a.Config.OutDir
	require.NoError(t, os.WriteFile(filepath.Join(a.Config.StaticDir, "htmx.min.js"), []byte("// htmx"), 0o644))

	stats, err := NewExporter(a).Build(context.Background())
	require.NoError(t, err)

	for _, name := range []string{
		"index.html",
		"about/index.html",
		"donate/index.html",
		"docs/index.html",
		"blog/index.html",
		"blog/alpha/index.html",
		"blog/beta/index.html",
		"blog/gamma/index.html",
		"blog/posts.json",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		"404.html",
		"public/site.css",
		"public/htmx.min.js",
		"docs/airgap-transfer/readme.html",
		"blog/tags/go/index.html",
		manifestName,
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Equal(t, 16, stats.Pages)
	assert.Equal(t, 0, stats.Unchanged)
	assert.Equal(t, 0, stats.Removed)

	notFound, err := os.ReadFile(filepath.Join(out, "404.html"))
	require.NoError(t, err)
	assert.Contains(t, string(notFound), "Page not found")

	post, err := os.ReadFile(filepath.Join(out, "blog", "alpha", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "Air-gapped builds")
}

func TestExporterLeavesUnchangedFiles(t *testing.T) {
	a := newTestApp(t, blogFS())
	x := NewExporter(a)

	first, err := x.Build(context.Background())
	require.NoError(t, err)

	path := filepath.Join(a.Config.OutDir, "blog", "alpha", "index.html")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	second, err := x.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, second.Written)
	assert.Equal(t, first.Written, second.Unchanged)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, fi.ModTime().Equal(old), "unchanged file was rewritten")
}

func TestExporterRemovesStaleFiles(t *testing.T) {
	posts := blogFS()
	a := newTestApp(t, posts)
	x := NewExporter(a)
	_, err := x.Build(context.Background())
	require.NoError(t, err)

	delete(posts, "beta.mdx")
	stats, err := x.Build(context.Background())
	require.NoError(t, err)

	// beta.mdx carried the only "release" tag, so its tag page goes too.
	assert.Equal(t, 2, stats.Removed)
	assert.NoFileExists(t, filepath.Join(a.Config.OutDir, "blog", "beta", "index.html"))
	assert.NoDirExists(t, filepath.Join(a.Config.OutDir, "blog", "beta"))
	assert.NoDirExists(t, filepath.Join(a.Config.OutDir, "blog", "tags", "release"))
	assert.DirExists(t, filepath.Join(a.Config.OutDir, "blog", "tags", "go"))
}

func TestExporterSkipsNestedDocsDir(t *testing.T) {
	static := t.TempDir()
	docsDir := filepath.Join(static, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "index.html"), []byte("<title>Docs</title>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "favicon.svg"), []byte("<svg/>"), 0o644))

	a := newTestApp(t, blogFS(), WithStaticDir(static))
	a.Config.DocsDir = docsDir

	stats, err := NewExporter(a).Build(context.Background())
	require.NoError(t, err)

	out := a.Config.OutDir
	assert.NoDirExists(t, filepath.Join(out, "public", "docs"))
	assert.FileExists(t, filepath.Join(out, "public", "favicon.svg"))
	assert.FileExists(t, filepath.Join(out, "favicon.svg"))
	assert.Equal(t, 17, stats.Pages)
}

func TestExporterRefusesWhileLocked(t *testing.T) {
	a := newTestApp(t, blogFS())
	require.NoError(t, os.MkdirAll(filepath.Dir(a.Config.OutDir), 0o755))

	held := flock.New(filepath.Clean(a.Config.OutDir) + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = held.Unlock() })

	_, err = NewExporter(a).Build(context.Background())
	assert.ErrorIs(t, err, ErrBuildLocked)
	assert.NoDirExists(t, a.Config.OutDir)
}

func TestExporterAbortsOnContentError(t *testing.T) {
	posts := blogFS()
	posts["broken.mdx"] = &fstest.MapFile{Data: []byte("---\ntitle: x\n---\n")}
	a := newTestApp(t, posts)

	_, err := NewExporter(a).Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.mdx")
	assert.NoDirExists(t, a.Config.OutDir)
}

func TestExporterBlogPagesAreStatic(t *testing.T) {
	a := newTestApp(t, blogFS())
	_, err := NewExporter(a).Build(context.Background())
	require.NoError(t, err)
	out := a.Config.OutDir

	index, err := os.ReadFile(filepath.Join(out, "blog", "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "hx-get")
	assert.NotContains(t, string(index), `id="blog-filter"`)
	assert.Contains(t, string(index), `href="/blog/tags/go/"`)
	assert.Contains(t, string(index), "Whisper release")

	tagged, err := os.ReadFile(filepath.Join(out, "blog", "tags", "go", "index.html"))
	require.NoError(t, err)
	body := string(tagged)
	assert.NotContains(t, body, "hx-get")
	assert.Contains(t, body, "Air-gapped builds")
	assert.Contains(t, body, "Go tips")
	assert.NotContains(t, body, "Whisper release")
	assert.Contains(t, body, "Showing 2 of 3 posts")
	assert.Contains(t, body, `href="/blog/tags/release/"`)

	post, err := os.ReadFile(filepath.Join(out, "blog", "alpha", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), `href="/blog/tags/security/"`)

	// The live server is back to the htmx form once the export is done.
	assert.Contains(t, get(t, a, "/blog/").Body.String(), "hx-get")
}

func TestExporterRefusesOutDirContainingSources(t *testing.T) {
	root := t.TempDir()
	contentDir := filepath.Join(root, "content", "blog")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	post := filepath.Join(contentDir, "hello.mdx")
	require.NoError(t, os.WriteFile(post, []byte("---\ntitle: Hello\ndate: 2024-01-01\n---\n"), 0o644))
	siteFile := filepath.Join(root, "site.yaml")
	require.NoError(t, os.WriteFile(siteFile, []byte("name: Test\n"), 0o644))

	for _, out := range []string{root, filepath.Join(root, "content"), contentDir} {
		a := New(SiteConfig{ContentDir: contentDir, StaticDir: filepath.Join(root, "public"), OutDir: out},
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

		_, err := NewExporter(a).Build(context.Background())
		assert.ErrorIs(t, err, ErrUnsafeOutDir, out)
	}
	assert.FileExists(t, post)
	assert.FileExists(t, siteFile)
}

func TestExporterKeepsFilesItDidNotWrite(t *testing.T) {
	a := newTestApp(t, blogFS())
	out := a.Config.OutDir
	require.NoError(t, os.MkdirAll(filepath.Join(out, ".git"), 0o755))
	cname := filepath.Join(out, "CNAME")
	require.NoError(t, os.WriteFile(cname, []byte("cleanroomlabs.dev\n"), 0o644))
	head := filepath.Join(out, ".git", "HEAD")
	require.NoError(t, os.WriteFile(head, []byte("ref: refs/heads/main\n"), 0o644))

	x := NewExporter(a)
	for range 2 {
		stats, err := x.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Removed)
	}
	assert.FileExists(t, cname)
	assert.FileExists(t, head)
}
