package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanroomlabs/website/content"
)

// site writes a config pointing every directory into a temp dir and
// returns its path.
func site(t *testing.T) (cfgPath, root string) {
	t.Helper()
	root = t.TempDir()
	cfgPath = filepath.Join(root, "site.yaml")
	cfg := "contentDir: " + filepath.Join(root, "posts") + "\n" +
		"staticDir: " + filepath.Join(root, "public") + "\n" +
		"docsDir: " + filepath.Join(root, "public", "docs") + "\n" +
		"outDir: " + filepath.Join(root, "out") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagConfig, flagVerbose = "site.yaml", false
	flagBuildOut, flagServeAddr = "", ""
	flagPostsJSON, flagPostsTag = false, ""
	flagNewTags, flagNewAuthor, flagNewDate, flagNewExcerpt = "", "", "", ""
	flagDocsCheck = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNewCreatesPost(t *testing.T) {
	cfg, root := site(t)

	out, err := run(t, "new", "Offline Builds: Part 1", "--tags", "go, air-gap", "--author", "Dana", "--date", "2024-05-01", "--config", cfg)
	require.NoError(t, err)

	path := filepath.Join(root, "posts", "offline-builds-part-1.mdx")
	assert.Contains(t, out, path)

	posts, err := content.NewLoader(os.DirFS(filepath.Join(root, "posts")), ".").LoadAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "offline-builds-part-1", posts[0].Slug)
	assert.Equal(t, "Offline Builds: Part 1", posts[0].Title)
	assert.Equal(t, "2024-05-01", posts[0].Date)
	assert.Equal(t, "Dana", posts[0].Author)
	assert.Equal(t, []string{"go", "air-gap"}, posts[0].Tags)
}

func TestNewRefusesExistingPost(t *testing.T) {
	cfg, _ := site(t)

	_, err := run(t, "new", "Hello", "--config", cfg)
	require.NoError(t, err)
	_, err = run(t, "new", "Hello", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestNewRejectsBadInput(t *testing.T) {
	cfg, _ := site(t)

	_, err := run(t, "new", "!!!", "--config", cfg)
	assert.Error(t, err)

	_, err = run(t, "new", "Fine", "--date", "May 1st", "--config", cfg)
	assert.Error(t, err)

	_, err = run(t, "new", "Fine", "--tags", "ci/cd", "--config", cfg)
	assert.Error(t, err)
}

func TestPostsAndTags(t *testing.T) {
	cfg, _ := site(t)
	_, err := run(t, "new", "First", "--tags", "go", "--date", "2024-01-01", "--config", cfg)
	require.NoError(t, err)
	_, err = run(t, "new", "Second", "--tags", "go,release", "--date", "2024-02-01", "--config", cfg)
	require.NoError(t, err)

	out, err := run(t, "posts", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Less(t, bytes.Index([]byte(out), []byte("second")), bytes.Index([]byte(out), []byte("first")), "newest first")

	out, err = run(t, "posts", "--json", "--tag", "release", "--config", cfg)
	require.NoError(t, err)
	var posts []content.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "second", posts[0].Slug)

	out, err = run(t, "tags", "--config", cfg)
	require.NoError(t, err)
	assert.Regexp(t, `go\s+2\n`, out)
	assert.Regexp(t, `release\s+1\n`, out)
}

func TestPostsEmpty(t *testing.T) {
	cfg, root := site(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts"), 0o755))

	out, err := run(t, "posts", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "No posts.\n", out)
}

func TestBuild(t *testing.T) {
	cfg, root := site(t)
	_, err := run(t, "new", "First", "--date", "2024-01-01", "--config", cfg)
	require.NoError(t, err)

	out := filepath.Join(root, "dist")
	stdout, err := run(t, "build", "--out", out, "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Built")
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "blog", "first", "index.html"))
}

func TestDocsCheck(t *testing.T) {
	cfg, _ := site(t)

	out, err := run(t, "docs", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "AirGap Transfer")
	assert.Contains(t, out, "missing")

	_, err = run(t, "docs", "--check", "--config", cfg)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cleanroom dev")
}
