package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePost(t *testing.T) {
	var b strings.Builder
	err := WritePost(&b, Post{
		Title:  `Offline: a "guide"`,
		Date:   "2024-05-01",
		Author: "Dana",
		Tags:   []string{"go", "air-gap"},
	})
	require.NoError(t, err)

	out := b.String()
	assert.True(t, strings.HasPrefix(out, "---\ntitle: \"Offline: a \\\"guide\\\"\"\ndate: 2024-05-01\n"))
	assert.Contains(t, out, "author: \"Dana\"\n")
	assert.Contains(t, out, "tags: [\"go\", \"air-gap\"]\n")
	assert.Contains(t, out, "excerpt: \"\"\n---\n")
}

func TestWritePostOmitsEmptyOptionalFields(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WritePost(&b, Post{Title: "T", Date: "2024-05-01"}))

	out := b.String()
	assert.NotContains(t, out, "author:")
	assert.NotContains(t, out, "tags:")
}
