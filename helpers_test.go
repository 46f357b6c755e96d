package website

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Air-Gapped   Builds! ", "air-gapped-builds"},
		{"v1.2 Release", "v1-2-release"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://example.org/", BuildURL("https://example.org", ""))
	assert.Equal(t, "https://example.org/blog/post/", BuildURL("https://example.org/", "blog", "post"))
	assert.Equal(t, "https://example.org", BuildURL("https://example.org"))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"go", "offline"}, SplitTags(" go, ,offline "))
	assert.Nil(t, SplitTags(""))
}

func TestRobotsTxt(t *testing.T) {
	got := RobotsTxt(SiteConfig{URL: "https://example.org/"})
	assert.Contains(t, got, "Sitemap: https://example.org/sitemap.xml")
}
