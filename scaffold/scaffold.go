// Package scaffold provides the embedded template used by "cleanroom new"
// to start a blog post.
package scaffold

import (
	"embed"
	"io"
	"strconv"
	"text/template"
)

// Templates contains the scaffold template files. Files use Go
// text/template syntax and have a .tmpl suffix.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// PostTemplate is the name of the new-post template within Templates.
const PostTemplate = "templates/post.mdx.tmpl"

// Post holds the template variables for a new post.
type Post struct {
	Title   string
	Date    string // YYYY-MM-DD
	Author  string
	Tags    []string
	Excerpt string
}

var funcs = template.FuncMap{
	// quote renders a YAML double-quoted scalar.
	"quote": strconv.Quote,
}

// WritePost renders the post template for p to w.
func WritePost(w io.Writer, p Post) error {
	tmpl, err := template.New("post.mdx.tmpl").Funcs(funcs).ParseFS(Templates, PostTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, p)
}
