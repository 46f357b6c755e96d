// Package views renders the site's pages.
//
// Every page is a templ.Component backed by html/template files embedded
// from templates/. Each page template is parsed together with the shared
// layout and partials once, at package init.
package views

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/cleanroomlabs/website/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDate": FormatDate,
	"plural":     Plural,
	"tagClass":   TagClass,
	"pathEscape": PathEscape,
	"jsonLD":     func(s string) template.JS { return template.JS(s) },
	"markdown": func(md string) template.HTML {
		var buf bytes.Buffer
		markdown.RenderMarkdown(&buf, md)
		return template.HTML(buf.String())
	},
}

var pages = map[string]*template.Template{}

func init() {
	base := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html", "templates/partials.html"))
	for _, name := range []string{"home", "about", "donate", "docs", "blog", "post", "notfound", "error"} {
		pages[name] = template.Must(template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name+".html"))
	}
}

// page is the data handed to every full-page template.
type page struct {
	Site   SiteConfig
	Meta   PageMeta
	JSONLD string
	Data   any
}

func render(name, entry string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, entry, data)
	})
}

func meta(cfg SiteConfig, title, description string, segments ...string) PageMeta {
	if description == "" {
		description = cfg.Description
	}
	full := cfg.Name
	if title != "" {
		full = title + " - " + cfg.Name
	}
	return PageMeta{Title: full, Description: description, URL: buildURL(cfg.URL, segments...), OGType: "website"}
}

// Home renders the landing page with the product cards.
func Home(cfg SiteConfig, products []Product) templ.Component {
	return render("home", "layout", page{
		Site:   cfg,
		Meta:   meta(cfg, "", ""),
		JSONLD: WebsiteJsonLD(cfg),
		Data:   products,
	})
}

// About renders the about page.
func About(cfg SiteConfig) templ.Component {
	return render("about", "layout", page{
		Site: cfg,
		Meta: meta(cfg, "About Us", "Learn about "+cfg.Name+"'s mission to build free, open-source tools for air-gapped development.", "about"),
	})
}

// Donate renders the donate page.
func Donate(cfg SiteConfig) templ.Component {
	return render("donate", "layout", page{
		Site: cfg,
		Meta: meta(cfg, "Donate", "Support "+cfg.Name+" and help us continue building free, open-source tools for air-gapped development.", "donate"),
	})
}

// Docs renders the documentation landing page.
func Docs(cfg SiteConfig, products []Product) templ.Component {
	return render("docs", "layout", page{
		Site: cfg,
		Meta: meta(cfg, "Documentation", "Browse the complete technical documentation for "+cfg.Name, "docs"),
		Data: products,
	})
}

// Blog renders the blog index with its filter controls.
func Blog(cfg SiteConfig, p BlogPage) templ.Component {
	return render("blog", "layout", page{
		Site: cfg,
		Meta: meta(cfg, "Blog", "", "blog"),
		Data: p,
	})
}

// BlogResults renders only the filterable region of the blog index.
func BlogResults(p BlogPage) templ.Component {
	return render("blog", "results", p)
}

// Post renders a single post page.
func Post(cfg SiteConfig, p PostPage) templ.Component {
	m := meta(cfg, p.Post.Title, p.Post.Excerpt, "blog", p.Post.Slug)
	m.OGType = "article"
	return render("post", "layout", page{
		Site:   cfg,
		Meta:   m,
		JSONLD: BlogPostingJsonLD(cfg, p.Post),
		Data:   p,
	})
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return render("notfound", "layout", page{Site: cfg, Meta: meta(cfg, "Not Found", "")})
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return render("error", "layout", page{Site: cfg, Meta: meta(cfg, "Error", "")})
}
