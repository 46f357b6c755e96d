package website

import (
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cleanroomlabs/website/content"
	"github.com/cleanroomlabs/website/docs"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// StaticPages are the fixed routes listed in the sitemap and exported.
var StaticPages = []string{"/", "/about/", "/donate/", "/docs/", "/blog/"}

// WriteSitemap writes a sitemap of the fixed pages, every post and every
// documentation page to w.
func WriteSitemap(w io.Writer, cfg SiteConfig, posts []content.Post, pages []docs.Page) error {
	base := cfg.URL
	urls := make([]sitemapURL, 0, len(StaticPages)+len(posts)+len(pages))
	for _, p := range StaticPages {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, strings.Trim(p, "/"))})
	}
	for _, p := range posts {
		lastMod := ""
		if !p.Time.IsZero() {
			lastMod = p.Time.Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Slug),
			LastMod: lastMod,
		})
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{Loc: strings.TrimRight(base, "/") + docs.Mount + p.Path})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}

func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	pages, err := a.Docs().Pages()
	if err != nil {
		a.Logger.Warn("sitemap: docs bundle unreadable", "err", err)
		pages = nil
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteSitemap(c.Response(), a.Config, posts, pages)
}
