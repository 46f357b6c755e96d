package website

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cleanroomlabs/website/content"
	"github.com/cleanroomlabs/website/filter"
	"github.com/cleanroomlabs/website/views"
)

// BlogPath is the blog index route.
const BlogPath = "/blog/"

// relatedLimit caps the related posts shown under a post.
const relatedLimit = 3

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework stylesheet first; everything else under /public comes from
	// the static dir.
	e.GET("/public/site.css", a.handleStylesheet)
	e.Static("/public", a.Config.StaticDir)
	e.GET("/docs/*", a.handleDocsFile)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/about/", a.handleAbout)
	e.GET("/donate/", a.handleDonate)
	e.GET("/docs/", a.handleDocs)
	e.GET("/blog", handleBlogRedirect)
	e.GET(BlogPath, a.handleBlog)
	e.GET("/blog/posts.json", a.handlePostsJSON)
	e.GET("/blog/tags/:tag/", a.handleBlogTag)
	e.GET("/blog/:slug/", a.handlePost)
}

func (a *App) handleHome(c echo.Context) error {
	return Render(c, views.Home(a.site(), a.products()))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, views.About(a.site()))
}

func (a *App) handleDonate(c echo.Context) error {
	return Render(c, views.Donate(a.site()))
}

func (a *App) handleDocs(c echo.Context) error {
	return Render(c, views.Docs(a.site(), a.products()))
}

// handleBlog restores the filter state from the query, applies any toggle
// or clear actions in one batch and renders the result. A changed URL is
// reported to htmx with HX-Replace-Url; a plain request is redirected to
// the canonical URL instead. An htmx request whose browser location no
// longer matches the state, such as a search submit, also gets
// HX-Replace-Url.
func (a *App) handleBlog(c echo.Context) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	if a.exporting() {
		return a.renderStaticBlog(c, snap, "")
	}

	router := newRequestRouter(c)
	engine := filter.NewEngine(router, snap.Tags, BlogPath)
	engine.Init()

	params := c.QueryParams()
	toggles, reset := params[ParamToggle], params.Get(ParamClear) != ""
	if len(toggles) > 0 || reset {
		known := filter.NewTagSet(snap.Tags...)
		engine.Batch(func(tx *filter.Tx) {
			if reset {
				tx.Clear()
			}
			for _, t := range toggles {
				if known.Has(t) {
					tx.ToggleTag(t)
				}
			}
		})
	}

	if router.replaced {
		if !IsHTMX(c) && router.target != c.Request().URL.RequestURI() {
			return c.Redirect(http.StatusSeeOther, router.target)
		}
		c.Response().Header().Set(HeaderHXReplaceURL, router.target)
	} else if cur := HXCurrentURL(c); cur != nil {
		canonical := engine.State().Link(BlogPath)
		if filter.ReplaceURL(cur.Path, cur.Query()) != canonical {
			c.Response().Header().Set(HeaderHXReplaceURL, canonical)
		}
	}

	page := views.NewBlogPage(snap.Posts, engine.Visible(snap.Posts), engine.State(), snap.Tags, BlogPath)
	if HXTarget(c) == "blog-results" {
		return Render(c, views.BlogResults(page))
	}
	return Render(c, views.Blog(a.site(), page))
}

// handleBlogTag is the pre-rendered listing of one tag. The live server
// redirects it to the equivalent filter URL.
func (a *App) handleBlogTag(c echo.Context) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	tag := c.Param("tag")
	if !filter.NewTagSet(snap.Tags...).Has(tag) {
		return echo.ErrNotFound
	}
	if !a.exporting() {
		state := filter.State{Tags: filter.NewTagSet(tag)}
		return c.Redirect(http.StatusFound, state.Link(BlogPath))
	}
	return a.renderStaticBlog(c, snap, tag)
}

func (a *App) renderStaticBlog(c echo.Context, snap *content.Snapshot, tag string) error {
	visible := snap.PostsTagged(tag)
	page := views.NewStaticBlogPage(snap.Posts, visible, tag, snap.Tags, BlogPath)
	return Render(c, views.Blog(a.site(), page))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	raw, err := a.Loader().LoadPostBySlug(slug)
	if err != nil {
		return err
	}
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	post, err := snap.Post(slug)
	if err != nil {
		return err
	}
	return Render(c, views.Post(a.site(), views.PostPage{
		Post:    post,
		Body:    raw.Body,
		Related: snap.Related(post, relatedLimit),
	}))
}

// handlePostsJSON serves the plain post records the blog index filters.
func (a *App) handlePostsJSON(c echo.Context) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, snap.Posts)
}

func (a *App) handleFeed(c echo.Context) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	return a.renderRSS(c, snap.Posts)
}

func handleBlogRedirect(c echo.Context) error {
	target := BlogPath
	if q := c.Request().URL.RawQuery; q != "" {
		target += "?" + q
	}
	return c.Redirect(http.StatusMovedPermanently, target)
}

func (a *App) handleStylesheet(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", Stylesheet)
}

// handleDocsFile serves the documentation bundle as opaque files.
// Directory paths resolve to their index.html.
func (a *App) handleDocsFile(c echo.Context) error {
	if a.docsFS == nil {
		return echo.ErrNotFound
	}
	return echo.StaticDirectoryHandler(a.docsFS, false)(c)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

// handleRobots serves the static robots.txt if there is one and a
// permissive default pointing at the sitemap otherwise.
func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.Config.StaticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	return c.String(http.StatusOK, RobotsTxt(a.Config))
}

// RobotsTxt is the default robots.txt body.
func RobotsTxt(cfg SiteConfig) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimRight(cfg.URL, "/") + "/sitemap.xml\n"
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, content.ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "uri", c.Request().RequestURI, "err", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
