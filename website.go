// Package website is the Cleanroom Labs site engine built with Go, Echo and
// templ components.
//
// An App serves the marketing pages, the filterable blog, the mounted
// documentation bundle, RSS and a sitemap. The same App backs both the dev
// server and the static export: the Exporter renders every route through
// the App's handlers and writes the results to disk.
//
// Content is never cached. Each request reads the post sources again, so
// edits show up on the next reload.
package website

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"github.com/cleanroomlabs/website/content"
	"github.com/cleanroomlabs/website/docs"
	"github.com/cleanroomlabs/website/views"
)

// App is the central site application. It wires together the content
// loader, the docs bundle, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Logger *slog.Logger

	contentFS    fs.FS
	docsFS       fs.FS
	customRoutes []func(*App)

	pinned atomic.Pointer[content.Snapshot]
}

// New creates an App with its middleware and routes installed.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.contentFS == nil {
		a.contentFS = os.DirFS(a.Config.ContentDir)
	}
	if a.docsFS == nil {
		a.docsFS = dirFSIfExists(a.Config.DocsDir)
	}

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a
}

func dirFSIfExists(dir string) fs.FS {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}

// Start serves HTTP on Config.Addr until the server is shut down.
func (a *App) Start() error {
	a.Logger.Info("serving", "addr", a.Config.Addr, "content", a.Config.ContentDir, "docs", a.Config.DocsDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Loader returns a content loader over the App's post sources.
func (a *App) Loader() *content.Loader {
	return content.NewLoader(a.contentFS, ".")
}

// Snapshot loads a fresh posts and tags snapshot, or returns the pinned
// one while an export is running.
func (a *App) Snapshot() (*content.Snapshot, error) {
	if snap := a.pinned.Load(); snap != nil {
		return snap, nil
	}
	return a.Loader().Snapshot()
}

// pin makes every handler share snap until pin(nil). While pinned the
// blog index renders its static form.
func (a *App) pin(snap *content.Snapshot) {
	a.pinned.Store(snap)
}

func (a *App) exporting() bool {
	return a.pinned.Load() != nil
}

// Docs returns the documentation bundle.
func (a *App) Docs() *docs.Bundle {
	return docs.Open(a.docsFS)
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

func (a *App) products() []views.Product {
	entries := a.Docs().Resolve(a.Config.Products)
	out := make([]views.Product, 0, len(entries))
	for _, e := range entries {
		out = append(out, views.Product{
			Name:        e.Name,
			Description: e.Description,
			DocsURL:     e.DocsURL,
			DocsTitle:   e.Title,
			Available:   e.Available,
		})
	}
	return out
}
