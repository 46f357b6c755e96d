package website

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/cleanroomlabs/website/content"
	"github.com/cleanroomlabs/website/views"
)

// ErrBuildLocked is returned when another build holds the output lock.
var ErrBuildLocked = errors.New("website: another build is writing the output directory")

// ErrUnsafeOutDir is returned when the output directory is, or contains, a
// source directory.
var ErrUnsafeOutDir = errors.New("website: output directory overlaps a source directory")

// manifestName lists, one slash path per line, the files a build wrote.
// The next build prunes only paths from it.
const manifestName = ".build-manifest"

// notFoundRoute is rendered to produce 404.html.
const notFoundRoute = "/__not-found__/"

// BuildStats summarizes one export.
type BuildStats struct {
	Pages     int // routes rendered
	Written   int // files created or replaced
	Unchanged int // files whose content already matched
	Removed   int // stale files deleted from the output
}

// Exporter writes the whole site to Config.OutDir by rendering every
// route through the App's own handlers.
type Exporter struct {
	app *App

	mu    sync.Mutex
	files map[string]struct{}
	stats BuildStats
}

// NewExporter returns an Exporter for app.
func NewExporter(app *App) *Exporter {
	return &Exporter{app: app}
}

// Build renders and copies the site into the output directory. All pages
// share one snapshot taken at the start; a content error aborts the build
// before anything is written.
func (x *Exporter) Build(ctx context.Context) (BuildStats, error) {
	out := filepath.Clean(x.app.Config.OutDir)
	if err := checkOutDir(x.app.Config); err != nil {
		return BuildStats{}, err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return BuildStats{}, fmt.Errorf("website: build: %w", err)
	}
	lock := flock.New(out + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return BuildStats{}, fmt.Errorf("website: build lock: %w", err)
	}
	if !locked {
		return BuildStats{}, ErrBuildLocked
	}
	defer func() { _ = lock.Unlock() }()

	snap, err := x.app.Loader().Snapshot()
	if err != nil {
		return BuildStats{}, err
	}
	x.app.pin(snap)
	defer x.app.pin(nil)

	x.files = make(map[string]struct{})
	x.stats = BuildStats{}

	// Rendered pages and the embedded stylesheet claim their paths first;
	// a copied file with the same name is skipped.
	if err := x.write(out, "public/site.css", Stylesheet); err != nil {
		return BuildStats{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.app.Config.BuildWorkers)
	routes := x.Routes(snap)
	for _, route := range routes {
		g.Go(func() error {
			return x.renderRoute(gctx, out, route, http.StatusOK, outputPath(route))
		})
	}
	g.Go(func() error {
		return x.renderRoute(gctx, out, notFoundRoute, http.StatusNotFound, "404.html")
	})
	if err := g.Wait(); err != nil {
		return BuildStats{}, err
	}

	g, gctx = errgroup.WithContext(ctx)
	if err := x.copyStatic(gctx, g, out); err != nil {
		return BuildStats{}, err
	}
	if fsys := x.app.docsFS; fsys != nil {
		x.copyTree(gctx, g, fsys, out, "docs")
	}
	if err := g.Wait(); err != nil {
		return BuildStats{}, err
	}

	removed, err := x.prune(out)
	if err != nil {
		return BuildStats{}, err
	}
	if err := x.writeManifest(out); err != nil {
		return BuildStats{}, err
	}
	x.stats.Pages = len(routes) + 1
	x.stats.Removed = removed

	x.app.Logger.Info("build complete",
		"out", out,
		"pages", x.stats.Pages,
		"written", x.stats.Written,
		"unchanged", x.stats.Unchanged,
		"removed", x.stats.Removed,
	)
	return x.stats, nil
}

// Routes lists every route the export renders for snap.
func (x *Exporter) Routes(snap *content.Snapshot) []string {
	routes := append([]string{}, StaticPages...)
	for _, p := range snap.Posts {
		routes = append(routes, p.Link())
	}
	for _, t := range snap.Tags {
		routes = append(routes, views.TagPagePath(BlogPath, t))
	}
	routes = append(routes, "/blog/posts.json", "/feed.xml", "/sitemap.xml", "/robots.txt")
	if _, err := os.Stat(filepath.Join(x.app.Config.StaticDir, "favicon.svg")); err == nil {
		routes = append(routes, "/favicon.svg")
	}
	return routes
}

// outputPath maps a route to its file under the output directory.
// Directory routes become index.html files.
func outputPath(route string) string {
	if p, err := url.PathUnescape(route); err == nil {
		route = p
	}
	name := strings.TrimPrefix(route, "/")
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	return name
}

func (x *Exporter) renderRoute(ctx context.Context, out, route string, want int, name string) error {
	req := httptest.NewRequest(http.MethodGet, route, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	x.app.Echo.ServeHTTP(rec, req)
	if rec.Code != want {
		return fmt.Errorf("website: export %s: status %d", route, rec.Code)
	}
	return x.write(out, name, rec.Body.Bytes())
}

// copyStatic queues the static dir for copying to out/public. A docs
// bundle nested inside it is skipped; it is copied to out/docs instead.
func (x *Exporter) copyStatic(ctx context.Context, g *errgroup.Group, out string) error {
	dir := x.app.Config.StaticDir
	fi, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("website: static dir: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("website: static dir %s is not a directory", dir)
	}

	skip := ""
	if rel, err := filepath.Rel(dir, x.app.Config.DocsDir); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		skip = filepath.ToSlash(rel)
	}
	x.copyTree(ctx, g, skipDir(os.DirFS(dir), skip), out, "public")
	return nil
}

// skippedFS hides one subtree of an fs.FS from ReadDir and WalkDir.
type skippedFS struct {
	fs.FS
	skip string
}

func skipDir(fsys fs.FS, dir string) fs.FS {
	if dir == "" {
		return fsys
	}
	return skippedFS{FS: fsys, skip: dir}
}

func (s skippedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(s.FS, name)
	if err != nil {
		return nil, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if path.Join(name, e.Name()) == s.skip {
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}

func (x *Exporter) copyTree(ctx context.Context, g *errgroup.Group, fsys fs.FS, out, prefix string) {
	g.Go(func() error {
		return fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("website: copy %s: %w", name, err)
			}
			return x.write(out, path.Join(prefix, name), data)
		})
	})
}

// write stores data at name under out unless the existing file already
// has the same content hash.
func (x *Exporter) write(out, name string, data []byte) error {
	dst := filepath.Join(out, filepath.FromSlash(name))

	x.mu.Lock()
	if _, dup := x.files[dst]; dup {
		x.mu.Unlock()
		x.app.Logger.Debug("skipped shadowed file", "path", name)
		return nil
	}
	x.files[dst] = struct{}{}
	x.mu.Unlock()

	changed, err := writeIfChanged(dst, data)
	if err != nil {
		return fmt.Errorf("website: write %s: %w", name, err)
	}
	x.mu.Lock()
	if changed {
		x.stats.Written++
	} else {
		x.stats.Unchanged++
	}
	x.mu.Unlock()
	return nil
}

func writeIfChanged(dst string, data []byte) (bool, error) {
	if old, err := os.ReadFile(dst); err == nil && xxhash.Sum64(old) == xxhash.Sum64(data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// checkOutDir refuses an output directory that equals or is an ancestor of
// the content, static or docs directory.
func checkOutDir(cfg SiteConfig) error {
	out, err := filepath.Abs(cfg.OutDir)
	if err != nil {
		return fmt.Errorf("website: output dir: %w", err)
	}
	for _, dir := range []string{cfg.ContentDir, cfg.StaticDir, cfg.DocsDir} {
		if dir == "" {
			continue
		}
		src, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(out, src)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return fmt.Errorf("%w: %s contains %s", ErrUnsafeOutDir, cfg.OutDir, dir)
		}
	}
	return nil
}

// relName returns the slash path of dst under out.
func relName(out, dst string) string {
	rel, err := filepath.Rel(out, dst)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

// prune deletes files a previous build recorded in its manifest that this
// build did not produce, then any directories left empty. Files the
// manifest never listed are left alone.
func (x *Exporter) prune(out string) (int, error) {
	data, err := os.ReadFile(filepath.Join(out, manifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("website: prune: %w", err)
	}

	removed := 0
	dirs := make(map[string]struct{})
	for _, name := range strings.Split(string(data), "\n") {
		if name == "" || name == manifestName || !fs.ValidPath(name) {
			continue
		}
		p := filepath.Join(out, filepath.FromSlash(name))
		if _, ok := x.files[p]; ok {
			continue
		}
		err := os.Remove(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("website: prune: %w", err)
		}
		removed++
		x.app.Logger.Debug("removed stale file", "path", name)
		for d := path.Dir(name); d != "."; d = path.Dir(d) {
			dirs[d] = struct{}{}
		}
	}

	// Deepest first so parents empty out after their children.
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
	for _, d := range sorted {
		_ = os.Remove(filepath.Join(out, filepath.FromSlash(d)))
	}
	return removed, nil
}

func (x *Exporter) writeManifest(out string) error {
	names := make([]string, 0, len(x.files))
	for p := range x.files {
		if name := relName(out, p); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	data := []byte(strings.Join(names, "\n") + "\n")
	if _, err := writeIfChanged(filepath.Join(out, manifestName), data); err != nil {
		return fmt.Errorf("website: write manifest: %w", err)
	}
	return nil
}
