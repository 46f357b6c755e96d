package website

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cleanroomlabs/website/docs"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Cleanroom Labs")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Default post author for JSON-LD

	Addr       string `yaml:"addr"`       // Listen address (default ":3000")
	ContentDir string `yaml:"contentDir"` // Post sources (default "content/blog")
	StaticDir  string `yaml:"staticDir"`  // Static assets served at /public (default "public")
	DocsDir    string `yaml:"docsDir"`    // Documentation bundle served at /docs (default "public/docs")
	OutDir     string `yaml:"outDir"`     // Static export target (default "out")

	BuildWorkers int `yaml:"buildWorkers"` // Concurrent page renders during export (default GOMAXPROCS)

	Products []docs.Product `yaml:"products"` // Product cards on the home and docs pages
}

// DefaultProducts are the product cards shown when the config names none.
var DefaultProducts = []docs.Product{
	{
		Name:        "AirGap Transfer",
		Description: "Secure data transfer for moving files between air-gapped systems.",
		DocsURL:     "/docs/airgap-transfer/readme.html",
	},
	{
		Name:        "AirGap Deploy",
		Description: "Universal deployment framework for isolated environments.",
		DocsURL:     "/docs/airgap-deploy/readme.html",
	},
	{
		Name:        "Cleanroom Whisper",
		Description: "Private voice transcription powered by local AI. Your words stay on your machine: no cloud, no network, complete privacy.",
		DocsURL:     "/docs/cleanroom-whisper/readme.html",
	},
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Cleanroom Labs"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Free, open-source tools for air-gapped development."
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DocsDir == "" {
		c.DocsDir = "public/docs"
	}
	if c.OutDir == "" {
		c.OutDir = "out"
	}
	if c.BuildWorkers <= 0 {
		c.BuildWorkers = runtime.GOMAXPROCS(0)
	}
	if c.Products == nil {
		c.Products = DefaultProducts
	}
}

// LoadConfig reads the YAML file at path, applies environment overrides
// and fills in defaults. An empty path, or a path that does not exist,
// yields the environment and defaults alone.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return SiteConfig{}, fmt.Errorf("website: read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return SiteConfig{}, fmt.Errorf("website: parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	c.Name = EnvOr("SITE_NAME", c.Name)
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Description = EnvOr("SITE_DESCRIPTION", c.Description)
	c.Author = EnvOr("SITE_AUTHOR", c.Author)
	c.Addr = EnvOr("SITE_ADDR", c.Addr)
	c.ContentDir = EnvOr("CONTENT_DIR", c.ContentDir)
	c.StaticDir = EnvOr("STATIC_DIR", c.StaticDir)
	c.DocsDir = EnvOr("DOCS_DIR", c.DocsDir)
	c.OutDir = EnvOr("OUT_DIR", c.OutDir)
	if n, err := strconv.Atoi(os.Getenv("BUILD_WORKERS")); err == nil {
		c.BuildWorkers = n
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used for requests and errors (default slog.Default).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithStaticDir overrides the directory served at /public.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithContentFS reads post sources from the root of fsys instead of ContentDir.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithDocsFS reads the documentation bundle from fsys instead of DocsDir.
func WithDocsFS(fsys fs.FS) Option {
	return func(a *App) {
		a.docsFS = fsys
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
