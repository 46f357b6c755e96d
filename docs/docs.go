// Package docs reads the prebuilt documentation bundle mounted under /docs/.
//
// The bundle is Sphinx output and is served as opaque static files. The
// only thing read from it is page titles, so the site can label product
// documentation links and notice links that point nowhere.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mount is the URL prefix the bundle is served under.
const Mount = "/docs/"

// Product is a product with a link into the documentation bundle.
type Product struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	DocsURL     string `yaml:"docsUrl" json:"docsUrl"`
}

// Entry is a product with its documentation link checked against a bundle.
type Entry struct {
	Product
	Title     string
	Available bool
}

// Page is one HTML page in the bundle.
type Page struct {
	Path  string
	Title string
}

// Bundle is a documentation tree rooted at fsys. A nil fsys is an empty
// bundle.
type Bundle struct {
	fsys fs.FS
}

// Open returns a Bundle over fsys.
func Open(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys}
}

// Exists reports whether the bundle root has any entries.
func (b *Bundle) Exists() bool {
	if b.fsys == nil {
		return false
	}
	entries, err := fs.ReadDir(b.fsys, ".")
	return err == nil && len(entries) > 0
}

// Title returns the title of the page at name, a slash-separated path
// relative to the bundle root.
func (b *Bundle) Title(name string) (string, error) {
	if b.fsys == nil {
		return "", fmt.Errorf("docs: title %s: %w", name, fs.ErrNotExist)
	}
	f, err := b.fsys.Open(name)
	if err != nil {
		return "", fmt.Errorf("docs: title %s: %w", name, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("docs: parse %s: %w", name, err)
	}
	return pageTitle(doc), nil
}

// pageTitle prefers <title> without the Sphinx project suffix, falling
// back to the first heading.
func pageTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("head title").First().Text())
	if i := strings.Index(title, " \u2014 "); i > 0 {
		title = title[:i]
	}
	if title != "" {
		return title
	}
	h1 := doc.Find("h1").First().Clone()
	h1.Find("a.headerlink").Remove()
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(h1.Text()), "\u00b6"))
}

// Pages returns every HTML page in the bundle, sorted by path.
func (b *Bundle) Pages() ([]Page, error) {
	if b.fsys == nil {
		return nil, nil
	}
	var pages []Page
	err := fs.WalkDir(b.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), "_") {
				return fs.SkipDir // Sphinx assets: _static, _sources
			}
			return nil
		}
		if path.Ext(p) != ".html" {
			return nil
		}
		title, err := b.Title(p)
		if err != nil {
			return err
		}
		pages = append(pages, Page{Path: p, Title: title})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("docs: walk: %w", err)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
	return pages, nil
}

// Resolve checks each product's docs link. Links under Mount must name a
// page in the bundle; links elsewhere are taken as available untitled.
func (b *Bundle) Resolve(products []Product) []Entry {
	entries := make([]Entry, 0, len(products))
	for _, p := range products {
		e := Entry{Product: p}
		switch {
		case p.DocsURL == "":
		case !strings.HasPrefix(p.DocsURL, Mount):
			e.Available = true
		default:
			name := strings.TrimPrefix(p.DocsURL, Mount)
			if i := strings.IndexAny(name, "?#"); i >= 0 {
				name = name[:i]
			}
			if name == "" || strings.HasSuffix(name, "/") {
				name += "index.html"
			}
			title, err := b.Title(name)
			if err == nil {
				e.Title, e.Available = title, true
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// Missing returns the products whose bundle link does not resolve.
func (b *Bundle) Missing(products []Product) []Product {
	var missing []Product
	for _, e := range b.Resolve(products) {
		if !e.Available {
			missing = append(missing, e.Product)
		}
	}
	return missing
}

// IsNotExist reports whether err means a page or the bundle is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
