package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/cleanroomlabs/website/markdown"
)

// Extensions lists the file extensions recognised as post sources.
var Extensions = []string{".mdx", ".md"}

// Loader reads post sources from dir inside fsys.
type Loader struct {
	fsys fs.FS
	dir  string
}

// NewLoader returns a Loader for the sources in dir. Use "." for the root
// of fsys.
func NewLoader(fsys fs.FS, dir string) *Loader {
	if dir == "" {
		dir = "."
	}
	return &Loader{fsys: fsys, dir: path.Clean(dir)}
}

type source struct {
	slug string
	file string
}

// sources returns every post source in lexical filename order.
func (l *Loader) sources() ([]source, error) {
	entries, err := fs.ReadDir(l.fsys, l.dir)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", l.dir, err)
	}
	var out []source
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		if !isPostExt(ext) {
			continue
		}
		out = append(out, source{
			slug: strings.TrimSuffix(e.Name(), ext),
			file: path.Join(l.dir, e.Name()),
		})
	}
	return out, nil
}

func isPostExt(ext string) bool {
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadAllPosts parses every source and returns the posts sorted by date,
// newest first. Posts sharing a date keep their filename order. The first
// bad source aborts the load with a *ParseError.
func (l *Loader) LoadAllPosts() ([]Post, error) {
	srcs, err := l.sources()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(srcs))
	posts := make([]Post, 0, len(srcs))
	for _, src := range srcs {
		if !ValidSlug(src.slug) {
			return nil, parseErrorf(src.file, ErrInvalidSlug, "%q is not URL-safe", src.slug)
		}
		if prev, dup := seen[src.slug]; dup {
			return nil, parseErrorf(src.file, ErrDuplicateSlug, "%q also defined by %s", src.slug, prev)
		}
		seen[src.slug] = src.file

		post, err := l.parsePost(src)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	SortByDate(posts)
	return posts, nil
}

// SortByDate orders posts newest first, keeping the relative order of
// posts with equal dates.
func SortByDate(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Time.After(posts[j].Time)
	})
}

func (l *Loader) parsePost(src source) (Post, error) {
	data, err := fs.ReadFile(l.fsys, src.file)
	if err != nil {
		return Post{}, fmt.Errorf("content: read %s: %w", src.file, err)
	}
	meta, body, ok, err := splitFrontmatter(data)
	if err != nil {
		return Post{}, parseErrorf(src.file, ErrMalformedFrontmatter, "%v", err)
	}
	if !ok {
		return Post{}, parseErrorf(src.file, ErrMissingField, "no frontmatter block (title and date are required)")
	}

	var fm frontmatter
	if err := decodeFrontmatter(meta, &fm); err != nil {
		return Post{}, parseErrorf(src.file, ErrMalformedFrontmatter, "%v", err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, parseErrorf(src.file, ErrMissingField, "title")
	}
	if strings.TrimSpace(fm.Date) == "" {
		return Post{}, parseErrorf(src.file, ErrMissingField, "date")
	}
	at, err := parseDate(fm.Date)
	if err != nil {
		return Post{}, parseErrorf(src.file, ErrInvalidDate, "%v", err)
	}
	for _, t := range fm.Tags {
		if strings.ContainsAny(t, ",/") {
			return Post{}, parseErrorf(src.file, ErrInvalidTag, "%q contains a comma or slash", t)
		}
	}

	return Post{
		Slug:          src.slug,
		Title:         fm.Title,
		Date:          fm.Date,
		Author:        fm.Author,
		Tags:          []string(fm.Tags),
		Excerpt:       fm.Excerpt,
		ReadTime:      fm.ReadTime,
		SearchContent: markdown.PlainText(string(body)),
		Time:          at,
	}, nil
}

// LoadPostBySlug returns the raw metadata and body of one source. An
// unknown slug yields a *NotFoundError.
func (l *Loader) LoadPostBySlug(slug string) (RawPost, error) {
	if !ValidSlug(slug) {
		return RawPost{}, &NotFoundError{Slug: slug}
	}
	for _, ext := range Extensions {
		file := path.Join(l.dir, slug+ext)
		data, err := fs.ReadFile(l.fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return RawPost{}, fmt.Errorf("content: read %s: %w", file, err)
		}
		meta, body, _, err := splitFrontmatter(data)
		if err != nil {
			return RawPost{}, parseErrorf(file, ErrMalformedFrontmatter, "%v", err)
		}
		raw := RawPost{Slug: slug, Metadata: map[string]any{}, Body: string(body)}
		if err := decodeFrontmatter(meta, &raw.Metadata); err != nil {
			return RawPost{}, parseErrorf(file, ErrMalformedFrontmatter, "%v", err)
		}
		return raw, nil
	}
	return RawPost{}, &NotFoundError{Slug: slug}
}

// ListSlugs returns the slug of every source in filename order.
func (l *Loader) ListSlugs() ([]string, error) {
	srcs, err := l.sources()
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(srcs))
	for _, src := range srcs {
		slugs = append(slugs, src.slug)
	}
	return slugs, nil
}
