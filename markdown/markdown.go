// Package markdown renders post bodies to HTML and reduces them to plain
// text for search.
//
// The renderer understands the markdown subset used by blog posts plus the
// MDX conventions that show up in them: top-level import/export statements
// are dropped and lone component tags (<Callout>, </Callout>, <Figure />)
// are removed while the text between them is rendered normally.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold        = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldAlt     = regexp.MustCompile(`__(.+?)__`)
	reItalic      = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicAlt   = regexp.MustCompile(`\b_([^_]+)_\b`)
	reStrike      = regexp.MustCompile(`~~(.+?)~~`)
	reInlineCode  = regexp.MustCompile("`([^`]+)`")
	reLink        = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reImage       = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reOrderedItem = regexp.MustCompile(`^(\d+)[.)]\s`)
	reHeadingLine = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	reMDXStmt     = regexp.MustCompile(`^(import|export)\s`)
	reJSXTagLine  = regexp.MustCompile(`^</?[A-Z][A-Za-z0-9.]*(\s[^>]*)?/?>$`)
	reAnchorChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	r := &renderer{buf: buf}
	for _, raw := range strings.Split(md, "\n") {
		r.line(strings.TrimRight(raw, "\r"))
	}
	r.closeBlock()
	if r.fence != "" {
		buf.WriteString("</code></pre>")
	}
}

type blockKind int

const (
	blockNone blockKind = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockTable
)

// renderer tracks the one open block; markdown blocks here never nest.
type renderer struct {
	buf       *bytes.Buffer
	open      blockKind
	tableBody bool
	fence     string // opening fence marker while inside a code block
	images    int
}

func (r *renderer) line(line string) {
	if r.fence != "" {
		if strings.HasPrefix(strings.TrimSpace(line), r.fence) {
			r.buf.WriteString("</code></pre>")
			r.fence = ""
			return
		}
		r.buf.WriteString(html.EscapeString(line))
		r.buf.WriteByte('\n')
		return
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		r.closeBlock()
	case strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~"):
		r.closeBlock()
		r.fence = trimmed[:3]
		lang := strings.TrimSpace(trimmed[3:])
		if lang != "" {
			escaped := html.EscapeString(lang)
			r.buf.WriteString(`<pre class="code-block" data-lang="` + escaped + `"><code class="language-` + escaped + `">`)
		} else {
			r.buf.WriteString(`<pre class="code-block"><code>`)
		}
	case r.open == blockNone && reMDXStmt.MatchString(trimmed):
		// MDX module statements have no HTML output.
	case reJSXTagLine.MatchString(trimmed):
		r.closeBlock()
	case isRule(trimmed):
		r.closeBlock()
		r.buf.WriteString("<hr/>")
	case reHeadingLine.MatchString(trimmed):
		r.closeBlock()
		m := reHeadingLine.FindStringSubmatch(trimmed)
		level := strconv.Itoa(len(m[1]))
		text := strings.TrimSpace(strings.TrimRight(m[2], "#"))
		r.buf.WriteString("<h" + level + ` id="` + Anchor(text) + `">`)
		r.buf.WriteString(r.inline(text))
		r.buf.WriteString("</h" + level + ">")
	case strings.HasPrefix(trimmed, "|"):
		r.tableRow(trimmed)
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ "):
		r.ensure(blockList)
		r.item(trimmed[2:])
	case reOrderedItem.MatchString(trimmed):
		r.ensure(blockOrdered)
		r.item(reOrderedItem.ReplaceAllString(trimmed, ""))
	case strings.HasPrefix(trimmed, ">"):
		if r.open == blockQuote {
			r.buf.WriteByte(' ')
		} else {
			r.ensure(blockQuote)
		}
		r.buf.WriteString(r.inline(strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))))
	default:
		if r.open == blockPara {
			r.buf.WriteByte(' ')
		} else {
			r.ensure(blockPara)
		}
		r.buf.WriteString(r.inline(trimmed))
	}
}

// ensure closes any open block of a different kind and opens kind.
func (r *renderer) ensure(kind blockKind) {
	if r.open == kind {
		return
	}
	r.closeBlock()
	switch kind {
	case blockPara:
		r.buf.WriteString("<p>")
	case blockList:
		r.buf.WriteString("<ul>")
	case blockOrdered:
		r.buf.WriteString("<ol>")
	case blockQuote:
		r.buf.WriteString("<blockquote>")
	case blockTable:
		r.buf.WriteString("<table>")
	}
	r.open = kind
}

func (r *renderer) closeBlock() {
	switch r.open {
	case blockPara:
		r.buf.WriteString("</p>")
	case blockList:
		r.buf.WriteString("</ul>")
	case blockOrdered:
		r.buf.WriteString("</ol>")
	case blockQuote:
		r.buf.WriteString("</blockquote>")
	case blockTable:
		if r.tableBody {
			r.buf.WriteString("</tbody>")
		}
		r.buf.WriteString("</table>")
		r.tableBody = false
	}
	r.open = blockNone
}

func (r *renderer) item(text string) {
	r.buf.WriteString("<li>")
	r.buf.WriteString(r.inline(strings.TrimSpace(text)))
	r.buf.WriteString("</li>")
}

func (r *renderer) tableRow(line string) {
	if r.open != blockTable {
		r.ensure(blockTable)
		r.buf.WriteString("<thead><tr>")
		for _, cell := range tableCells(line) {
			r.buf.WriteString("<th>" + r.inline(cell) + "</th>")
		}
		r.buf.WriteString("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.buf.WriteString("<tbody>")
		r.tableBody = true
	}
	if isTableSeparator(line) {
		return
	}
	r.buf.WriteString("<tr>")
	for _, cell := range tableCells(line) {
		r.buf.WriteString("<td>" + r.inline(cell) + "</td>")
	}
	r.buf.WriteString("</tr>")
}

func (r *renderer) inline(s string) string {
	return FormatInline(s, &r.images)
}

func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	return strings.Count(line, string(c)) == len(line)
}

func tableCells(line string) []string {
	line = strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTableSeparator(line string) bool {
	for _, cell := range tableCells(line) {
		if strings.Trim(cell, "-:") != "" {
			return false
		}
	}
	return true
}

// Anchor converts heading text to an id attribute value.
func Anchor(text string) string {
	s := reAnchorChars.ReplaceAllString(PlainText(text), "-")
	return strings.Trim(s, "-")
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline escapes s and applies inline formatting: code spans,
// images, links, bold, italic and strikethrough. images counts rendered
// images so only the first one is fetched eagerly.
func FormatInline(s string, images *int) string {
	escaped := html.EscapeString(s)

	// Code spans are swapped for placeholders so nothing below formats
	// their contents.
	var spans []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		inner := reInlineCode.FindStringSubmatch(m)[1]
		spans = append(spans, "<code>"+inner+"</code>")
		return "\x00C" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	escaped = reImage.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reImage.FindStringSubmatch(m)
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}
		*images++
		loading := `loading="lazy"`
		if *images == 1 {
			loading = `fetchpriority="high"`
		}
		return `<img ` + loading + ` alt="` + match[1] + `" src="` + src + `" decoding="async"/>`
	})
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if isExternal(href) {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})

	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldAlt.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicAlt.ReplaceAllString(seg, "<em>$1</em>")
		seg = reStrike.ReplaceAllString(seg, "<del>$1</del>")
		return seg
	})

	for i, span := range spans {
		escaped = strings.Replace(escaped, "\x00C"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return escaped
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Relative paths and fragments pass; absolute URLs must use http, https,
// mailto or tel.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") || strings.HasPrefix(val, "./") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
