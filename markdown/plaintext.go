package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reFencedCode = regexp.MustCompile("(?s)```.*?```")
	reCodeSpan   = regexp.MustCompile("`[^`]*`")
	reLinkText   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reEmphasis   = regexp.MustCompile(`\*\*?([^*]+)\*\*?`)
	reHTMLTag    = regexp.MustCompile(`<[^>]+>`)
)

// PlainTextStages is the ordered rewrite pipeline used by PlainText.
// Later stages assume the earlier ones have already run: inline code is
// only unambiguous once fenced blocks are gone, and emphasis stripping
// must not see the asterisks inside code.
var PlainTextStages = []func(string) string{
	StripCodeBlocks,
	StripInlineCode,
	UnwrapLinks,
	StripHeadingMarkers,
	StripEmphasis,
	StripHTMLTags,
	CollapseWhitespace,
	strings.TrimSpace,
	Lowercase,
}

// PlainText reduces a markdown/MDX body to a single lowercase line of
// markup-free text suitable for substring search. The result is not meant
// to be rendered.
func PlainText(md string) string {
	for _, stage := range PlainTextStages {
		md = stage(md)
	}
	return md
}

// StripCodeBlocks removes ``` fenced regions together with their content.
func StripCodeBlocks(s string) string {
	return reFencedCode.ReplaceAllString(s, "")
}

// StripInlineCode removes `code` spans together with their content.
func StripInlineCode(s string) string {
	return reCodeSpan.ReplaceAllString(s, "")
}

// UnwrapLinks replaces [text](target) with text.
func UnwrapLinks(s string) string {
	return reLinkText.ReplaceAllString(s, "$1")
}

// StripHeadingMarkers drops 1-6 leading '#' and the following whitespace
// on every line, keeping the heading text.
func StripHeadingMarkers(s string) string {
	return reHeading.ReplaceAllString(s, "")
}

// StripEmphasis removes *italic* and **bold** markers.
func StripEmphasis(s string) string {
	return reEmphasis.ReplaceAllString(s, "$1")
}

// StripHTMLTags removes <...> tags. Text between tags is kept.
func StripHTMLTags(s string) string {
	return reHTMLTag.ReplaceAllString(s, "")
}

// CollapseWhitespace turns every run of whitespace, newlines included,
// into a single space.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Lowercase folds s to lower case using Unicode rules (final sigma included).
func Lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
