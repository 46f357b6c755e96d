package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// frontmatter is the typed metadata block of a post source.
type frontmatter struct {
	Title    string     `yaml:"title"`
	Date     string     `yaml:"date"`
	Author   string     `yaml:"author"`
	Tags     stringList `yaml:"tags"`
	Excerpt  string     `yaml:"excerpt"`
	ReadTime string     `yaml:"readTime"`
}

// stringList accepts either a YAML sequence or a comma-separated scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		var out []string
		for _, part := range strings.Split(value.Value, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := value.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a list or a string", value.Line)
	}
}

// splitFrontmatter separates the leading ---fenced metadata block from the
// body. ok is false when the source has no opening fence; an opening fence
// without a closing one is an error.
func splitFrontmatter(src []byte) (meta, body []byte, ok bool, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !bytes.Equal(bytes.TrimRight(first, " \t"), fence) {
		return nil, src, false, nil
	}
	if !found {
		return nil, nil, true, fmt.Errorf("unterminated frontmatter block")
	}
	for offset := 0; offset <= len(rest); {
		line, next, more := bytes.Cut(rest[offset:], []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, " \t"), fence) {
			meta = rest[:offset]
			if more {
				body = next
			}
			return meta, body, true, nil
		}
		if !more {
			break
		}
		offset += len(line) + 1
	}
	return nil, nil, true, fmt.Errorf("unterminated frontmatter block")
}

func decodeFrontmatter(meta []byte, out any) error {
	if len(bytes.TrimSpace(meta)) == 0 {
		return nil
	}
	return yaml.Unmarshal(meta, out)
}

// dateLayouts are the ISO 8601 forms accepted for the date field.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 date", s)
}
