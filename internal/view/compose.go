package view

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/wunjo/internal/models"
)

var markdownLinkRe = regexp.MustCompile(`^\[.*\]\(.*\)$`)

// Style controls how composed cells are laid out for a particular sink.
type Style struct {
	// LineBreak separates blocks inside a cell.
	LineBreak string
	// TagSuffix renders a document's tags after a decorated value.
	TagSuffix func(tags []string) string
}

// MarkdownStyle lays cells out for a Markdown table rendered as HTML.
var MarkdownStyle = Style{
	LineBreak: "<br>",
	TagSuffix: func(tags []string) string {
		return `<span style="font-size: 0.8em; opacity: 0.7;">` + strings.Join(tags, " ") + `</span>`
	},
}

// TagLookup returns the tags of the document with the given identity.
type TagLookup func(id string) []string

// Composer builds the "Links & Metadata" cell of a row.
type Composer struct {
	Style Style
	Tags  TagLookup
}

// Decorate appends the tags of the document v points at. Values that are
// already Markdown links are returned untouched.
func (c *Composer) Decorate(v models.LinkRef) string {
	s := v.String()
	if markdownLinkRe.MatchString(s) || c.Tags == nil {
		return s
	}
	tags := c.Tags(Normalize(v))
	if len(tags) == 0 || c.Style.TagSuffix == nil {
		return s
	}
	return s + " " + c.Style.TagSuffix(tags)
}

// DecorateValues decorates each value and joins them with ", ".
func (c *Composer) DecorateValues(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = c.Decorate(models.RawLink(v))
	}
	return strings.Join(out, ", ")
}

// Compose renders links first, one per line, then a "**Key**: values" block
// per metadata field sorted by key.
func (c *Composer) Compose(links []models.Link, md Metadata) string {
	var sections []string
	if len(links) > 0 {
		decorated := make([]string, len(links))
		for i, l := range links {
			decorated[i] = c.Decorate(l)
		}
		sections = append(sections, strings.Join(decorated, c.Style.LineBreak))
	}

	keys := make([]string, 0, len(md))
	for k, vs := range md {
		if len(vs) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		sections = append(sections, "**"+Capitalize(k)+"**: "+c.DecorateValues(md[k]))
	}
	return strings.Join(sections, c.Style.LineBreak)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
