package parser

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/starford/wunjo/internal/models"
)

var (
	tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

	// (!?)[[target#sub|alias]]
	wikilinkRe     = regexp.MustCompile(`(!?)\[\[([^\[\]]+)\]\]`)
	markdownLinkRe = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()\s]+)\)`)

	// [key:: value], where value may hold [[links]] or [text](url).
	bracketFieldRe = regexp.MustCompile(`\[([\w-]+)::\s*((?:\[\[[^\]]*\]\]|\[[^\]]*\]\([^)]*\)|[^\]])*)\]`)

	// (key:: value)
	parenFieldRe = regexp.MustCompile(`\(([\w-]+)::\s*((?:\[\[[^\]]*\]\]|[^)])*)\)`)

	// key:: value on a line of its own.
	lineFieldRe = regexp.MustCompile(`^([\w-]+)::\s*(.*)$`)

	linkListRe = regexp.MustCompile(`^\[\[[^\[\]]+\]\](?:\s*,\s*\[\[[^\[\]]+\]\])*$`)
)

func findTags(s string) []string {
	matches := tagRe.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, "#"+m[1])
	}
	return out
}

// findLinks returns the wikilinks, embeds, and local Markdown links of s in
// order of appearance.
func findLinks(s string) []models.Link {
	type hit struct {
		start int
		link  models.Link
	}
	var hits []hit

	for _, m := range wikilinkRe.FindAllStringSubmatchIndex(s, -1) {
		l := models.ParseWikilink(s[m[4]:m[5]])
		if l.Path == "" {
			continue
		}
		l.Embed = m[3] > m[2]
		hits = append(hits, hit{start: m[0], link: l})
	}
	for _, m := range markdownLinkRe.FindAllStringSubmatchIndex(s, -1) {
		// Skip the inner brackets of [[wikilinks]].
		if m[0] > 0 && s[m[0]-1] == '[' {
			continue
		}
		l, ok := localLink(s[m[4]:m[5]], s[m[2]:m[3]])
		if !ok {
			continue
		}
		hits = append(hits, hit{start: m[0], link: l})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].start < hits[j].start })
	out := make([]models.Link, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.link)
	}
	return out
}

// localLink turns the target of a Markdown link into a Link when it points
// into the vault rather than at a URL.
func localLink(target, text string) (models.Link, bool) {
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") || strings.HasPrefix(target, "#") {
		return models.Link{}, false
	}
	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}
	var l models.Link
	if i := strings.Index(target, "#"); i >= 0 {
		l.Subpath = target[i+1:]
		target = target[:i]
	}
	l.Path = strings.TrimPrefix(target, "./")
	l.Display = strings.TrimSpace(text)
	if l.Path == "" {
		return models.Link{}, false
	}
	return l, true
}

// findFields returns the inline fields of one line of list item text.
func findFields(line string) map[string]any {
	fields := make(map[string]any)
	if m := lineFieldRe.FindStringSubmatch(line); m != nil {
		addField(fields, m[1], m[2])
		return fields
	}
	for _, re := range []*regexp.Regexp{bracketFieldRe, parenFieldRe} {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			addField(fields, m[1], m[2])
		}
	}
	return fields
}

func addField(fields map[string]any, key, raw string) {
	mergeField(fields, key, parseFieldValue(raw))
}

// mergeField sets key to v, turning repeated keys into a list.
func mergeField(fields map[string]any, key string, v any) {
	existing, ok := fields[key]
	if !ok {
		fields[key] = v
		return
	}
	var list []any
	if prev, isList := existing.([]any); isList {
		list = prev
	} else {
		list = []any{existing}
	}
	if more, isList := v.([]any); isList {
		list = append(list, more...)
	} else {
		list = append(list, v)
	}
	fields[key] = list
}

// parseFieldValue turns a raw field value into a Link, a list of Links, or
// a trimmed string.
func parseFieldValue(raw string) any {
	raw = strings.TrimSpace(raw)
	if !linkListRe.MatchString(raw) {
		return raw
	}
	matches := wikilinkRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 1 {
		return models.ParseWikilink(matches[0][2])
	}
	out := make([]any, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.ParseWikilink(m[2]))
	}
	return out
}
