package view

import (
	"regexp"
	"strings"
)

var (
	fieldLineRe = regexp.MustCompile(`^[\w-]+::`)

	// Applied in order; the later, looser patterns would otherwise cut
	// through tokens the earlier ones consume whole.
	inlineFieldPatterns = []*regexp.Regexp{
		// [key:: [[target]]]
		regexp.MustCompile(`\[[\w-]+::\s*\[\[[^\]]+\]\]\]`),
		// (key:: [[target]])
		regexp.MustCompile(`\([\w-]+::\s*\[\[[^\]]+\]\]\)`),
		// [key:: see [text](url)]
		regexp.MustCompile(`\[[\w-]+::\s*[^\]]*\[[^\]]+\]\([^)]+\)[^\]]*\]`),
		// [key:: value]
		regexp.MustCompile(`\[[\w-]+::[^\]]*\]`),
		// (key::value)
		regexp.MustCompile(`\([\w-]+::\w+\)`),
		// key:: value
		regexp.MustCompile(`\b[\w-]+::\s*[^\s\[]+`),
	}
)

// Clean strips inline metadata tokens and comment lines from list item text
// and joins the surviving lines with single spaces.
//
// This is a sequence of regular expression passes, not a parser: malformed
// or overlapping tokens may be only partly removed.
func Clean(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if fieldLineRe.MatchString(line) || strings.HasPrefix(line, "%%") {
			continue
		}
		for _, re := range inlineFieldPatterns {
			line = removeAll(line, re)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

// removeAll deletes every match of re from s. When a match sits between
// whitespace (or at the start of s) the whitespace after it goes too, so
// "a (k::v) b" becomes "a b" rather than "a  b".
func removeAll(s string, re *regexp.Regexp) string {
	locs := re.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	b := make([]byte, 0, len(s))
	last := 0
	for _, loc := range locs {
		if loc[0] < last {
			continue
		}
		b = append(b, s[last:loc[0]]...)
		end := loc[1]
		if len(b) == 0 || isBlank(b[len(b)-1]) {
			for end < len(s) && isBlank(s[end]) {
				end++
			}
		}
		last = end
	}
	b = append(b, s[last:]...)
	return string(b)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
