// Package query builds the document filter used to scope a rendering pass.
package query

import (
	"strings"
)

// Filter excludes folders, and optionally one document, from a scan.
type Filter struct {
	ExcludeFolders []string
	ExcludePath    string
}

// Folders returns the excluded folders with surrounding slashes and
// blanks removed.
func (f Filter) Folders() []string {
	out := make([]string, 0, len(f.ExcludeFolders))
	for _, folder := range f.ExcludeFolders {
		folder = strings.Trim(strings.TrimSpace(folder), "/")
		if folder != "" {
			out = append(out, folder)
		}
	}
	return out
}

// Match reports whether path survives the filter.
func (f Filter) Match(path string) bool {
	if f.ExcludePath != "" && path == f.ExcludePath {
		return false
	}
	for _, folder := range f.Folders() {
		if path == folder || strings.HasPrefix(path, folder+"/") {
			return false
		}
	}
	return true
}

// String renders the filter as an AND-combination of negated, quoted terms,
// e.g. -"_scripts" AND -"notes/today.md". It is empty when nothing is excluded.
func (f Filter) String() string {
	var terms []string
	for _, folder := range f.Folders() {
		terms = append(terms, "-"+quote(folder))
	}
	if f.ExcludePath != "" {
		terms = append(terms, "-"+quote(f.ExcludePath))
	}
	return strings.Join(terms, " AND ")
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
