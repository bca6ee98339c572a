package models

import "strings"

// LinkRef is either a structured Link or a RawLink. Both denote the same
// document when their normalized identities match.
type LinkRef interface {
	String() string
	linkRef()
}

// Link is a resolved link to a document, optionally to a section of it.
type Link struct {
	Path    string `json:"path"`
	Subpath string `json:"subpath,omitempty"`
	Display string `json:"display,omitempty"`
	Embed   bool   `json:"embed,omitempty"`
}

func (Link) linkRef() {}

// String renders the link in wikilink syntax: [[path#subpath|display]].
func (l Link) String() string {
	var b strings.Builder
	if l.Embed {
		b.WriteByte('!')
	}
	b.WriteString("[[")
	b.WriteString(l.Path)
	if l.Subpath != "" {
		b.WriteByte('#')
		b.WriteString(l.Subpath)
	}
	if l.Display != "" {
		b.WriteByte('|')
		b.WriteString(l.Display)
	}
	b.WriteString("]]")
	return b.String()
}

// ParseWikilink builds a Link from the inside of a [[...]] literal,
// e.g. "Note#Section|Alias".
func ParseWikilink(inner string) Link {
	var l Link
	target := inner
	if i := strings.Index(inner, "|"); i >= 0 {
		target = inner[:i]
		l.Display = strings.TrimSpace(inner[i+1:])
	}
	if i := strings.Index(target, "#"); i >= 0 {
		l.Subpath = strings.TrimSpace(target[i+1:])
		target = target[:i]
	}
	l.Path = strings.TrimSpace(target)
	return l
}

// RawLink is link-like text: plain text or a [[wikilink]] literal.
type RawLink string

func (RawLink) linkRef() {}

func (r RawLink) String() string { return string(r) }
