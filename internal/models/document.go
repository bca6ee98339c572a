// Package models defines the domain types for wunjo.
package models

import (
	"strings"
	"time"
)

// Document is a parsed Markdown file in the vault.
type Document struct {
	Path        string         `json:"path"`
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Lists       []ListItem     `json:"lists,omitempty"`
	ModTime     time.Time      `json:"mtime"`
	CreatedTime time.Time      `json:"ctime"`
}

// Freshness returns the time used to order rows from this document.
// The zero time means unknown.
func (d *Document) Freshness() time.Time {
	if d == nil {
		return time.Time{}
	}
	if !d.ModTime.IsZero() {
		return d.ModTime
	}
	return d.CreatedTime
}

// ListItem is one bullet or task entry of a document.
type ListItem struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Section  string   `json:"section,omitempty"`
	Text     string   `json:"text"`
	Task     bool     `json:"task,omitempty"`
	Checked  bool     `json:"checked,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Outlinks []Link   `json:"outlinks,omitempty"`

	// Fields holds the item's inline metadata. Values are strings, Links,
	// or []any of those.
	Fields map[string]any `json:"fields,omitempty"`
}

// Link points at the item's location in its document.
func (li ListItem) Link() Link {
	return Link{Path: strings.TrimSuffix(li.Path, ".md"), Subpath: li.Section}
}

// DocumentMetadata is a lightweight representation returned by storage listings.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
