// Package parser extracts frontmatter, tags, and list items with their
// inline fields from Markdown content.
package parser

import (
	"bytes"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/wunjo/internal/models"
)

var createdLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"}

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Tags        []string
	Title       string
	Lists       []models.ListItem
}

// Parse extracts frontmatter, body, tags, and list items from raw Markdown
// bytes. relPath is stored on every list item.
func Parse(relPath string, data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	// Line numbers are reported against the whole file.
	lineOffset := bytes.Count(data[:len(data)-len(body)], []byte("\n"))

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Tags:        extractTags(body, fm),
		Title:       deriveTitle(fm, body),
		Lists:       extractListItems(relPath, body, lineOffset),
	}, nil
}

// ParseDocument parses data into a Document. modTime is the file's
// modification time.
func ParseDocument(relPath string, data []byte, modTime time.Time) (*models.Document, error) {
	res, err := Parse(relPath, data)
	if err != nil {
		return nil, err
	}
	return &models.Document{
		Path:        relPath,
		Name:        strings.TrimSuffix(path.Base(relPath), ".md"),
		Title:       res.Title,
		Tags:        res.Tags,
		Frontmatter: res.Frontmatter,
		Lists:       res.Lists,
		ModTime:     modTime,
		CreatedTime: createdTime(res.Frontmatter),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is
// body. The returned body is always a suffix of data.
func splitFrontmatter(data []byte) (map[string]interface{}, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter; treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML falls back to body only.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// extractTags collects tags from the frontmatter "tags" field and inline
// #tags in the body, each with a leading '#'.
func extractTags(body string, fm map[string]interface{}) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" || t == "#" {
			return
		}
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	if fm != nil {
		switch v := fm["tags"].(type) {
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		case string:
			for _, s := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
				add(s)
			}
		}
	}

	for _, t := range findTags(body) {
		add(t)
	}
	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// createdTime reads the frontmatter "created" field. yaml.v3 already decodes
// unquoted timestamps into time.Time.
func createdTime(fm map[string]interface{}) time.Time {
	switch v := fm["created"].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range createdLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
