package parser

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/starford/wunjo/internal/models"
)

var taskRe = regexp.MustCompile(`^\[([ xX])\]\s*`)

// extractListItems walks body with goldmark and returns every list item in
// document order. Nested items are returned as items of their own; a
// parent's text holds only its own lines.
func extractListItems(relPath, body string, lineOffset int) []models.ListItem {
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	lineStarts := computeLineStarts(body)

	var items []models.ListItem
	section := ""

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			section = blockText(node, src)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			lines, start := itemLines(node, src)
			if len(lines) == 0 {
				return ast.WalkContinue, nil
			}
			item := newListItem(relPath, lines)
			item.Section = section
			item.Line = lineOffset + offsetToLine(lineStarts, start) + 1
			items = append(items, item)
		}
		return ast.WalkContinue, nil
	})

	return items
}

// itemLines returns the item's own text lines and the byte offset of the first.
func itemLines(li *ast.ListItem, src []byte) ([]string, int) {
	var lines []string
	start := -1
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() != ast.KindParagraph && c.Kind() != ast.KindTextBlock {
			continue
		}
		segs := c.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			if start < 0 {
				start = seg.Start
			}
			lines = append(lines, strings.TrimSpace(string(seg.Value(src))))
		}
	}
	return lines, start
}

func newListItem(relPath string, lines []string) models.ListItem {
	item := models.ListItem{Path: relPath}

	if m := taskRe.FindStringSubmatch(lines[0]); m != nil {
		item.Task = true
		item.Checked = m[1] != " "
		lines[0] = lines[0][len(m[0]):]
	}
	item.Text = strings.Join(lines, "\n")

	seenLinks := make(map[models.Link]struct{})
	seenTags := make(map[string]struct{})
	for _, line := range lines {
		for _, l := range findLinks(line) {
			if _, dup := seenLinks[l]; dup {
				continue
			}
			seenLinks[l] = struct{}{}
			item.Outlinks = append(item.Outlinks, l)
		}
		for _, t := range findTags(line) {
			if _, dup := seenTags[t]; dup {
				continue
			}
			seenTags[t] = struct{}{}
			item.Tags = append(item.Tags, t)
		}
		for k, v := range findFields(line) {
			if item.Fields == nil {
				item.Fields = make(map[string]any)
			}
			mergeField(item.Fields, k, v)
		}
	}
	return item
}

func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimSpace(b.String())
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
