package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/wunjo/internal/view"
)

var (
	// Muted style for tags and locations.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for headers and field names.
	Bold = lipgloss.NewStyle().Bold(true)

	// Accent style for linked documents.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
)

// TerminalStyle lays cells out for Text.
var TerminalStyle = view.Style{
	LineBreak: "\n",
	TagSuffix: func(tags []string) string {
		return Muted.Render(strings.Join(tags, " "))
	},
}

var (
	wikilinkRe = regexp.MustCompile(`!?\[\[([^\[\]|#]*)(#[^\[\]|]*)?(?:\|([^\[\]]*))?\]\]`)
	strongRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// Text renders res as a lipgloss table no wider than width.
func Text(res *view.Result, width int) string {
	if len(res.Rows) == 0 {
		return res.Notice + "\n"
	}
	if width <= 0 {
		width = DefaultWidth
	}

	rows := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		cells := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			cells[j] = plainCell(c)
		}
		rows[i] = cells
	}
	last := len(res.Header) - 1

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		Width(width).
		Headers(res.Header...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if col < last {
				style = style.PaddingRight(2)
			}
			switch {
			case row == table.HeaderRow:
				return style.Inherit(Bold)
			case col == last:
				return style.Inherit(Muted)
			}
			return style
		}).
		Rows(rows...)

	return tbl.Render() + "\n"
}

// plainCell converts Markdown cell syntax for the terminal: wikilinks show
// their display text and **key** becomes bold.
func plainCell(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = wikilinkRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := wikilinkRe.FindStringSubmatch(m)
		if sub[3] != "" {
			return Accent.Render(sub[3])
		}
		return Accent.Render(sub[1] + sub[2])
	})
	return strongRe.ReplaceAllStringFunc(s, func(m string) string {
		return Bold.Render(strings.Trim(m, "*"))
	})
}
