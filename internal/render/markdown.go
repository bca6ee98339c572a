package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/starford/wunjo/internal/view"
)

// PrettyStyle keeps cells on one line so glamour can lay the table out.
var PrettyStyle = view.Style{
	LineBreak: " · ",
	TagSuffix: func(tags []string) string {
		return "_" + strings.Join(tags, " ") + "_"
	},
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", "<br>")

// Markdown renders res as a pipe table, or its notice as a paragraph.
func Markdown(res *view.Result) string {
	if len(res.Rows) == 0 {
		return res.Notice + "\n"
	}
	var b strings.Builder
	writeRow(&b, res.Header)
	sep := make([]string, len(res.Header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, r := range res.Rows {
		writeRow(&b, r.Cells)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		fmt.Fprintf(b, " %s |", cellEscaper.Replace(c))
	}
	b.WriteString("\n")
}

// Pretty renders the Markdown table for a terminal through glamour.
func Pretty(res *view.Result, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("render: glamour: %w", err)
	}
	out, err := r.Render(Markdown(res))
	if err != nil {
		return "", fmt.Errorf("render: glamour: %w", err)
	}
	// glamour adds trailing newlines; normalize to a single trailing newline.
	return strings.TrimRight(out, "\n") + "\n", nil
}
