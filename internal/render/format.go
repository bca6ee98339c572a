// Package render turns a view.Result into output for a particular sink.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"github.com/starford/wunjo/internal/view"
)

// DefaultWidth is used when the terminal width cannot be detected.
const DefaultWidth = 120

// Format names an output sink.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatPretty   Format = "pretty"
	FormatJSON     Format = "json"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatAuto, FormatMarkdown, FormatText, FormatPretty, FormatJSON}

// ParseFormat validates s. The empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("render: unknown format %q", s)
}

// Resolve replaces FormatAuto with text for a terminal and markdown
// otherwise.
func Resolve(f Format, out *os.File) Format {
	if f != FormatAuto {
		return f
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return FormatText
	}
	return FormatMarkdown
}

// Width returns the terminal width of out, or DefaultWidth.
func Width(out *os.File) int {
	if out == nil || !term.IsTerminal(out.Fd()) {
		return DefaultWidth
	}
	if w, _, err := term.GetSize(out.Fd()); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// StyleFor returns the cell style a rendering pass should use for f.
func StyleFor(f Format) view.Style {
	switch f {
	case FormatText:
		return TerminalStyle
	case FormatPretty:
		return PrettyStyle
	default:
		return view.MarkdownStyle
	}
}

// Write renders res in format f to w. f must already be resolved.
func Write(w io.Writer, f Format, res *view.Result, width int) error {
	var out string
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatText:
		out = Text(res, width)
	case FormatPretty:
		s, err := Pretty(res, width)
		if err != nil {
			return err
		}
		out = s
	default:
		out = Markdown(res)
	}
	_, err := io.WriteString(w, out)
	return err
}
