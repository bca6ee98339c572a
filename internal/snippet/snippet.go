// Package snippet parses note-title snippets such as
// "p;Jane Smith &role=designer" into a trigger, a clean title, and
// &key=value metadata.
package snippet

import (
	"log/slog"
	"regexp"
	"strings"
)

// DefaultTrigger is used when the snippet has no trigger part.
const DefaultTrigger = "default"

var paramRe = regexp.MustCompile(`&([a-zA-Z0-9_-]+)=([^&\s]+)`)

// Snippet is a parsed title snippet.
type Snippet struct {
	Trigger  string            `json:"trigger"`
	Clean    string            `json:"clean"`
	Full     string            `json:"full"`
	RenameTo string            `json:"rename_to"`
	Metadata map[string]string `json:"metadata"`
}

// Parser parses snippets, tracing each step at debug level.
type Parser struct {
	Logger *slog.Logger
}

// Parse parses msg without tracing. See Parser.Parse.
func Parse(msg, prefix string) Snippet {
	return (&Parser{}).Parse(msg, prefix)
}

// Parse collects &key=value pairs (a later key wins), removes them, and
// splits the rest on ';'. The lowercased first part is the trigger; the
// remainder, rejoined with ';', is the title. Full is prefix + title.
func (p *Parser) Parse(msg, prefix string) Snippet {
	log := p.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	input := strings.TrimSpace(msg)
	log.Debug("snippet: input", slog.String("raw", msg), slog.String("trimmed", input))

	metadata := make(map[string]string)
	for _, m := range paramRe.FindAllStringSubmatch(input, -1) {
		metadata[m[1]] = strings.TrimSpace(m[2])
		log.Debug("snippet: param", slog.String("key", m[1]), slog.String("value", m[2]))
	}

	input = strings.TrimSpace(paramRe.ReplaceAllString(input, ""))
	log.Debug("snippet: without params", slog.String("input", input))

	trigger, title, _ := strings.Cut(input, ";")
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	title = strings.TrimSpace(title)
	if trigger == "" {
		trigger = DefaultTrigger
	}

	s := Snippet{
		Trigger:  trigger,
		Clean:    title,
		Full:     prefix + title,
		RenameTo: title,
		Metadata: metadata,
	}
	log.Debug("snippet: parsed", slog.String("trigger", s.Trigger), slog.String("clean", s.Clean), slog.Int("params", len(metadata)))
	return s
}
