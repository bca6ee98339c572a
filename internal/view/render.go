package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
)

// Status tells a sink what kind of result it received.
type Status string

const (
	StatusOK       Status = "ok"
	StatusEmpty    Status = "empty"
	StatusNotReady Status = "not_ready"
)

// Fixed column headers.
const (
	HeaderContent = "Content"
	HeaderRelated = "Links & Metadata"
	HeaderWhere   = "Where"
)

// NotReadyNotice is shown when the pass has no document context to work with.
const NotReadyNotice = "⚠️ Current file context not ready."

// Row is one visible list item.
type Row struct {
	Cells []string `json:"cells"`

	// SortKey orders rows, newest first. Zero means unknown.
	SortKey time.Time `json:"-"`
}

// Result is the output of one rendering pass. Either Rows is non-empty or
// Notice explains why there is no table.
type Result struct {
	Status  Status   `json:"status"`
	Subject string   `json:"subject,omitempty"`
	Filter  string   `json:"filter,omitempty"`
	Header  []string `json:"header,omitempty"`
	Rows    []Row    `json:"rows,omitempty"`
	Notice  string   `json:"notice,omitempty"`
}

// Renderer runs rendering passes against a Source.
type Renderer struct {
	src    Source
	logger *slog.Logger
}

// NewRenderer creates a Renderer. logger receives trace events for passes
// with Debug set and errors from the source.
func NewRenderer(src Source, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{src: src, logger: logger}
}

// Render runs one pass. It never fails: problems with the source turn into
// a StatusNotReady result carrying a notice.
func (r *Renderer) Render(ctx context.Context, cfg Config, style Style) *Result {
	trace := slog.New(slog.DiscardHandler)
	if cfg.Debug {
		trace = r.logger
	}

	var current *models.Document
	if cfg.Current != "" {
		doc, err := r.src.Lookup(ctx, NormalizeString(cfg.Current))
		switch {
		case err == nil:
			current = doc
		case !errors.Is(err, apperr.ErrNotFound):
			r.logger.Error("render: current lookup failed", slog.String("current", cfg.Current), slog.String("error", err.Error()))
			return notReady()
		case cfg.Subject == "":
			trace.Debug("render: current not found", slog.String("current", cfg.Current))
			return notReady()
		default:
			// An explicit subject does not need the current document; only
			// ExcludeCurrent does, and there is nothing to exclude.
			trace.Debug("render: current not found, using subject", slog.String("current", cfg.Current))
		}
	}

	rawSubject := cfg.Subject
	if rawSubject == "" {
		if current == nil {
			trace.Debug("render: no subject and no current document")
			return notReady()
		}
		rawSubject = current.Name
	}
	subject := ParseSubject(rawSubject)

	currentPath := ""
	if current != nil {
		currentPath = current.Path
	}
	filter := cfg.Filter(currentPath)

	trace.Debug("render: start",
		slog.String("subject", subject.Raw),
		slog.String("subject_id", subject.ID),
		slog.String("filter", filter.String()))

	docs, err := r.src.Documents(ctx, filter)
	if err != nil {
		r.logger.Error("render: list documents failed", slog.String("error", err.Error()))
		return notReady()
	}

	composer := &Composer{Style: style, Tags: r.tagLookup(ctx)}

	var rows []Row
	for _, doc := range docs {
		for _, item := range doc.Lists {
			md := ExtractMetadata(item, cfg.HideKeys)
			visible := Visible(item, subject)
			trace.Debug("render: visibility",
				slog.String("path", item.Path),
				slog.Int("line", item.Line),
				slog.Bool("visible", visible))
			if !visible {
				continue
			}

			content := Clean(item.Text)
			trace.Debug("render: cleaned",
				slog.String("path", item.Path),
				slog.Int("line", item.Line),
				slog.String("content", content))

			links := FilteredLinks(item, md, subject)

			cells := make([]string, 0, len(cfg.Columns)+3)
			cells = append(cells, content)
			for _, col := range cfg.Columns {
				cells = append(cells, composer.DecorateValues(promote(md, col)))
			}
			cells = append(cells, composer.Compose(links, md), item.Link().String())

			trace.Debug("render: row",
				slog.String("path", item.Path),
				slog.Int("line", item.Line),
				slog.Int("links", len(links)),
				slog.Int("fields", len(md)))

			rows = append(rows, Row{Cells: cells, SortKey: doc.Freshness()})
		}
	}

	SortRows(rows)

	res := &Result{
		Subject: subject.Raw,
		Filter:  filter.String(),
		Header:  Header(cfg.Columns),
		Rows:    rows,
		Status:  StatusOK,
	}
	if len(rows) == 0 {
		res.Status = StatusEmpty
		res.Header = nil
		res.Notice = fmt.Sprintf("⚠️ No matching list items found for %s.", subject)
	}
	trace.Debug("render: done", slog.Int("rows", len(rows)), slog.String("status", string(res.Status)))
	return res
}

// Header returns the column headers for a table with the given promoted columns.
func Header(columns []string) []string {
	h := make([]string, 0, len(columns)+3)
	h = append(h, HeaderContent)
	for _, c := range columns {
		h = append(h, Capitalize(c))
	}
	return append(h, HeaderRelated, HeaderWhere)
}

// SortRows orders rows newest first; rows with an unknown key go last.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].SortKey, rows[j].SortKey
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
}

// promote removes every field matching column (case-insensitively) from md
// and returns its values.
func promote(md Metadata, column string) []string {
	var keys []string
	for k := range md {
		if strings.EqualFold(k, column) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var values []string
	for _, k := range keys {
		values = append(values, md[k]...)
		delete(md, k)
	}
	return values
}

// tagLookup resolves document tags for decoration, once per identity.
func (r *Renderer) tagLookup(ctx context.Context) TagLookup {
	cache := make(map[string][]string)
	return func(id string) []string {
		if id == "" {
			return nil
		}
		if tags, ok := cache[id]; ok {
			return tags
		}
		var tags []string
		doc, err := r.src.Lookup(ctx, id)
		switch {
		case err == nil:
			tags = doc.Tags
		case !errors.Is(err, apperr.ErrNotFound):
			r.logger.Warn("render: tag lookup failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		cache[id] = tags
		return tags
	}
}

func notReady() *Result {
	return &Result{Status: StatusNotReady, Notice: NotReadyNotice}
}
