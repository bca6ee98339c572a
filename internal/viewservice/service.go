// Package viewservice merges view requests over configured defaults and
// runs them against a document source.
package viewservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/wunjo/internal/query"
	"github.com/starford/wunjo/internal/render"
	"github.com/starford/wunjo/internal/view"
)

// Request is one view as asked for by a caller. Nil slices and a nil
// ExcludeCurrent fall back to the configured defaults.
type Request struct {
	Subject        string
	Current        string
	Columns        []string
	ExcludeFolders []string
	HideKeys       []string
	ExcludeCurrent *bool
	Debug          bool
	Format         render.Format
}

// DocumentSummary is a lightweight item in a document listing.
type DocumentSummary struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Tags      []string  `json:"tags"`
	ListItems int       `json:"list_items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service runs views against a Source.
type Service struct {
	src      view.Source
	defaults view.Config
	renderer *view.Renderer
}

// New creates a Service. defaults supplies Columns, ExcludeFolders and
// HideKeys for requests that leave them unset; its HideKeys are always
// hidden.
func New(src view.Source, defaults view.Config, logger *slog.Logger) *Service {
	return &Service{src: src, defaults: defaults, renderer: view.NewRenderer(src, logger)}
}

// Config merges req over the defaults.
func (s *Service) Config(req Request) view.Config {
	cfg := view.Config{
		Subject:        strings.TrimSpace(req.Subject),
		Current:        strings.TrimSpace(req.Current),
		Columns:        s.defaults.Columns,
		ExcludeFolders: s.defaults.ExcludeFolders,
		ExcludeCurrent: s.defaults.ExcludeCurrent,
		HideKeys:       append(append([]string(nil), s.defaults.HideKeys...), req.HideKeys...),
		Debug:          req.Debug || s.defaults.Debug,
	}
	if req.Columns != nil {
		cfg.Columns = req.Columns
	}
	if req.ExcludeFolders != nil {
		cfg.ExcludeFolders = req.ExcludeFolders
	}
	if req.ExcludeCurrent != nil {
		cfg.ExcludeCurrent = *req.ExcludeCurrent
	}
	return cfg
}

// Render runs one pass for req, styled for req.Format.
func (s *Service) Render(ctx context.Context, req Request) *view.Result {
	return s.renderer.Render(ctx, s.Config(req), render.StyleFor(req.Format))
}

// ListDocuments returns the documents under folder ("" for all), ordered by
// path.
func (s *Service) ListDocuments(ctx context.Context, folder string) ([]DocumentSummary, error) {
	docs, err := s.src.Documents(ctx, query.Filter{})
	if err != nil {
		return nil, fmt.Errorf("viewservice: list documents: %w", err)
	}
	folder = strings.Trim(strings.TrimSpace(folder), "/")

	out := make([]DocumentSummary, 0, len(docs))
	for _, d := range docs {
		if folder != "" && !strings.HasPrefix(d.Path, folder+"/") {
			continue
		}
		tags := d.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, DocumentSummary{
			Path:      d.Path,
			Name:      d.Name,
			Title:     d.Title,
			Tags:      tags,
			ListItems: len(d.Lists),
			UpdatedAt: d.ModTime,
		})
	}
	return out, nil
}
