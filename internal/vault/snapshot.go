// Package vault holds an in-memory, parsed snapshot of a Markdown vault.
package vault

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/parser"
	"github.com/starford/wunjo/internal/query"
	"github.com/starford/wunjo/internal/storage"
	"github.com/starford/wunjo/internal/view"
)

const loadWorkers = 8

// Snapshot is an immutable set of parsed documents. It implements view.Source.
type Snapshot struct {
	docs   []*models.Document
	byPath map[string]*models.Document
	byName map[string]*models.Document
}

var _ view.Source = (*Snapshot)(nil)

// New builds a Snapshot from already parsed documents.
func New(docs ...*models.Document) *Snapshot {
	s := &Snapshot{
		docs:   append([]*models.Document(nil), docs...),
		byPath: make(map[string]*models.Document, len(docs)),
		byName: make(map[string]*models.Document, len(docs)),
	}
	sort.SliceStable(s.docs, func(i, j int) bool { return s.docs[i].Path < s.docs[j].Path })
	for _, d := range s.docs {
		if id := view.NormalizeString(d.Path); id != "" {
			s.byPath[id] = d
		}
		// The first document by path wins a shared name.
		if id := view.NormalizeString(d.Name); id != "" {
			if _, taken := s.byName[id]; !taken {
				s.byName[id] = d
			}
		}
	}
	return s
}

// Load reads and parses every document of store. Files that cannot be read
// or parsed are logged and skipped.
func Load(ctx context.Context, store storage.Provider, logger *slog.Logger) (*Snapshot, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("vault: list: %w", err)
	}

	docs := make([]*models.Document, len(metas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)
	for i, m := range metas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := store.Read(m.Path)
			if err != nil {
				logger.Warn("vault: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
				return nil
			}
			doc, err := parser.ParseDocument(m.Path, data, m.UpdatedAt)
			if err != nil {
				logger.Warn("vault: parse failed", slog.String("path", m.Path), slog.String("error", err.Error()))
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("vault: load: %w", err)
	}

	parsed := docs[:0]
	for _, d := range docs {
		if d != nil {
			parsed = append(parsed, d)
		}
	}
	logger.Debug("vault: loaded", slog.Int("documents", len(parsed)))
	return New(parsed...), nil
}

// Len returns the number of documents in the snapshot.
func (s *Snapshot) Len() int { return len(s.docs) }

// Documents returns the documents admitted by f, ordered by path.
func (s *Snapshot) Documents(_ context.Context, f query.Filter) ([]*models.Document, error) {
	out := make([]*models.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if f.Match(d.Path) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Lookup resolves a normalized identity, preferring a path match over a
// name match.
func (s *Snapshot) Lookup(_ context.Context, id string) (*models.Document, error) {
	if d, ok := s.byPath[id]; ok {
		return d, nil
	}
	if d, ok := s.byName[id]; ok {
		return d, nil
	}
	return nil, apperr.ErrNotFound
}
