package view

import (
	"context"

	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/query"
)

// Source supplies the documents of a vault.
type Source interface {
	// Documents returns every document that survives f.
	Documents(ctx context.Context, f query.Filter) ([]*models.Document, error)
	// Lookup returns the document whose path (without extension) or name
	// normalizes to id, or apperr.ErrNotFound.
	Lookup(ctx context.Context, id string) (*models.Document, error)
}
