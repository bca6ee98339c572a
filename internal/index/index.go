package index

import (
	"context"

	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/view"
)

// DocumentIndex defines the interface for document indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type DocumentIndex interface {
	view.Source
	UpsertDocument(doc *models.Document, checksum string) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
