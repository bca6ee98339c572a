// Package storage defines the read-only vault file-system abstraction.
package storage

import "github.com/starford/wunjo/internal/models"

// Provider is the interface for vault file access. Returned paths are
// slash-separated and relative to the vault root.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
}
