package index

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/wunjo/internal/checksum"
	"github.com/starford/wunjo/internal/parser"
	"github.com/starford/wunjo/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	disk := make(map[string]struct{}, len(metas))
	indexed := 0
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		indexed++
		logger.Debug("sync: indexed", slog.String("path", m.Path))
	}

	// Remove stale entries.
	removed := 0
	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteDocument(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		removed++
		logger.Debug("sync: removed stale", slog.String("path", p))
	}

	logger.Info("sync: done",
		slog.Int("documents", len(metas)),
		slog.Int("indexed", indexed),
		slog.Int("removed", removed))
	return nil
}

// indexFile parses data and upserts it into the DB.
func indexFile(db *DB, path string, data []byte, modTime time.Time) error {
	doc, err := parser.ParseDocument(path, data, modTime)
	if err != nil {
		return err
	}
	return db.UpsertDocument(doc, checksum.Sum(data))
}
