package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/query"
	"github.com/starford/wunjo/internal/view"
)

const documentColumns = `path, name, title, tags, frontmatter, mtime, ctime`

// UpsertDocument inserts or replaces a document and its list items within a
// transaction.
func (db *DB) UpsertDocument(doc *models.Document, checksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO documents (path, name, ident, name_ident, title, checksum, tags, frontmatter, mtime, ctime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name        = excluded.name,
			ident       = excluded.ident,
			name_ident  = excluded.name_ident,
			title       = excluded.title,
			checksum    = excluded.checksum,
			tags        = excluded.tags,
			frontmatter = excluded.frontmatter,
			mtime       = excluded.mtime,
			ctime       = excluded.ctime
	`, doc.Path, doc.Name, view.NormalizeString(doc.Path), view.NormalizeString(doc.Name), doc.Title, checksum,
		marshalJSON(nonNil(doc.Tags), "[]"), marshalJSON(doc.Frontmatter, "{}"),
		unixNano(doc.ModTime), unixNano(doc.CreatedTime))
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	// Replace list items: delete old then bulk insert.
	if _, err := tx.Exec(`DELETE FROM list_items WHERE path = ?`, doc.Path); err != nil {
		return fmt.Errorf("index: clear list items: %w", err)
	}
	if len(doc.Lists) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO list_items (path, ord, line, section, text, task, checked, tags, outlinks, fields)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare list item insert: %w", err)
		}
		defer stmt.Close()
		for i, item := range doc.Lists {
			fields, err := encodeFields(item.Fields)
			if err != nil {
				return err
			}
			_, err = stmt.Exec(doc.Path, i, item.Line, item.Section, item.Text, item.Task, item.Checked,
				marshalJSON(nonNil(item.Tags), "[]"), marshalJSON(nonNil(item.Outlinks), "[]"), fields)
			if err != nil {
				return fmt.Errorf("index: insert list item: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteDocument removes a document; its list items go with it.
func (db *DB) DeleteDocument(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete document: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a document, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns a map of path to checksum for every indexed document.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed documents.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// Documents returns the documents admitted by f with their list items,
// ordered by path.
func (db *DB) Documents(ctx context.Context, f query.Filter) ([]*models.Document, error) {
	where, args := filterClause(f)

	rows, err := db.conn.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents`+where+` ORDER BY path`, args...)
	if err != nil {
		return nil, fmt.Errorf("index: list documents: %w", err)
	}
	var docs []*models.Document
	byPath := make(map[string]*models.Document)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		docs = append(docs, doc)
		byPath[doc.Path] = doc
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("index: list documents: %w", err)
	}
	rows.Close()

	if err := db.attachItems(ctx, byPath, `SELECT `+itemColumns+` FROM list_items`+where+` ORDER BY path, ord`, args...); err != nil {
		return nil, err
	}
	return docs, nil
}

// Lookup resolves a normalized identity against document paths first and
// names second.
func (db *DB) Lookup(ctx context.Context, id string) (*models.Document, error) {
	if id == "" {
		return nil, apperr.ErrNotFound
	}
	for _, col := range []string{"ident", "name_ident"} {
		row := db.conn.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE `+col+` = ? ORDER BY path LIMIT 1`, id)
		doc, err := scanDocument(row)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		byPath := map[string]*models.Document{doc.Path: doc}
		if err := db.attachItems(ctx, byPath, `SELECT `+itemColumns+` FROM list_items WHERE path = ? ORDER BY ord`, doc.Path); err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, apperr.ErrNotFound
}

const itemColumns = `path, line, section, text, task, checked, tags, outlinks, fields`

func (db *DB) attachItems(ctx context.Context, byPath map[string]*models.Document, q string, args ...any) error {
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("index: list items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			item                   models.ListItem
			tags, outlinks, fields string
		)
		if err := rows.Scan(&item.Path, &item.Line, &item.Section, &item.Text, &item.Task, &item.Checked, &tags, &outlinks, &fields); err != nil {
			return fmt.Errorf("index: scan list item: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
			return fmt.Errorf("index: decode item tags: %w", err)
		}
		if err := json.Unmarshal([]byte(outlinks), &item.Outlinks); err != nil {
			return fmt.Errorf("index: decode outlinks: %w", err)
		}
		if item.Fields, err = decodeFields(fields); err != nil {
			return err
		}
		if doc, ok := byPath[item.Path]; ok {
			doc.Lists = append(doc.Lists, item)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*models.Document, error) {
	var (
		doc          models.Document
		tags, fm     string
		mtime, ctime int64
	)
	if err := s.Scan(&doc.Path, &doc.Name, &doc.Title, &tags, &fm, &mtime, &ctime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("index: scan document: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
		return nil, fmt.Errorf("index: decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(fm), &doc.Frontmatter); err != nil {
		return nil, fmt.Errorf("index: decode frontmatter: %w", err)
	}
	doc.ModTime = fromUnixNano(mtime)
	doc.CreatedTime = fromUnixNano(ctime)
	return &doc, nil
}

// filterClause translates f into a WHERE clause over a path column.
func filterClause(f query.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	for _, folder := range f.Folders() {
		conds = append(conds, `path <> ? AND path NOT LIKE ? ESCAPE '\'`)
		args = append(args, folder, likeEscape(folder)+"/%")
	}
	if f.ExcludePath != "" {
		conds = append(conds, `path <> ?`)
		args = append(args, f.ExcludePath)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
