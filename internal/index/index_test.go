package index

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/query"
	"github.com/starford/wunjo/internal/storage"
	"github.com/starford/wunjo/internal/view"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "wunjo-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleDoc() *models.Document {
	return &models.Document{
		Path:        "people/Bob.md",
		Name:        "Bob",
		Title:       "Bob",
		Tags:        []string{"#person"},
		Frontmatter: map[string]any{"role": "dev"},
		ModTime:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Lists: []models.ListItem{
			{
				Path:     "people/Bob.md",
				Line:     3,
				Section:  "Notes",
				Text:     "met [[Alice]] (with:: [[Carol]]) [status:: open]",
				Task:     true,
				Tags:     []string{"#work"},
				Outlinks: []models.Link{{Path: "Alice"}, {Path: "Carol"}},
				Fields: map[string]any{
					"with":   models.Link{Path: "Carol"},
					"status": "open",
					"people": []any{models.Link{Path: "Dan"}, "Eve"},
				},
			},
			{Path: "people/Bob.md", Line: 4, Text: "second"},
		},
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM list_items`).Scan(&count); err != nil {
		t.Fatalf("list_items table missing: %v", err)
	}
}

func TestUpsertAndLookup_RoundTrip(t *testing.T) {
	db := testDB(t)
	want := sampleDoc()
	if err := db.UpsertDocument(want, "abc123"); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	cs, err := db.GetChecksum("people/Bob.md")
	if err != nil || cs != "abc123" {
		t.Errorf("checksum = %q, %v", cs, err)
	}

	ctx := context.Background()
	for _, id := range []string{"people/bob", "bob"} {
		got, err := db.Lookup(ctx, id)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", id, err)
		}
		if got.Path != want.Path || got.Name != "Bob" || !got.ModTime.Equal(want.ModTime) {
			t.Errorf("Lookup(%q) = %+v", id, got)
		}
		if !reflect.DeepEqual(got.Tags, want.Tags) {
			t.Errorf("tags = %v", got.Tags)
		}
		if len(got.Lists) != 2 {
			t.Fatalf("lists = %d, want 2", len(got.Lists))
		}
		item := got.Lists[0]
		if !reflect.DeepEqual(item.Fields, want.Lists[0].Fields) {
			t.Errorf("fields = %#v", item.Fields)
		}
		if !reflect.DeepEqual(item.Outlinks, want.Lists[0].Outlinks) || !item.Task || item.Section != "Notes" {
			t.Errorf("item = %+v", item)
		}
	}

	if _, err := db.Lookup(ctx, "nobody"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing lookup err = %v", err)
	}
}

func TestDocuments_Filter(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"a.md", "_scripts/v.md", "xscripts/w.md", "archive/old.md", "archive.md"} {
		doc := &models.Document{Path: p, Lists: []models.ListItem{{Path: p, Line: 1, Text: p}}}
		if err := db.UpsertDocument(doc, p); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := db.Documents(context.Background(), query.Filter{
		ExcludeFolders: []string{"_scripts", "archive"},
		ExcludePath:    "a.md",
	})
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	var paths []string
	for _, d := range docs {
		paths = append(paths, d.Path)
		if len(d.Lists) != 1 || d.Lists[0].Text != d.Path {
			t.Errorf("%s items = %+v", d.Path, d.Lists)
		}
	}
	if want := []string{"archive.md", "xscripts/w.md"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(sampleDoc(), "x")

	if err := db.DeleteDocument("people/Bob.md"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	cs, _ := db.GetChecksum("people/Bob.md")
	if cs != "" {
		t.Errorf("deleted document still has checksum %q", cs)
	}
	var items int
	_ = db.conn.QueryRow(`SELECT count(*) FROM list_items`).Scan(&items)
	if items != 0 {
		t.Errorf("expected list items to cascade, %d left", items)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	doc := sampleDoc()
	_ = db.UpsertDocument(doc, "1")
	doc.Lists = doc.Lists[:1]
	doc.Title = "Robert"
	_ = db.UpsertDocument(doc, "2")

	cs, _ := db.GetChecksum("people/Bob.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	n, err := db.Count(context.Background())
	if err != nil || n != 1 {
		t.Errorf("count = %d, %v", n, err)
	}
	got, _ := db.Lookup(context.Background(), "bob")
	if len(got.Lists) != 1 {
		t.Errorf("old list items should be replaced, got %d", len(got.Lists))
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestSync_RendersFromIndex(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"daily/today.md": "- Met [[Alice]] (with:: [[Bob]]) today\n",
		"Bob.md":         "---\ntags: [person]\n---\n# Bob\n",
		"Alice.md":       "# Alice\n",
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		_ = os.MkdirAll(filepath.Dir(p), 0o755)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	db := testDB(t)
	logger := slog.New(slog.DiscardHandler)
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	res := view.NewRenderer(db, logger).Render(context.Background(), view.Config{Current: "Alice.md"}, view.MarkdownStyle)
	if res.Status != view.StatusOK || len(res.Rows) != 1 {
		t.Fatalf("result = %+v", res)
	}
	cells := res.Rows[0].Cells
	if cells[0] != "Met [[Alice]] today" {
		t.Errorf("content = %q", cells[0])
	}
	if want := `**With**: [[Bob]] <span style="font-size: 0.8em; opacity: 0.7;">#person</span>`; cells[1] != want {
		t.Errorf("related = %q", cells[1])
	}

	// A second sync with nothing changed is a no-op; removing a file drops it.
	_ = os.Remove(filepath.Join(dir, "daily", "today.md"))
	if err := Sync(db, store, logger); err != nil {
		t.Fatal(err)
	}
	if cs, _ := db.GetChecksum("daily/today.md"); cs != "" {
		t.Error("removed file still indexed")
	}
}
