package parser

import (
	"reflect"
	"testing"
	"time"

	"github.com/starford/wunjo/internal/models"
)

const logNote = `---
title: Log
tags: [daily]
created: 2024-03-01
---
# Log

## Meetings
- Met (with:: [[B]]) today #work
- [x] Shipped [[Release#Notes|notes]] [status:: done]
  continued line
  - nested [[C]]
- project:: [[Alpha]], [[Beta]]

Closing paragraph with [[D]].
`

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - wunjo\n---\n# Hello\nBody text.\n")
	r, err := Parse("hello.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.Title, "Hello")
	}
	if want := []string{"#go", "#wunjo"}; !reflect.DeepEqual(r.Tags, want) {
		t.Errorf("tags = %v, want %v", r.Tags, want)
	}
	if r.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
	if len(r.Lists) != 0 {
		t.Errorf("lists = %v, want none", r.Lists)
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r, err := Parse("x.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Invalid YAML falls back to treating everything as body.
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
}

func TestParse_ListItems(t *testing.T) {
	r, err := Parse("daily/log.md", []byte(logNote))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Lists) != 4 {
		t.Fatalf("len(lists) = %d, want 4: %+v", len(r.Lists), r.Lists)
	}

	met := r.Lists[0]
	if met.Line != 9 || met.Section != "Meetings" || met.Path != "daily/log.md" {
		t.Errorf("met location = %s:%d section %q", met.Path, met.Line, met.Section)
	}
	if met.Text != "Met (with:: [[B]]) today #work" {
		t.Errorf("met text = %q", met.Text)
	}
	if !reflect.DeepEqual(met.Outlinks, []models.Link{{Path: "B"}}) {
		t.Errorf("met outlinks = %v", met.Outlinks)
	}
	if !reflect.DeepEqual(met.Tags, []string{"#work"}) {
		t.Errorf("met tags = %v", met.Tags)
	}
	if got := met.Fields["with"]; got != (models.Link{Path: "B"}) {
		t.Errorf("met with = %#v", got)
	}

	task := r.Lists[1]
	if !task.Task || !task.Checked {
		t.Errorf("task flags = %v/%v", task.Task, task.Checked)
	}
	if task.Line != 10 {
		t.Errorf("task line = %d, want 10", task.Line)
	}
	if task.Text != "Shipped [[Release#Notes|notes]] [status:: done]\ncontinued line" {
		t.Errorf("task text = %q", task.Text)
	}
	if want := []models.Link{{Path: "Release", Subpath: "Notes", Display: "notes"}}; !reflect.DeepEqual(task.Outlinks, want) {
		t.Errorf("task outlinks = %v", task.Outlinks)
	}
	if task.Fields["status"] != "done" {
		t.Errorf("task status = %#v", task.Fields["status"])
	}

	nested := r.Lists[2]
	if nested.Text != "nested [[C]]" || nested.Line != 12 {
		t.Errorf("nested = %q at %d", nested.Text, nested.Line)
	}

	project := r.Lists[3]
	want := []any{models.Link{Path: "Alpha"}, models.Link{Path: "Beta"}}
	if !reflect.DeepEqual(project.Fields["project"], want) {
		t.Errorf("project field = %#v", project.Fields["project"])
	}
	if len(project.Outlinks) != 2 {
		t.Errorf("project outlinks = %v", project.Outlinks)
	}
}

func TestParseDocument(t *testing.T) {
	mtime := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
	d, err := ParseDocument("daily/log.md", []byte(logNote), mtime)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if d.Name != "log" || d.Title != "Log" {
		t.Errorf("name/title = %q/%q", d.Name, d.Title)
	}
	if want := []string{"#daily", "#work"}; !reflect.DeepEqual(d.Tags, want) {
		t.Errorf("tags = %v, want %v", d.Tags, want)
	}
	if !d.ModTime.Equal(mtime) {
		t.Errorf("mtime = %v", d.ModTime)
	}
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !d.CreatedTime.Equal(want) {
		t.Errorf("ctime = %v, want %v", d.CreatedTime, want)
	}
}

func TestFindLinks(t *testing.T) {
	s := "See [[Note A]], ![[img.png]], [design](docs/Design%20One.md#Intro) and [site](https://x.io) [[Note A|again]]"
	got := findLinks(s)
	want := []models.Link{
		{Path: "Note A"},
		{Path: "img.png", Embed: true},
		{Path: "docs/Design One.md", Subpath: "Intro", Display: "design"},
		{Path: "Note A", Display: "again"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("findLinks =\n  %v\nwant\n  %v", got, want)
	}
}

func TestFindFields(t *testing.T) {
	tests := []struct {
		line string
		want map[string]any
	}{
		{"plain text", map[string]any{}},
		{"due:: 2024-05-01", map[string]any{"due": "2024-05-01"}},
		{"a [k:: v] b (p:: q)", map[string]any{"k": "v", "p": "q"}},
		{"[who:: [[Bob]]]", map[string]any{"who": models.Link{Path: "Bob"}}},
		{"[src:: see [docs](https://x.io/a)]", map[string]any{"src": "see [docs](https://x.io/a)"}},
		{"[k:: a] [k:: b]", map[string]any{"k": []any{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := findFields(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("findFields(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFindTags(t *testing.T) {
	got := findTags("#start mid#no #a/b end #1x #ok")
	want := []string{"#start", "#a/b", "#ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("findTags = %v, want %v", got, want)
	}
}
