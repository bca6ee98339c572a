package view

import (
	"strings"
	"testing"

	"github.com/starford/wunjo/internal/models"
)

func testStyle() Style {
	return Style{
		LineBreak: " | ",
		TagSuffix: func(tags []string) string { return "(" + strings.Join(tags, " ") + ")" },
	}
}

func testComposer(tags map[string][]string) *Composer {
	return &Composer{
		Style: testStyle(),
		Tags:  func(id string) []string { return tags[id] },
	}
}

func TestDecorate(t *testing.T) {
	c := testComposer(map[string][]string{"bob": {"#person", "#team"}})

	if got := c.Decorate(models.Link{Path: "Bob"}); got != "[[Bob]] (#person #team)" {
		t.Errorf("link = %q", got)
	}
	if got := c.Decorate(models.RawLink("[[bob|Robert]]")); got != "[[bob|Robert]] (#person #team)" {
		t.Errorf("raw wikilink = %q", got)
	}
	if got := c.Decorate(models.RawLink("[[Bob#Contact]]")); got != "[[Bob#Contact]] (#person #team)" {
		t.Errorf("section wikilink = %q", got)
	}
	if got := c.Decorate(models.RawLink("Carol")); got != "Carol" {
		t.Errorf("untagged = %q", got)
	}
	if got := c.Decorate(models.RawLink("[Bob](bob.md)")); got != "[Bob](bob.md)" {
		t.Errorf("markdown link should be untouched, got %q", got)
	}
}

func TestDecorate_NoLookup(t *testing.T) {
	c := &Composer{Style: MarkdownStyle}
	if got := c.Decorate(models.RawLink("x")); got != "x" {
		t.Errorf("got %q", got)
	}
}

func TestCompose(t *testing.T) {
	c := testComposer(map[string][]string{"a": {"#x"}})
	links := []models.Link{{Path: "A"}, {Path: "C"}}
	md := Metadata{
		"status": {"open"},
		"Zeta":   {"z"},
		"author": {"Bob", "[[A]]"},
	}
	got := c.Compose(links, md)
	want := "[[A]] (#x) | [[C]] | **Zeta**: z | **Author**: Bob, [[A]] (#x) | **Status**: open"
	if got != want {
		t.Errorf("Compose =\n  %q\nwant\n  %q", got, want)
	}
}

func TestCompose_Empty(t *testing.T) {
	c := testComposer(nil)
	if got := c.Compose(nil, Metadata{}); got != "" {
		t.Errorf("got %q", got)
	}
	if got := c.Compose(nil, Metadata{"k": {"v"}}); got != "**K**: v" {
		t.Errorf("got %q", got)
	}
}

func TestMarkdownStyle_TagSuffix(t *testing.T) {
	got := MarkdownStyle.TagSuffix([]string{"#a", "#b"})
	if !strings.Contains(got, "#a #b") || !strings.HasPrefix(got, "<span") {
		t.Errorf("suffix = %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{"": "", "status": "Status", "élan": "Élan", "Done": "Done", "x-y": "X-y"}
	for in, want := range cases {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
