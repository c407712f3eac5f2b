package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/folio/app/compose"
)

func slugs(records []Record) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.Slug)
	}
	return out
}

func designSystemStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore([]Record{
		{Slug: "tokens", Title: "Design Tokens", Tags: []string{"design-system"}},
		{Slug: "system", Title: "Design System", Tags: []string{"design-system", "featured"}},
		{Slug: "icons", Title: "Icons", Tags: []string{"design-system"}},
		{Slug: "refactor", Title: "UI Refactor", Tags: []string{"ui-refactor", "featured"}},
		{Slug: "ui", Title: "UI Library", Tags: []string{"design-system"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestSelectFeaturedAndRelated(t *testing.T) {
	store := designSystemStore(t)

	featured := store.Select("design-system", true)
	if diff := cmp.Diff([]string{"system"}, slugs(featured)); diff != "" {
		t.Errorf("Featured selection mismatch (-want +got):\n%s", diff)
	}

	related := store.Select("design-system", false)
	if diff := cmp.Diff([]string{"tokens", "icons", "ui"}, slugs(related)); diff != "" {
		t.Errorf("Related selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectIsIdempotentAndExact(t *testing.T) {
	store := designSystemStore(t)

	for _, tag := range []string{"design-system", "ui-refactor", "featured", "unknown"} {
		for _, featured := range []bool{true, false} {
			first := store.Select(tag, featured)
			second := store.Select(tag, featured)
			if diff := cmp.Diff(slugs(first), slugs(second)); diff != "" {
				t.Errorf("Select(%s, %v) not idempotent:\n%s", tag, featured, diff)
			}
			for _, r := range first {
				if !r.HasTag(tag) || r.IsFeatured() != featured {
					t.Errorf("Select(%s, %v) returned non-matching record %s", tag, featured, r.Slug)
				}
			}
		}
	}
}

func TestSelectUnknownTagIsEmpty(t *testing.T) {
	got := designSystemStore(t).Select("unknown", false)
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", got)
	}
}

func TestStoreHandsOutCopies(t *testing.T) {
	store := designSystemStore(t)

	records := store.Select("design-system", true)
	records[0].Tags[0] = "mutated"
	records[0].Title = "mutated"

	again, _ := store.Lookup("system")
	if again.Tags[0] != "design-system" || again.Title != "Design System" {
		t.Errorf("Expected store to be unaffected, got %+v", again)
	}
}

func TestNewStoreRejectsBadSlugs(t *testing.T) {
	tests := map[string][]Record{
		"empty":     {{Slug: " "}},
		"duplicate": {{Slug: "a"}, {Slug: "a"}},
	}
	for name, records := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewStore(records)
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestLookupIsExact(t *testing.T) {
	store := designSystemStore(t)
	if _, ok := store.Lookup("System"); ok {
		t.Error("Expected case-sensitive lookup to miss")
	}
	if r, ok := store.Lookup("icons"); !ok || r.Title != "Icons" {
		t.Errorf("Expected to find icons, got %+v", r)
	}
}

func TestTagsAndGroup(t *testing.T) {
	store := designSystemStore(t)

	if diff := cmp.Diff([]string{"design-system", "ui-refactor"}, store.Tags()); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}

	g := store.Group("ui-refactor")
	if g.Featured == nil || g.Featured.Slug != "refactor" {
		t.Errorf("Expected featured 'refactor', got %+v", g.Featured)
	}
	if len(g.Related) != 0 {
		t.Errorf("Expected no related records, got %v", slugs(g.Related))
	}

	if g := store.Group("missing"); g.Featured != nil || len(g.Related) != 0 {
		t.Errorf("Expected empty grouping, got %+v", g)
	}
}

func TestValidateWarnsOnMultipleFeatured(t *testing.T) {
	store, err := NewStore([]Record{
		{Slug: "a", Tags: []string{"topic", "featured"}},
		{Slug: "b", Tags: []string{"topic", "featured"}},
		{Slug: "c", Tags: []string{"other", "featured"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	warnings := store.Validate()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Tag != "topic" || !strings.Contains(warnings[0].String(), "a, b") {
		t.Errorf("Unexpected warning %s", warnings[0])
	}

	// the engine still returns whatever matches
	if n := len(store.Select("topic", true)); n != 2 {
		t.Errorf("Expected 2 featured records, got %d", n)
	}
	if g := store.Group("topic"); g.Featured.Slug != "a" {
		t.Errorf("Expected first featured record to win, got %s", g.Featured.Slug)
	}
}

func TestDisplayVariants(t *testing.T) {
	r := Record{Title: "Full", ShortTitle: "Short", Description: "Long description"}

	if r.DisplayTitle(true) != "Short" || r.DisplayTitle(false) != "Full" {
		t.Error("Expected short title only in compact context")
	}
	if r.DisplayDescription(true) != "Long description" {
		t.Error("Expected compact description to fall back to the full one")
	}
}

func TestRecordYAML(t *testing.T) {
	src := `
slug: sample
title: Sample
tags: [design-system, featured]
published: 2024-03-01
media: {path: /media/sample.png, width: 800, height: 600, alt: Sample}
links: {github: "https://github.com/example/sample"}
role: I led the work.
`
	var r Record
	if err := yaml.Unmarshal([]byte(src), &r); err != nil {
		t.Fatal(err)
	}
	if !r.IsFeatured() || r.Media.Width != 800 || r.Links.GitHub == "" {
		t.Errorf("Unexpected record %+v", r)
	}
	if r.Published.Year() != 2024 || r.Published.Month() != 3 {
		t.Errorf("Expected published 2024-03, got %v", r.Published)
	}

	role := compose.Build(r.Role)
	if len(role) != 1 {
		t.Fatalf("Expected 1 role node, got %d", len(role))
	}
	p, ok := role[0].(*compose.Paragraph)
	if !ok || p.Content.String() != "I led the work." {
		t.Errorf("Expected text role to become a paragraph, got %#v", role[0])
	}
}

func TestRecordYAMLStructuredRole(t *testing.T) {
	src := `
slug: sample
role:
  - Intro text
  - list:
      items: [Research, Design]
`
	var r Record
	if err := yaml.Unmarshal([]byte(src), &r); err != nil {
		t.Fatal(err)
	}
	role := compose.Build(r.Role)
	if len(role) != 2 || role[1].Kind() != compose.KindList {
		t.Errorf("Expected paragraph and list, got %d nodes", len(role))
	}
}
