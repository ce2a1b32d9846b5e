package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/pagerag/internal/models"
)

func newTestSource(t *testing.T) *SQLitePageSource {
	t.Helper()
	src, err := NewSQLitePageSource(filepath.Join(t.TempDir(), "pages.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func record(key, locale, path string, published, private bool) *PageRecord {
	return &PageRecord{
		SourcePage: models.SourcePage{
			Key: key, Path: path, LocaleCode: locale,
			Title: "T " + key, Description: "D " + key, Render: "<p>" + key + "</p>",
		},
		IsPublished: published,
		IsPrivate:   private,
	}
}

func TestSQLitePageSource_ListPublishedPages(t *testing.T) {
	src := newTestSource(t)
	ctx := context.Background()

	pages := []*PageRecord{
		record("h1", "en", "food/apple", true, false),
		record("h2", "en", "tech/rocket", true, false),
		record("h3", "fr", "food/pomme", true, false),
		record("draft", "en", "drafts/x", false, false),
		record("secret", "en", "private/x", true, true),
	}
	if err := src.BatchSavePages(ctx, pages); err != nil {
		t.Fatal(err)
	}

	got, err := src.ListPublishedPages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 published pages, got %d", len(got))
	}
	if got[0].Key != "h1" || got[1].Key != "h3" || got[2].Key != "h2" {
		t.Errorf("pages not ordered by path: %s, %s, %s", got[0].Key, got[1].Key, got[2].Key)
	}
	if got[0].Title != "T h1" || got[0].Render != "<p>h1</p>" || got[0].LocaleCode != "en" {
		t.Errorf("unexpected page: %+v", got[0])
	}

	n, err := src.CountPages(ctx)
	if err != nil || n != 5 {
		t.Errorf("CountPages: %v, %d", err, n)
	}
}

func TestSQLitePageSource_SaveAndDelete(t *testing.T) {
	src := newTestSource(t)
	ctx := context.Background()

	if err := src.SavePage(ctx, record("h1", "en", "a", true, false)); err != nil {
		t.Fatal(err)
	}
	updated := record("h1", "en", "b", true, false)
	updated.Title = "Renamed"
	if err := src.SavePage(ctx, updated); err != nil {
		t.Fatal(err)
	}
	got, _ := src.ListPublishedPages(ctx)
	if len(got) != 1 || got[0].Path != "b" || got[0].Title != "Renamed" {
		t.Fatalf("upsert failed: %+v", got)
	}

	if err := src.DeletePage(ctx, "h1"); err != nil {
		t.Fatal(err)
	}
	got, _ = src.ListPublishedPages(ctx)
	if len(got) != 0 {
		t.Errorf("expected no pages after delete, got %d", len(got))
	}
}

func TestSQLitePageSource_Empty(t *testing.T) {
	src := newTestSource(t)
	got, err := src.ListPublishedPages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %d", len(got))
	}
}

func TestSQLitePageSource_CancelledContext(t *testing.T) {
	src := newTestSource(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.ListPublishedPages(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSQLitePageSource_ListPublishedPages_nullColumns(t *testing.T) {
	src := newTestSource(t)
	ctx := context.Background()

	// Same shape as the wiki schema, where the text columns are nullable.
	if _, err := src.db.ExecContext(ctx, `
		DROP TABLE pages;
		CREATE TABLE pages (
			hash TEXT PRIMARY KEY, path TEXT NOT NULL, locale_code TEXT NOT NULL,
			title TEXT, description TEXT, render TEXT,
			is_published INTEGER NOT NULL, is_private INTEGER NOT NULL, updated_at TIMESTAMP
		)`); err != nil {
		t.Fatal(err)
	}
	if _, err := src.db.ExecContext(ctx, `
		INSERT INTO pages (hash, path, locale_code, title, description, render, is_published, is_private) VALUES
			('h1', 'a', 'en', 'A', 'about a', '<p>a</p>', 1, 0),
			('h2', 'b', 'en', 'B', NULL, '<p>b</p>', 1, 0),
			('h3', 'c', 'en', NULL, NULL, NULL, 1, 0)`); err != nil {
		t.Fatal(err)
	}

	got, err := src.ListPublishedPages(ctx)
	if err != nil {
		t.Fatalf("NULL columns should not fail the listing: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(got))
	}
	if got[1].Key != "h2" || got[1].Description != "" || got[1].Render != "<p>b</p>" {
		t.Errorf("unexpected page: %+v", got[1])
	}
	if got[2].Title != "" || got[2].Render != "" {
		t.Errorf("NULL text columns should read as empty: %+v", got[2])
	}
}
