// Package integration provides cross-package tests (requires a real SQLite page database).
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/pagerag/internal/config"
	"github.com/hyperjump/pagerag/internal/fingerprint"
	"github.com/hyperjump/pagerag/internal/index"
	"github.com/hyperjump/pagerag/internal/indexer"
	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/internal/sanitize"
	"github.com/hyperjump/pagerag/internal/search"
	"github.com/hyperjump/pagerag/internal/storage"
)

type stack struct {
	source  *storage.SQLitePageSource
	store   *index.Store
	engine  *search.Engine
	indexer *indexer.Indexer
}

func newStack(t *testing.T, sanitizerKind string) *stack {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{DatabasePath: filepath.Join(dir, "pages.db")}}
	config.ApplyDefaults(cfg)
	cfg.Index.Sanitizer = sanitizerKind

	source, err := storage.NewSQLitePageSource(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = source.Close() })

	sanitizer, err := sanitize.NewSanitizer(cfg.Index.Sanitizer)
	if err != nil {
		t.Fatal(err)
	}
	gen := fingerprint.NewSHA256Generator()
	store, err := index.NewStore(gen.Dimensions())
	if err != nil {
		t.Fatal(err)
	}
	return &stack{
		source:  source,
		store:   store,
		engine:  search.NewEngine(store, fingerprint.NewCachedGenerator(gen, cfg.Fingerprint.CacheSizeOrDefault()), &cfg.Search),
		indexer: indexer.NewIndexer(store, gen, source, indexer.WithSanitizer(sanitizer)),
	}
}

func (s *stack) seed(t *testing.T, pages ...*storage.PageRecord) {
	t.Helper()
	if err := s.source.BatchSavePages(context.Background(), pages); err != nil {
		t.Fatal(err)
	}
}

func page(key, locale, path, render string) *storage.PageRecord {
	return &storage.PageRecord{
		SourcePage:  models.SourcePage{Key: key, LocaleCode: locale, Path: path, Title: key, Render: render},
		IsPublished: true,
	}
}

func TestIntegration_ApplePie(t *testing.T) {
	s := newStack(t, "text")
	s.seed(t,
		page("h1", "en", "docs/apple", "<p>apple pie recipe</p>"),
		page("h2", "en", "docs/rocket", "<p>rocket engine design</p>"),
	)
	ctx := context.Background()
	if _, err := s.indexer.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	result, err := s.engine.Query(ctx, "apple pie", models.QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 2 {
		t.Fatalf("totalHits = %d, want 2", result.TotalHits)
	}
	if result.Results[0].ID != "h1" || result.Results[1].ID != "h2" {
		t.Errorf("order = %s, %s; want h1, h2", result.Results[0].ID, result.Results[1].ID)
	}
	if len(result.Suggestions) != 0 || result.Suggestions == nil {
		t.Errorf("suggestions = %v", result.Suggestions)
	}
}

func TestIntegration_RebuildThenLifecycle(t *testing.T) {
	s := newStack(t, "text")
	s.seed(t,
		page("a", "en", "docs/a", "<p>alpha</p>"),
		page("b", "fr", "docs/b", "<p>beta</p>"),
		page("c", "en", "guide/c", "<p>gamma</p>"),
	)
	hidden := page("d", "en", "docs/d", "<p>delta</p>")
	hidden.IsPrivate = true
	s.seed(t, hidden)

	ctx := context.Background()
	report, err := s.indexer.Rebuild(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Indexed != 3 || s.store.Size() != 3 {
		t.Fatalf("report = %+v", report)
	}

	if err := s.indexer.Renamed(ctx, &models.PageRename{Key: "c", DestinationKey: "c2", DestinationPath: "docs/c", DestinationLocale: "en"}); err != nil {
		t.Fatal(err)
	}
	result, err := s.engine.Query(ctx, "gamma", models.QueryOptions{Locale: "en", Path: "docs/"})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 2 || result.Results[0].Path != "docs/c" {
		t.Errorf("after rename: %+v", result)
	}

	if err := s.indexer.Deleted(ctx, &models.Page{Key: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.indexer.Updated(ctx, &models.Page{Key: "b", LocaleCode: "fr", Path: "docs/b", Title: "Bêta", Render: "<p>bêta mise à jour</p>"}); err != nil {
		t.Fatal(err)
	}
	result, err = s.engine.Query(ctx, "bêta mise à jour", models.QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 2 || result.Results[0].ID != "b" || result.Results[0].Title != "Bêta" {
		t.Errorf("after update: %+v", result)
	}

	// A page unpublished in the database drops out at the next rebuild.
	unpublished := page("b", "fr", "docs/b", "<p>beta</p>")
	unpublished.IsPublished = false
	s.seed(t, unpublished)
	if _, err := s.indexer.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.store.Get("b"); ok {
		t.Error("unpublished page survived rebuild")
	}
	if _, ok := s.store.Get("a"); !ok {
		t.Error("rebuild should restore deleted page a")
	}
}

func TestIntegration_MarkdownSanitizer(t *testing.T) {
	s := newStack(t, "markdown")
	s.seed(t, page("m", "en", "docs/m", "<h1>Title</h1><p>Some <strong>bold</strong> text</p>"))
	ctx := context.Background()
	if _, err := s.indexer.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}
	md, err := sanitize.NewMarkdownSanitizer().Sanitize("<h1>Title</h1><p>Some <strong>bold</strong> text</p>")
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.engine.Query(ctx, md, models.QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 1 || result.Results[0].ID != "m" {
		t.Errorf("result = %+v", result)
	}
}
