package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestIsPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://wiki@localhost/wiki", true},
		{"postgresql://wiki@localhost:5432/wiki?sslmode=disable", true},
		{"", false},
		{"/var/lib/pages.db", false},
		{"mysql://wiki@localhost/wiki", false},
	}
	for _, tt := range tests {
		if got := IsPostgresDSN(tt.dsn); got != tt.want {
			t.Errorf("IsPostgresDSN(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}

func TestOpen_sqlite(t *testing.T) {
	src, err := Open("", filepath.Join(t.TempDir(), "pages.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if _, ok := src.(*SQLitePageSource); !ok {
		t.Errorf("Open returned %T, want *SQLitePageSource", src)
	}
}

func TestOpen_unsupportedScheme(t *testing.T) {
	if _, err := Open("mysql://wiki@localhost/wiki", ""); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}

func TestOpen_unreachablePostgres(t *testing.T) {
	if _, err := Open("postgres://wiki@127.0.0.1:1/wiki?connect_timeout=1&sslmode=disable", ""); err == nil {
		t.Error("expected ping error for unreachable server")
	}
}

// TestPostgresPageSource runs against a real wiki database when PAGERAG_TEST_POSTGRES_DSN is set.
func TestPostgresPageSource(t *testing.T) {
	dsn := os.Getenv("PAGERAG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PAGERAG_TEST_POSTGRES_DSN not set")
	}
	src, err := NewPostgresPageSource(dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	// The temp table lives on a single session.
	src.db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := src.db.ExecContext(ctx, `
		CREATE TEMP TABLE pages (
			hash TEXT PRIMARY KEY, path TEXT, "localeCode" TEXT, title TEXT,
			description TEXT, render TEXT, "isPublished" BOOLEAN, "isPrivate" BOOLEAN
		)`); err != nil {
		t.Fatal(err)
	}
	if _, err := src.db.ExecContext(ctx, `
		INSERT INTO pages VALUES
			('b', 'guide/b', 'en', 'B', '', '<p>b</p>', true, false),
			('a', 'docs/a', 'en', 'A', NULL, '<p>a</p>', true, false),
			('c', 'docs/c', 'en', 'C', '', '<p>c</p>', false, false),
			('d', 'docs/d', 'fr', 'D', '', '<p>d</p>', true, true)`); err != nil {
		t.Fatal(err)
	}

	pages, err := src.ListPublishedPages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[0].Key != "a" || pages[1].Key != "b" {
		t.Errorf("pages = %+v", pages)
	}
}
