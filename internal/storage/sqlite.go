package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/pagerag/internal/models"
)

// SQLitePageSource implements PageSource over a SQLite pages table.
type SQLitePageSource struct {
	db *sql.DB
}

// PageRecord is a full row of the pages table, used to seed or sync the source.
type PageRecord struct {
	models.SourcePage
	IsPublished bool `json:"is_published"`
	IsPrivate   bool `json:"is_private"`
}

// NewSQLitePageSource opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLitePageSource(dbPath string) (*SQLitePageSource, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLitePageSource{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		hash TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		locale_code TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		render TEXT NOT NULL DEFAULT '',
		is_published INTEGER NOT NULL DEFAULT 1,
		is_private INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_published ON pages(is_published, is_private);
	`
	_, err := db.Exec(schema)
	return err
}

// ListPublishedPages returns published, non-private pages ordered by path.
func (s *SQLitePageSource) ListPublishedPages(ctx context.Context) ([]*models.SourcePage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, path, locale_code, COALESCE(title, ''), COALESCE(description, ''), COALESCE(render, '')
		 FROM pages WHERE is_published = 1 AND is_private = 0
		 ORDER BY path, locale_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()
	return scanPages(rows)
}

// SavePage inserts or replaces a page row.
func (s *SQLitePageSource) SavePage(ctx context.Context, page *PageRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (hash, path, locale_code, title, description, render, is_published, is_private, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET
		   path = excluded.path,
		   locale_code = excluded.locale_code,
		   title = excluded.title,
		   description = excluded.description,
		   render = excluded.render,
		   is_published = excluded.is_published,
		   is_private = excluded.is_private,
		   updated_at = excluded.updated_at`,
		page.Key, page.Path, page.LocaleCode, page.Title, page.Description, page.Render,
		page.IsPublished, page.IsPrivate, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save page %s: %w", page.Key, err)
	}
	return nil
}

// BatchSavePages saves multiple pages in a transaction.
func (s *SQLitePageSource) BatchSavePages(ctx context.Context, pages []*PageRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO pages (hash, path, locale_code, title, description, render, is_published, is_private, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, p := range pages {
		if _, err := stmt.ExecContext(ctx, p.Key, p.Path, p.LocaleCode, p.Title, p.Description, p.Render,
			p.IsPublished, p.IsPrivate, now); err != nil {
			return fmt.Errorf("failed to save page %s: %w", p.Key, err)
		}
	}
	return tx.Commit()
}

// DeletePage removes a page row by hash.
func (s *SQLitePageSource) DeletePage(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE hash = ?`, key)
	return err
}

// CountPages returns the total number of page rows, published or not.
func (s *SQLitePageSource) CountPages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLitePageSource) Close() error {
	return s.db.Close()
}
