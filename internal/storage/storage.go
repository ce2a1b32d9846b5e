// Package storage defines the page source that a full index rebuild reads from.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/hyperjump/pagerag/internal/models"
)

// PageSource lists the pages that belong in the index.
type PageSource interface {
	// ListPublishedPages returns every published, non-private page.
	ListPublishedPages(ctx context.Context) ([]*models.SourcePage, error)
}

// Source is a PageSource backed by a database connection.
type Source interface {
	PageSource
	io.Closer
}

// scanPages reads rows of (key, path, locale, title, description, render). The text
// columns are nullable in the wiki schema, so queries select them through COALESCE.
func scanPages(rows *sql.Rows) ([]*models.SourcePage, error) {
	var pages []*models.SourcePage
	for rows.Next() {
		var p models.SourcePage
		if err := rows.Scan(&p.Key, &p.Path, &p.LocaleCode, &p.Title, &p.Description, &p.Render); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}
