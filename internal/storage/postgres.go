package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hyperjump/pagerag/internal/models"
)

// PostgresPageSource reads pages straight from a wiki's PostgreSQL database. The pages
// table is owned by the wiki, so the source never writes or migrates it.
type PostgresPageSource struct {
	db *sql.DB
}

// NewPostgresPageSource connects to the database at dsn and verifies the connection.
func NewPostgresPageSource(dsn string) (*PostgresPageSource, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresPageSource{db: db}, nil
}

// ListPublishedPages returns published, non-private pages ordered by path.
func (s *PostgresPageSource) ListPublishedPages(ctx context.Context) ([]*models.SourcePage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, path, "localeCode", COALESCE(title, ''), COALESCE(description, ''), COALESCE(render, '')
		 FROM pages WHERE "isPublished" = true AND "isPrivate" = false
		 ORDER BY path, "localeCode"`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()
	return scanPages(rows)
}

// Close closes the connection pool.
func (s *PostgresPageSource) Close() error {
	return s.db.Close()
}
