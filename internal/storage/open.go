package storage

import (
	"fmt"
	"strings"
)

// IsPostgresDSN reports whether dsn selects the PostgreSQL page source.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open returns the page source for the given settings.
//   - postgres:// or postgresql:// DSN: the wiki's PostgreSQL database
//   - otherwise: SQLite at dbPath
func Open(dsn, dbPath string) (Source, error) {
	if IsPostgresDSN(dsn) {
		src, err := NewPostgresPageSource(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return src, nil
	}
	if dsn != "" {
		return nil, fmt.Errorf("unsupported storage dsn scheme: %q", dsn)
	}
	return NewSQLitePageSource(dbPath)
}
