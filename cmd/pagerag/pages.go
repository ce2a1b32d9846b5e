package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/pagerag/internal/config"
	"github.com/hyperjump/pagerag/internal/storage"
)

var errReadOnlySource = errors.New("the wiki's PostgreSQL database is read-only; pages are managed by the wiki")

// openLocalPageDB opens the SQLite page database named by cfg for maintenance commands.
func openLocalPageDB(cfg *config.Config) (*storage.SQLitePageSource, error) {
	if storage.IsPostgresDSN(cfg.Storage.DSN) {
		return nil, errReadOnlySource
	}
	return storage.NewSQLitePageSource(cfg.Storage.DatabasePath)
}

// importPages reads a JSON array of page rows from r and upserts each one.
func importPages(ctx context.Context, db *storage.SQLitePageSource, r io.Reader) (int, error) {
	var records []*storage.PageRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("failed to decode pages: %w", err)
	}
	for i, rec := range records {
		if rec == nil || rec.Key == "" || rec.Path == "" || rec.LocaleCode == "" {
			return i, fmt.Errorf("page %d: key, path and locale are required", i)
		}
		if err := db.SavePage(ctx, rec); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

func runPages() {
	if len(os.Args) < 3 {
		printPagesUsage()
		os.Exit(1)
	}
	action := os.Args[2]
	fs := flag.NewFlagSet("pages "+action, flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[3:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	db, err := openLocalPageDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open page database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	ctx := context.Background()

	switch action {
	case "import":
		if fs.NArg() != 1 {
			printPagesUsage()
			os.Exit(1)
		}
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", fs.Arg(0), err)
			os.Exit(1)
		}
		defer f.Close()
		n, err := importPages(ctx, db, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed after %d pages: %v\n", n, err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d pages\n", n)
	case "delete":
		if fs.NArg() != 1 {
			printPagesUsage()
			os.Exit(1)
		}
		if err := db.DeletePage(ctx, fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", fs.Arg(0))
	case "count":
		n, err := db.CountPages(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d pages\n", n)
	default:
		fmt.Fprintf(os.Stderr, "Unknown pages action: %s\n", action)
		printPagesUsage()
		os.Exit(1)
	}
}

func printPagesUsage() {
	fmt.Println(`Usage:
  pagerag pages import [-config path] <pages.json>   Upsert page rows from a JSON array
  pagerag pages delete [-config path] <key>          Delete a page row
  pagerag pages count  [-config path]                Count page rows

Rows use the fields key, path, locale, title, description, render, is_published
and is_private. Only published, non-private rows are indexed.`)
}

// writeDefaultConfig writes the built-in defaults to path. An existing file is kept
// unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return config.Save(path, cfg)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "where to write the config file")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*path, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *path)
}
