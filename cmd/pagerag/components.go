package main

import (
	"fmt"

	"github.com/hyperjump/pagerag/internal/config"
	"github.com/hyperjump/pagerag/internal/fingerprint"
	"github.com/hyperjump/pagerag/internal/index"
	"github.com/hyperjump/pagerag/internal/indexer"
	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/internal/sanitize"
	"github.com/hyperjump/pagerag/internal/search"
	"github.com/hyperjump/pagerag/internal/storage"
	"go.uber.org/zap"
)

// Components holds initialized services.
type Components struct {
	Source  storage.Source
	Store   *index.Store
	Engine  *search.Engine
	Indexer *indexer.Indexer
}

func (c *Components) Close() {
	if c.Source != nil {
		_ = c.Source.Close()
	}
}

// Status reports the live index state.
func (c *Components) Status() *models.IndexStatus {
	return &models.IndexStatus{
		Documents:   c.Engine.IndexSize(),
		Dimensions:  c.Engine.Dimensions(),
		MaxHits:     c.Engine.MaxHits(),
		LastRebuild: c.Indexer.LastRebuild(),
	}
}

// initializeComponents wires the page source, store, engine and indexer. Only query
// fingerprints go through the fingerprint cache.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	sanitizer, err := sanitize.NewSanitizer(cfg.Index.Sanitizer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sanitizer: %w", err)
	}

	source, err := storage.Open(cfg.Storage.DSN, cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize page source: %w", err)
	}

	generator := fingerprint.NewSHA256Generator()
	store, err := index.NewStore(generator.Dimensions())
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("failed to initialize index: %w", err)
	}

	queryGenerator := fingerprint.NewCachedGenerator(generator, cfg.Fingerprint.CacheSizeOrDefault())
	engine := search.NewEngine(store, queryGenerator, &cfg.Search, search.WithLogger(logger))
	idx := indexer.NewIndexer(store, generator, source,
		indexer.WithLogger(logger),
		indexer.WithSanitizer(sanitizer),
		indexer.WithWorkers(cfg.Index.Workers),
	)

	sourceField := zap.String("database_path", cfg.Storage.DatabasePath)
	if storage.IsPostgresDSN(cfg.Storage.DSN) {
		sourceField = zap.String("page_source", "postgres")
	}
	logger.Info("components initialized",
		sourceField,
		zap.String("sanitizer", cfg.Index.Sanitizer),
		zap.Int("fingerprint_cache_size", cfg.Fingerprint.CacheSizeOrDefault()),
		zap.Int("max_hits", engine.MaxHits()),
	)

	return &Components{
		Source:  source,
		Store:   store,
		Engine:  engine,
		Indexer: idx,
	}, nil
}
