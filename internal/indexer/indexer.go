// Package indexer applies page lifecycle events to the document index and rebuilds it from the page source.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/pagerag/internal/fingerprint"
	"github.com/hyperjump/pagerag/internal/index"
	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/internal/pagekey"
	"github.com/hyperjump/pagerag/internal/sanitize"
	"github.com/hyperjump/pagerag/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidPage is returned for a page with neither a key nor a path.
	ErrInvalidPage = errors.New("invalid page")
	// ErrFetchFailed is returned when the page source cannot list pages during a rebuild.
	ErrFetchFailed = errors.New("fetch published pages failed")
	// ErrRebuildInProgress is returned when a rebuild is requested while another one runs.
	ErrRebuildInProgress = errors.New("rebuild already in progress")
	// ErrNoSource is returned by Rebuild when the indexer has no page source.
	ErrNoSource = errors.New("no page source configured")
)

// Indexer keeps the document store in sync with page lifecycle events and rebuilds it on demand.
type Indexer struct {
	store     *index.Store
	generator fingerprint.Generator
	sanitizer sanitize.Sanitizer
	source    storage.PageSource
	logger    *zap.Logger
	workers   int

	rebuildMu   sync.Mutex
	lastMu      sync.RWMutex
	lastRebuild *models.RebuildReport
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for rebuild and event logging.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithSanitizer replaces the default text sanitizer.
func WithSanitizer(s sanitize.Sanitizer) IndexerOption {
	return func(idx *Indexer) { idx.sanitizer = s }
}

// WithWorkers bounds how many pages a rebuild fingerprints concurrently. Values below 1
// are ignored.
func WithWorkers(n int) IndexerOption {
	return func(idx *Indexer) {
		if n > 0 {
			idx.workers = n
		}
	}
}

// NewIndexer creates an indexer with the given dependencies.
// source may be nil; Rebuild then returns ErrNoSource.
func NewIndexer(
	store *index.Store,
	generator fingerprint.Generator,
	source storage.PageSource,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		store:     store,
		generator: generator,
		sanitizer: sanitize.NewTextSanitizer(),
		source:    source,
		logger:    zap.NewNop(),
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger.Info("(SEARCH/RAG) index initialized",
		zap.Int("dimensions", store.Dimensions()),
	)
	return idx
}

// Created indexes a newly created page.
func (idx *Indexer) Created(ctx context.Context, page *models.Page) error {
	return idx.upsertPage(ctx, page, "created")
}

// Updated re-fingerprints a page and replaces its entry.
func (idx *Indexer) Updated(ctx context.Context, page *models.Page) error {
	return idx.upsertPage(ctx, page, "updated")
}

// Deleted removes the page from the index. Deleting a page that is not indexed is a no-op.
func (idx *Indexer) Deleted(_ context.Context, page *models.Page) error {
	key, err := ResolveKey(page)
	if err != nil {
		return err
	}
	removed := idx.store.Remove(key)
	idx.logger.Debug("page deleted", zap.String("key", key), zap.Bool("removed", removed))
	return nil
}

// Renamed moves an indexed page to its destination key, path and locale while keeping
// its fingerprint. Renaming a page that is not indexed is a no-op.
func (idx *Indexer) Renamed(_ context.Context, rename *models.PageRename) error {
	if rename.Key == "" {
		return fmt.Errorf("%w: rename without source key", ErrInvalidPage)
	}
	destKey := rename.DestinationKey
	if destKey == "" {
		if rename.DestinationPath == "" {
			return fmt.Errorf("%w: rename without destination key or path", ErrInvalidPage)
		}
		destKey = pagekey.Key(rename.DestinationLocale, rename.DestinationPath)
	}
	moved := idx.store.Rekey(rename.Key, destKey, rename.DestinationPath, rename.DestinationLocale)
	idx.logger.Debug("page renamed",
		zap.String("key", rename.Key),
		zap.String("destination_key", destKey),
		zap.Bool("moved", moved),
	)
	return nil
}

func (idx *Indexer) upsertPage(ctx context.Context, page *models.Page, event string) error {
	key, err := ResolveKey(page)
	if err != nil {
		return err
	}
	content := page.Content
	if content == "" && page.Render != "" {
		content, err = idx.sanitizer.Sanitize(page.Render)
		if err != nil {
			return fmt.Errorf("failed to sanitize page %s: %w", key, err)
		}
	}
	fp, err := idx.generator.Fingerprint(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to fingerprint page %s: %w", key, err)
	}
	if err := idx.store.Upsert(key, fp, page.Metadata()); err != nil {
		return fmt.Errorf("failed to index page %s: %w", key, err)
	}
	idx.logger.Debug("page "+event, zap.String("key", key), zap.String("path", page.Path))
	return nil
}

// ResolveKey returns the page key, deriving it from locale and path when absent.
func ResolveKey(page *models.Page) (string, error) {
	if page == nil {
		return "", fmt.Errorf("%w: nil page", ErrInvalidPage)
	}
	if page.Key != "" {
		return page.Key, nil
	}
	if page.Path == "" {
		return "", fmt.Errorf("%w: page has neither key nor path", ErrInvalidPage)
	}
	return pagekey.Key(page.LocaleCode, page.Path), nil
}

// Rebuild replaces the whole index with the published pages of the page source.
// Pages are fetched and fingerprinted without holding the store lock; the store is
// repopulated in one atomic step. A fetch failure leaves the index untouched. Pages
// that fail to sanitize or fingerprint are skipped and counted in the report.
func (idx *Indexer) Rebuild(ctx context.Context) (*models.RebuildReport, error) {
	if idx.source == nil {
		return nil, ErrNoSource
	}
	if !idx.rebuildMu.TryLock() {
		return nil, ErrRebuildInProgress
	}
	defer idx.rebuildMu.Unlock()

	report := &models.RebuildReport{ID: uuid.New().String(), StartedAt: time.Now()}
	logger := idx.logger.With(zap.String("rebuild_id", report.ID))
	logger.Info("(SEARCH/RAG) rebuilding index")

	pages, err := idx.source.ListPublishedPages(ctx)
	if err != nil {
		logger.Error("(SEARCH/RAG) rebuild aborted", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	report.Fetched = len(pages)

	built := make([]models.IndexedDocument, len(pages))
	failed := make([]error, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			built[i], failed[i] = idx.buildDocument(gctx, page)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rebuild cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rebuild cancelled: %w", err)
	}

	// Keep source order so scan order matches the page source.
	docs := make([]models.IndexedDocument, 0, len(pages))
	for i, page := range pages {
		if failed[i] != nil {
			report.Failed++
			logger.Warn("rebuild skipped page", zap.String("key", page.Key), zap.String("path", page.Path), zap.Error(failed[i]))
			continue
		}
		docs = append(docs, built[i])
	}
	if err := idx.store.ReplaceAll(docs); err != nil {
		return nil, fmt.Errorf("failed to repopulate index: %w", err)
	}
	report.Indexed = len(docs)
	report.Duration = time.Since(report.StartedAt)

	idx.lastMu.Lock()
	idx.lastRebuild = report
	idx.lastMu.Unlock()

	logger.Info("(SEARCH/RAG) index rebuilt successfully",
		zap.Int("fetched", report.Fetched),
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (idx *Indexer) buildDocument(ctx context.Context, page *models.SourcePage) (models.IndexedDocument, error) {
	if page.Key == "" {
		return models.IndexedDocument{}, fmt.Errorf("%w: source page without key", ErrInvalidPage)
	}
	content, err := idx.sanitizer.Sanitize(page.Render)
	if err != nil {
		return models.IndexedDocument{}, fmt.Errorf("sanitize: %w", err)
	}
	fp, err := idx.generator.Fingerprint(ctx, content)
	if err != nil {
		return models.IndexedDocument{}, fmt.Errorf("fingerprint: %w", err)
	}
	if len(fp) != idx.store.Dimensions() {
		return models.IndexedDocument{}, fmt.Errorf("%w: got %d, expected %d", index.ErrDimensionMismatch, len(fp), idx.store.Dimensions())
	}
	return models.IndexedDocument{
		Key:         page.Key,
		Fingerprint: fp,
		Metadata: models.Metadata{
			ID:          page.Key,
			LocaleCode:  page.LocaleCode,
			Path:        page.Path,
			Title:       page.Title,
			Description: page.Description,
		},
	}, nil
}

// LastRebuild returns the report of the most recent successful rebuild, or nil.
func (idx *Indexer) LastRebuild() *models.RebuildReport {
	idx.lastMu.RLock()
	defer idx.lastMu.RUnlock()
	if idx.lastRebuild == nil {
		return nil
	}
	report := *idx.lastRebuild
	return &report
}
