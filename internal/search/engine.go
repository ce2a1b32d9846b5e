// Package search provides the similarity query engine over the document index.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hyperjump/pagerag/internal/config"
	"github.com/hyperjump/pagerag/internal/fingerprint"
	"github.com/hyperjump/pagerag/internal/index"
	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/internal/vector"
	"go.uber.org/zap"
)

// ErrQueryFailed wraps every failure that happens while answering a query.
// A nil error with an empty result means nothing matched.
var ErrQueryFailed = errors.New("query failed")

// Engine answers top-K similarity queries against a document store.
type Engine struct {
	store     *index.Store
	generator fingerprint.Generator
	maxHits   atomic.Int64
	logger    *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for query failure warnings.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a query engine with the given dependencies.
// A non-positive cfg.MaxHits falls back to config.DefaultMaxHits.
func NewEngine(store *index.Store, generator fingerprint.Generator, cfg *config.SearchConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		store:     store,
		generator: generator,
		logger:    zap.NewNop(),
	}
	maxHits := config.DefaultMaxHits
	if cfg != nil && cfg.MaxHits > 0 {
		maxHits = cfg.MaxHits
	}
	e.maxHits.Store(int64(maxHits))
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxHits returns the configured upper bound on results.
func (e *Engine) MaxHits() int {
	return int(e.maxHits.Load())
}

// SetMaxHits replaces the configured upper bound. Non-positive values are ignored.
func (e *Engine) SetMaxHits(n int) {
	if n > 0 {
		e.maxHits.Store(int64(n))
	}
}

// IndexSize returns the number of documents in the underlying store.
func (e *Engine) IndexSize() int {
	return e.store.Size()
}

// Dimensions returns the fingerprint length of the underlying store.
func (e *Engine) Dimensions() int {
	return e.store.Dimensions()
}

// Query fingerprints text, scores every document that passes the locale and path
// filters, and returns the best matches in descending similarity. Ties keep the
// store's scan order. Suggestions are always empty and TotalHits is the number of
// results returned.
//
// Failures, including panics, are logged as warnings and returned wrapped in ErrQueryFailed.
func (e *Engine) Query(ctx context.Context, text string, opts models.QueryOptions) (result *models.QueryResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: panic: %v", ErrQueryFailed, r)
		}
		if err != nil {
			e.logger.Warn("search engine error",
				zap.String("query", text),
				zap.String("locale", opts.Locale),
				zap.String("path", opts.Path),
				zap.Error(err),
			)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	queryFP, err := e.generator.Fingerprint(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint query: %w", ErrQueryFailed, err)
	}

	matches, err := e.rank(queryFP, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	limit := e.resolveMaxHits(opts.MaxHits)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	result = &models.QueryResult{
		Results:     make([]models.QueryResultItem, 0, len(matches)),
		Suggestions: []string{},
	}
	for _, m := range matches {
		result.Results = append(result.Results, toResultItem(m.doc))
	}
	result.TotalHits = len(result.Results)
	return result, nil
}

type scoredDocument struct {
	doc        models.IndexedDocument
	similarity float64
}

// rank scores the filtered documents and sorts them by similarity, keeping scan order for ties.
// The scan lock is released before sorting.
func (e *Engine) rank(queryFP fingerprint.Fingerprint, opts models.QueryOptions) ([]scoredDocument, error) {
	var (
		matches []scoredDocument
		scanErr error
	)
	for doc := range e.store.Scan() {
		if !matchesFilters(doc.Metadata, opts) {
			continue
		}
		similarity, err := vector.Cosine(queryFP, doc.Fingerprint)
		if err != nil {
			scanErr = fmt.Errorf("score document %q: %w", doc.Key, err)
			break
		}
		matches = append(matches, scoredDocument{doc: doc, similarity: similarity})
	}
	if scanErr != nil {
		return nil, scanErr
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	return matches, nil
}

// matchesFilters reports whether meta passes the locale (exact) and path (prefix) filters.
// An empty filter value matches everything.
func matchesFilters(meta models.Metadata, opts models.QueryOptions) bool {
	if opts.Locale != "" && meta.LocaleCode != opts.Locale {
		return false
	}
	if opts.Path != "" && !strings.HasPrefix(meta.Path, opts.Path) {
		return false
	}
	return true
}

func (e *Engine) resolveMaxHits(requested int) int {
	limit := e.MaxHits()
	if requested > 0 && requested < limit {
		return requested
	}
	return limit
}

func toResultItem(doc models.IndexedDocument) models.QueryResultItem {
	id := doc.Metadata.ID
	if id == "" {
		id = doc.Key
	}
	return models.QueryResultItem{
		ID:          id,
		Locale:      doc.Metadata.LocaleCode,
		Path:        doc.Metadata.Path,
		Title:       doc.Metadata.Title,
		Description: doc.Metadata.Description,
	}
}
