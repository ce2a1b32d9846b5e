// Package index provides the in-memory document store that backs similarity queries.
package index

import (
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/hyperjump/pagerag/internal/fingerprint"
	"github.com/hyperjump/pagerag/internal/models"
)

// ErrDimensionMismatch is returned when a fingerprint does not have the store's dimension.
var ErrDimensionMismatch = errors.New("fingerprint dimension mismatch")

// Store maps document keys to fingerprints and metadata.
// All mutations take the write lock and complete atomically; scans hold the read lock.
// Scan order is insertion order: replacing a key keeps its position, rekeying moves
// the entry to the end.
type Store struct {
	dimensions int
	docs       map[string]*models.IndexedDocument
	order      []string
	mu         sync.RWMutex
}

// NewStore creates an empty store for fingerprints of the given dimension.
func NewStore(dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &Store{
		dimensions: dimensions,
		docs:       make(map[string]*models.IndexedDocument),
		order:      make([]string, 0),
	}, nil
}

// Dimensions returns the fingerprint length accepted by the store.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// Upsert inserts the document at key or replaces the existing one.
// The fingerprint is copied; the caller keeps ownership of fp.
func (s *Store) Upsert(key string, fp fingerprint.Fingerprint, meta models.Metadata) error {
	if err := s.checkDimensions(fp); err != nil {
		return err
	}
	doc := &models.IndexedDocument{Key: key, Fingerprint: fp.Clone(), Metadata: meta}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(doc)
	return nil
}

// Remove deletes the document at key. It reports whether an entry was removed;
// removing an absent key is a no-op.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(key)
}

// Rekey moves the document at oldKey to newKey, updating its path and locale and
// keeping its fingerprint. Any entry already at newKey is replaced. It reports
// false, leaving the store unchanged, when oldKey is absent.
func (s *Store) Rekey(oldKey, newKey, path, locale string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[oldKey]
	if !ok {
		return false
	}
	s.deleteLocked(oldKey)
	doc.Key = newKey
	doc.Metadata.Path = path
	doc.Metadata.LocaleCode = locale
	s.deleteLocked(newKey)
	s.putLocked(doc)
	return true
}

// Clear removes every document.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*models.IndexedDocument)
	s.order = make([]string, 0)
}

// ReplaceAll clears the store and inserts docs in order, as one atomic step.
// Every fingerprint is validated first; on error the store is left unchanged.
func (s *Store) ReplaceAll(docs []models.IndexedDocument) error {
	for i := range docs {
		if err := s.checkDimensions(docs[i].Fingerprint); err != nil {
			return fmt.Errorf("document %q: %w", docs[i].Key, err)
		}
	}
	fresh := make(map[string]*models.IndexedDocument, len(docs))
	order := make([]string, 0, len(docs))
	for i := range docs {
		doc := &models.IndexedDocument{
			Key:         docs[i].Key,
			Fingerprint: fingerprint.Fingerprint(docs[i].Fingerprint).Clone(),
			Metadata:    docs[i].Metadata,
		}
		if _, exists := fresh[doc.Key]; !exists {
			order = append(order, doc.Key)
		}
		fresh[doc.Key] = doc
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = fresh
	s.order = order
	return nil
}

// Get returns a copy of the document at key.
func (s *Store) Get(key string) (models.IndexedDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return models.IndexedDocument{}, false
	}
	out := *doc
	out.Fingerprint = fingerprint.Fingerprint(doc.Fingerprint).Clone()
	return out, true
}

// Scan returns a sequence over the current documents in insertion order. Each
// iteration holds the read lock until the loop ends, so the loop body must not
// mutate the store. Yielded documents are read-only views.
func (s *Store) Scan() iter.Seq[models.IndexedDocument] {
	return func(yield func(models.IndexedDocument) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		for _, key := range s.order {
			if !yield(*s.docs[key]) {
				return
			}
		}
	}
}

// Size returns the number of documents in the store.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Store) checkDimensions(fp []float32) error {
	if len(fp) != s.dimensions {
		return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(fp), s.dimensions)
	}
	return nil
}

func (s *Store) putLocked(doc *models.IndexedDocument) {
	if _, exists := s.docs[doc.Key]; !exists {
		s.order = append(s.order, doc.Key)
	}
	s.docs[doc.Key] = doc
}

func (s *Store) deleteLocked(key string) bool {
	if _, ok := s.docs[key]; !ok {
		return false
	}
	delete(s.docs, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
