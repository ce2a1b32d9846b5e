package fingerprint

import "context"

// CachedGenerator serves repeated texts from an LRU cache in front of another Generator.
type CachedGenerator struct {
	next  Generator
	cache *Cache
}

// NewCachedGenerator wraps next with a cache of the given capacity.
// A capacity <= 0 disables caching and returns next unchanged.
func NewCachedGenerator(next Generator, capacity int) Generator {
	if capacity <= 0 {
		return next
	}
	return &CachedGenerator{next: next, cache: NewCache(capacity)}
}

// Fingerprint returns the cached fingerprint of text, computing it on a miss.
// Returned slices are copies; callers may modify them freely.
func (g *CachedGenerator) Fingerprint(ctx context.Context, text string) (Fingerprint, error) {
	if fp, ok := g.cache.Get(text); ok {
		return fp, nil
	}
	fp, err := g.next.Fingerprint(ctx, text)
	if err != nil {
		return nil, err
	}
	g.cache.Put(text, fp)
	return fp, nil
}

// Dimensions returns the wrapped generator's dimensions.
func (g *CachedGenerator) Dimensions() int {
	return g.next.Dimensions()
}
