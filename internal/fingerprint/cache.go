package fingerprint

import (
	"container/list"
	"sync"
)

// Cache is a fixed-capacity LRU of fingerprints keyed by the text they were computed from.
// It owns its fingerprints: Put stores a copy and Get returns a copy, so callers may
// modify what they pass in or get back.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
}

type cacheEntry struct {
	text string
	fp   Fingerprint
}

// NewCache creates a cache holding at most capacity fingerprints.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns a copy of the fingerprint cached for text.
func (c *Cache) Get(text string) (Fingerprint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).fp.Clone(), true
}

// Put caches a copy of fp for text. When the cache is full the least recently used
// entry is evicted and its slot reused.
func (c *Cache) Put(text string, fp Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[text]; ok {
		elem.Value.(*cacheEntry).fp = fp.Clone()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			entry := oldest.Value.(*cacheEntry)
			delete(c.entries, entry.text)
			entry.text, entry.fp = text, fp.Clone()
			c.entries[text] = oldest
			c.order.MoveToFront(oldest)
			return
		}
	}
	c.entries[text] = c.order.PushFront(&cacheEntry{text: text, fp: fp.Clone()})
}

// Len returns the number of cached fingerprints.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
