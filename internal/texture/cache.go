package texture

import (
	"image"
	"sync"

	"stereogrammer/internal/imageio"
)

// Resolver resolves a texture or depth map reference to a decoded image.
type Resolver interface {
	Resolve(name string) (*image.NRGBA, error)
}

// Cache is a concurrency-safe image cache backed by an Index. Names the index
// does not know are treated as file paths.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
	load  func(path string) (*image.NRGBA, error)
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a new cache. index may be nil.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
		load:  imageio.Load,
	}
}

// Resolve loads and caches an image by name. Failed loads are cached too, so
// a broken file is only read once per run.
func (c *Cache) Resolve(name string) (*image.NRGBA, error) {
	path := name
	if c.index != nil {
		if p, ok := c.index.ResolvePath(name); ok {
			path = p
		}
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := c.load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
