package cache

import (
	"io/fs"
	"sync"
	"time"
)

// entry wraps a cached document with the file stamp it was parsed from and
// insertion order tracking.
type entry[T any] struct {
	value     T
	modTime   time.Time
	size      int64
	insertIdx int64
}

// FileCache caches parsed documents keyed by file path. An entry is valid only
// while the file's modification time and size match the stamp recorded by Set,
// so an external rewrite of the file is picked up on the next Get.
// Thread-safe with sync.RWMutex.
type FileCache[T any] struct {
	mu         sync.RWMutex
	items      map[string]entry[T]
	maxEntries int
	nextIdx    int64
}

// New creates a FileCache holding at most maxEntries documents.
func New[T any](maxEntries int) *FileCache[T] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &FileCache[T]{
		items:      make(map[string]entry[T]),
		maxEntries: maxEntries,
	}
}

// Get returns the cached document for path if info still matches the stamp it
// was stored with. A stale entry is removed.
func (c *FileCache[T]) Get(path string, info fs.FileInfo) (T, bool) {
	var zero T

	c.mu.RLock()
	e, ok := c.items[path]
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}

	if !e.modTime.Equal(info.ModTime()) || e.size != info.Size() {
		c.mu.Lock()
		if e2, ok2 := c.items[path]; ok2 && e2.insertIdx == e.insertIdx {
			delete(c.items, path)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores a document parsed from the file described by info.
// Evicts the oldest entry if at capacity.
func (c *FileCache[T]) Set(path string, info fs.FileInfo, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry[T]{
		value:     value,
		modTime:   info.ModTime(),
		size:      info.Size(),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[path]; exists {
		c.items[path] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[path] = e
}

// Invalidate removes the entry for path, if any.
func (c *FileCache[T]) Invalidate(path string) {
	c.mu.Lock()
	delete(c.items, path)
	c.mu.Unlock()
}

// Len returns the number of cached documents.
func (c *FileCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *FileCache[T]) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestIdx != -1 {
		delete(c.items, oldestKey)
	}
}
