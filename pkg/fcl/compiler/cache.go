package compiler

import (
	"sort"
	"strings"
	"sync"
)

// Cache memoizes compiled expressions by exact source text plus the
// deterministically ordered extra-identifier set. Entries are pure
// functions of their key: they are never evicted and never mutated
// after insertion, so repeated evaluation against different contexts
// skips re-tokenizing, re-parsing, and re-translating.
//
// Reads take the shared lock; only a miss takes the exclusive lock for
// insertion.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Compiled
}

// NewCache creates an empty expression cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Compiled)}
}

// GetOrCompile returns the cached expression for the key, compiling and
// inserting on a miss. The second result reports whether the call was a
// cache hit. Compilation failures are not cached.
func (c *Cache) GetOrCompile(source string, extras []string) (*Compiled, bool, error) {
	key := cacheKey(source, extras)

	c.mu.RLock()
	compiled, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return compiled, true, nil
	}

	compiled, err := CompileWithExtras(source, extras)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		// Another caller compiled the same source first; keep the
		// original so identical sources share one callable.
		return existing, true, nil
	}
	c.entries[key] = compiled
	return compiled, false, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(source string, extras []string) string {
	if len(extras) == 0 {
		return source
	}
	sorted := make([]string, len(extras))
	copy(sorted, extras)
	sort.Strings(sorted)
	return source + "\x00" + strings.Join(sorted, ",")
}
