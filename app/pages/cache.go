package pages

import (
	"sort"
	"sync"
)

// Cache holds rendered pages by path. Content is immutable after startup, so
// entries never expire.
type Cache struct {
	pages map[string]*Page
	mutex sync.RWMutex
}

func NewCache() *Cache {
	return &Cache{pages: make(map[string]*Page)}
}

func (c *Cache) Get(path string) (*Page, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	page, ok := c.pages[path]
	return page, ok
}

func (c *Cache) Set(page *Page) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.pages[page.Path] = page
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.pages)
}

func (c *Cache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.pages))
	for path := range c.pages {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}
