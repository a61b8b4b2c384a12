package api

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// responseCache keeps successful GET bodies in a fixed-size LRU. A nil
// cache is valid and never hits, which is how caching is disabled.
type responseCache struct {
	entries *lru.Cache
}

func newResponseCache(size int) (*responseCache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create response cache: %w", err)
	}
	return &responseCache{entries: entries}, nil
}

func cacheKey(method, url string) string {
	return fmt.Sprintf("%s:%s", method, url)
}

func (c *responseCache) get(method, url string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.entries.Get(cacheKey(method, url))
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

func (c *responseCache) add(method, url string, body []byte) {
	if c == nil {
		return
	}
	c.entries.Add(cacheKey(method, url), body)
}
