// Package cache holds list/detail results keyed by resource and filters,
// so different bot views can reuse a fetch. Writes never patch cached
// collections: a successful mutation invalidates the affected keys and
// the next read refetches.
package cache

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

type call struct {
	done chan struct{}
	val  any
	err  error
}

type Cache struct {
	mu       sync.RWMutex
	entries  map[string]any
	inflight map[string]*call
}

func New() *Cache {
	return &Cache{
		entries:  make(map[string]any),
		inflight: make(map[string]*call),
	}
}

// Key builds a cache key from a resource name and its query filters. The
// url.Values encoding is canonical (sorted), so equal filter sets always
// map to the same key.
func Key(resource string, query url.Values) string {
	if len(query) == 0 {
		return resource
	}
	return resource + "?" + query.Encode()
}

// Set stores a value for key unconditionally.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Contains reports whether a fresh value exists for key.
func (c *Cache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Invalidate marks the given keys stale.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// InvalidatePrefix marks every key of a resource stale, regardless of the
// filters it was fetched with.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Fetch returns the cached value for key, or runs fn to produce it. At
// most one fn runs per key at a time: concurrent callers for the same key
// wait for the in-flight result instead of issuing duplicate requests.
// Errors are not cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.RLock()
	if v, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		return zero, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		return zero, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			if cl.err != nil {
				return zero, cl.err
			}
			if typed, ok := cl.val.(T); ok {
				return typed, nil
			}
			return zero, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	val, err := fn(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.entries[key] = val
	}
	c.mu.Unlock()

	cl.val, cl.err = val, err
	close(cl.done)

	return val, err
}
