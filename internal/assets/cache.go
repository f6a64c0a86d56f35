// Package assets caches loaded models by name. A Cache is an ordinary value
// owned by whoever creates it (normally an island.Session); there is no
// process-wide instance.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Loader fetches the asset stored at path.
type Loader[T any] interface {
	Load(ctx context.Context, path string) (T, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc[T any] func(ctx context.Context, path string) (T, error)

// Load calls f.
func (f LoaderFunc[T]) Load(ctx context.Context, path string) (T, error) {
	return f(ctx, path)
}

// Cache deduplicates loads by asset name. Concurrent requests for a name
// that is still loading wait for the same load; a failed load is evicted so
// the next request retries it.
type Cache[T any] struct {
	loader Loader[T]

	mu      sync.Mutex
	entries map[string]*entry[T]
}

type entry[T any] struct {
	done chan struct{} // closed once val/err are set
	val  T
	err  error
}

// NewCache creates an empty cache backed by loader.
func NewCache[T any](loader Loader[T]) *Cache[T] {
	return &Cache[T]{
		loader:  loader,
		entries: make(map[string]*entry[T]),
	}
}

// Load returns the asset cached under name, loading it from path on first use.
func (c *Cache[T]) Load(ctx context.Context, name, path string) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[name]; ok {
		c.mu.Unlock()
		return e.wait(ctx)
	}
	e := &entry[T]{done: make(chan struct{})}
	c.entries[name] = e
	c.mu.Unlock()

	val, err := c.loader.Load(ctx, path)

	c.mu.Lock()
	if err != nil {
		delete(c.entries, name)
		e.err = fmt.Errorf("load asset %s from %s: %w", name, path, err)
		slog.Error("asset load failed", "name", name, "path", path, "error", err)
	} else {
		e.val = val
	}
	close(e.done)
	c.mu.Unlock()

	return e.val, e.err
}

func (e *entry[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-e.done:
		return e.val, e.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cached returns the asset for name if it has finished loading successfully.
func (c *Cache[T]) Cached(name string) (T, bool) {
	c.mu.Lock()
	e, ok := c.entries[name]
	c.mu.Unlock()

	var zero T
	if !ok {
		return zero, false
	}
	select {
	case <-e.done:
		if e.err != nil {
			return zero, false
		}
		return e.val, true
	default:
		return zero, false
	}
}

// Len returns the number of names loaded or loading.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
