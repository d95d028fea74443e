package cache

import (
	"context"
	"log"
)

// WithSnapshot runs the fetch and keeps the snapshot cache in sync: a success
// refreshes the snapshot, a failure falls back to the last snapshot and
// reports it as stale. Cache trouble itself is never fatal; the cache is an
// optimization, not a dependency.
func WithSnapshot[T any](ctx context.Context, email, resource string, run func() ([]T, error)) (items []T, stale bool, err error) {
	items, err = run()
	if err == nil {
		if c, cerr := Open(ctx); cerr == nil {
			_ = c.Put(ctx, email, resource, items)
			_ = c.Close()
		}
		return items, false, nil
	}

	c, cerr := Open(ctx)
	if cerr != nil {
		return nil, false, err
	}
	defer c.Close()

	var cached []T
	if _, ok, gerr := c.Get(ctx, email, resource, &cached); gerr == nil && ok {
		log.Printf("cache: %s fetch failed, serving stale snapshot: %v", resource, err)
		return cached, true, nil
	}
	return nil, false, err
}
