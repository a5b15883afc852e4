package cache

import "context"

// ParseFunc is any single-argument transformation the cache can memoize:
// it maps raw text to a serializable result.
type ParseFunc[T any] func(ctx context.Context, content string) (T, error)

// Wrap turns fn into a transparently memoized version: a hit skips fn
// entirely, a miss computes fn and stores the result under the content's
// derived key. fn needs no awareness of caching.
//
// Errors from fn propagate unmodified and nothing is written for that call.
// With a disabled cache the wrapper degrades to calling fn directly.
//
//	parse := cache.Wrap(c, parser.ParseVerse)
//	rec, err := parse(ctx, verse)
func Wrap[T any](c *Cache, fn ParseFunc[T]) ParseFunc[T] {
	return func(ctx context.Context, content string) (T, error) {
		var cached T
		if c.Get(ctx, content, &cached) {
			return cached, nil
		}

		result, err := fn(ctx, content)
		if err != nil {
			var zero T
			return zero, err
		}

		if err := c.Set(ctx, content, result, 0); err != nil {
			var zero T
			return zero, err
		}
		return result, nil
	}
}
