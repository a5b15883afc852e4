// Package cache provides a content-addressed Redis memoization layer for
// Sanskrit verse parsing.
//
// Cache keys are derived from a truncated SHA-256 digest of the source text
// under the "sanskrit_parse:" namespace, so byte-identical content always
// resolves to the same entry. Values are stored as JSON with a Redis-native
// TTL; there is no local eviction and no consistency guarantee beyond
// last-write-wins.
//
// The cache fails open: if Redis is unreachable when New runs, the instance
// is permanently disabled and every operation becomes a safe no-op, letting
// parsing continue uncached. Runtime backend errors are likewise absorbed
// per call and reported as misses.
//
// Wrap adapts any parse function into a memoized one:
//
//	c := cache.New(cache.Config{}, logger)
//	parse := cache.Wrap(c, parseVerse)
//	rec, err := parse(ctx, verseText)
package cache
