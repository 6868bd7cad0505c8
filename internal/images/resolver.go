// Package images resolves image placeholder tags in generated markup to real
// image URLs.
//
//   - resolver.go: Resolver interface and the fallback-only resolver.
//   - fallback.go: placeholder-service URL construction.
//   - pexels.go: Pexels photo search with fallback.
//   - inject.go: placeholder scanning, dedup, and replacement.
//   - metrics.go: Prometheus counters.
package images

import "context"

// Resolver turns a free-text query into an image URL. Implementations never
// fail: when no real image can be found they return FallbackURL(query).
type Resolver interface {
	Resolve(ctx context.Context, query string) string
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, query string) string

// Resolve calls f(ctx, query).
func (f ResolverFunc) Resolve(ctx context.Context, query string) string { return f(ctx, query) }

// Placeholder is a Resolver that always returns the fallback URL.
var Placeholder Resolver = ResolverFunc(func(_ context.Context, query string) string {
	resolvedTotal.WithLabelValues(sourceFallback, reasonNoCredential).Inc()
	return FallbackURL(query)
})
