package images

import "net/url"

// placeholderBase is the placehold.co template used when no photo is available.
const placeholderBase = "https://placehold.co/600x400?text="

// FallbackURL returns a deterministic placeholder-image URL that renders query
// as text. The query is query-escaped, so spaces become '+'.
func FallbackURL(query string) string {
	return placeholderBase + url.QueryEscape(query)
}
