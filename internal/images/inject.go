package images

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of distinct queries resolved at once.
const DefaultConcurrency = 4

// placeholderTag matches "[IMAGE: <query>]". Tags do not nest.
var placeholderTag = regexp.MustCompile(`\[IMAGE:\s*(.*?)\]`)

// Tag returns the literal placeholder text that is replaced for query.
func Tag(query string) string { return "[IMAGE: " + query + "]" }

// Queries returns the distinct placeholder queries in doc in first-seen
// order. Queries are compared exactly as captured.
func Queries(doc string) []string {
	matches := placeholderTag.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		q := m[1]
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

// Injector replaces image placeholder tags with resolved URLs.
type Injector struct {
	resolver    Resolver
	concurrency int
}

// NewInjector returns an Injector that resolves up to concurrency distinct
// queries at a time. concurrency <= 0 selects DefaultConcurrency; 1 resolves
// queries one at a time.
func NewInjector(r Resolver, concurrency int) *Injector {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Injector{resolver: r, concurrency: concurrency}
}

// Inject resolves every distinct placeholder query in doc exactly once and
// replaces each literal Tag(query) with its URL. A document without
// placeholders is returned unchanged and the resolver is never called.
//
// A tag written without the single space, e.g. "[IMAGE:cats]", is still
// resolved but its literal text does not equal Tag("cats"), so it is left in
// place.
func (in *Injector) Inject(ctx context.Context, doc string) string {
	queries := Queries(doc)
	if len(queries) == 0 {
		return doc
	}
	zerolog.Ctx(ctx).Info().Strs("queries", queries).Msg("found image requests")

	urls := make([]string, len(queries))
	var g errgroup.Group
	g.SetLimit(in.concurrency)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			urls[i] = in.resolver.Resolve(ctx, q)
			return nil
		})
	}
	_ = g.Wait()

	pairs := make([]string, 0, 2*len(queries))
	for i, q := range queries {
		pairs = append(pairs, Tag(q), urls[i])
	}
	return strings.NewReplacer(pairs...).Replace(doc)
}
