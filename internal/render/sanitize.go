// Package render turns raw text-generation output into markup that can be served as-is.
package render

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const (
	doctypeMarker = "<!DOCTYPE"
	htmlMarker    = "<html"
)

// fencedBlock matches the first markdown code fence, optionally tagged html.
var fencedBlock = regexp.MustCompile("(?i)```(?:html)?\\s*([\\s\\S]*?)\\s*```")

// Sanitize extracts a renderable document from generator output. The first
// matching rule wins:
//
//  1. everything from the first "<!DOCTYPE" to the end
//  2. everything from the first "<html" to the end
//  3. the contents of the first ``` fence (optionally ```html)
//  4. the whole input
//
// The result is always whitespace-trimmed. Trailing text after the document
// is kept; browsers ignore it.
func Sanitize(ctx context.Context, raw string) string {
	if idx := strings.Index(raw, doctypeMarker); idx != -1 {
		return strings.TrimSpace(raw[idx:])
	}
	if idx := strings.Index(raw, htmlMarker); idx != -1 {
		return strings.TrimSpace(raw[idx:])
	}
	log := zerolog.Ctx(ctx)
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		log.Info().Msg("extracted markup from markdown code fence")
		return strings.TrimSpace(m[1])
	}
	log.Warn().Int("len", len(raw)).Msg("no html markers or code fence found; returning raw output")
	return strings.TrimSpace(raw)
}
