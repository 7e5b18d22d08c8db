// Package generate fills a placeholder-bearing template from normalized
// deal inputs and surfaces every unresolved field as a visible
// missing-information block.
package generate

import (
	"sort"

	"github.com/stencilhq/stencil/internal/doc"
	"github.com/stencilhq/stencil/internal/placeholder"
)

// MissingHeading titles the block listing unresolved fields in a draft.
const MissingHeading = "Missing Information"

// Generate resolves every placeholder token in template against the
// normalized input mapping and returns the filled draft plus the sorted
// union of unresolved field paths: tokens that resolved to a missing
// marker and markers already baked into the template text. When any field
// is missing, a heading, a blank paragraph and one marker bullet per field
// are prepended before the draft's existing body paragraphs. The supplied
// template is never mutated.
func Generate(template *doc.Document, normalized map[string]any) (*doc.Document, []string) {
	draft := template.Clone()

	missing := map[string]struct{}{}
	for _, path := range placeholder.Replace(draft, normalized) {
		missing[path] = struct{}{}
	}
	for _, path := range placeholder.ExtractMissingMarkers(draft) {
		missing[path] = struct{}{}
	}

	fields := make([]string, 0, len(missing))
	for path := range missing {
		fields = append(fields, path)
	}
	sort.Strings(fields)

	if len(fields) > 0 {
		prependMissingBlock(draft, fields)
	}
	return draft, fields
}

// prependMissingBlock inserts the missing-information paragraphs ahead of
// the body's existing paragraphs, preserving their order and runs.
func prependMissingBlock(d *doc.Document, fields []string) {
	block := make([]*doc.Paragraph, 0, len(fields)+2)
	block = append(block, doc.NewParagraph(MissingHeading), doc.NewParagraph(""))
	for _, field := range fields {
		block = append(block, doc.NewParagraph("- "+placeholder.MissingMarker(field)))
	}
	d.Body.Paragraphs = append(block, d.Body.Paragraphs...)
}
