package doc

import (
	"fmt"
	"iter"
)

// WalkOptions controls which regions Walk visits.
type WalkOptions struct {
	// IncludeHeadersFooters adds every present header/footer part of every
	// section (and its tables) to the sequence.
	IncludeHeadersFooters bool
}

// Walk yields every addressable container in the document together with its
// location-path prefix: the body (prefix "document"), every table cell
// recursively through nested tables, and, when requested, all header and
// footer parts under "sections/<i>/<kind>".
//
// The sequence is lazy, finite and restartable; iterating it never mutates
// the document. A document with no paragraphs or tables yields only the
// body container.
func Walk(d *Document, opts WalkOptions) iter.Seq2[*Container, string] {
	return func(yield func(*Container, string) bool) {
		if !walkRegion(&d.Body.Container, "document", yield) {
			return
		}
		if !opts.IncludeHeadersFooters {
			return
		}
		for i, section := range d.Sections {
			for _, kind := range HeaderFooterKinds {
				part := section.Part(kind)
				if part == nil {
					continue
				}
				prefix := fmt.Sprintf("sections/%d/%s", i, kind)
				if !walkRegion(&part.Container, prefix, yield) {
					return
				}
			}
		}
	}
}

// walkRegion yields a region's root container followed by every table cell
// under it, depth-first through nested tables.
func walkRegion(c *Container, prefix string, yield func(*Container, string) bool) bool {
	if !yield(c, prefix) {
		return false
	}
	for i, table := range c.Tables {
		if !walkTable(table, fmt.Sprintf("%s/tables/%d", prefix, i), yield) {
			return false
		}
	}
	return true
}

func walkTable(t *Table, tablePath string, yield func(*Container, string) bool) bool {
	for r, row := range t.Rows {
		for c, cell := range row.Cells {
			cellPath := fmt.Sprintf("%s/rows/%d/cells/%d", tablePath, r, c)
			if !yield(&cell.Container, cellPath) {
				return false
			}
			for n, nested := range cell.Tables {
				if !walkTable(nested, fmt.Sprintf("%s/tables/%d", cellPath, n), yield) {
					return false
				}
			}
		}
	}
	return true
}

// ParagraphPath returns the location path of the paragraph at index i inside
// the container addressed by prefix.
func ParagraphPath(prefix string, i int) string {
	return fmt.Sprintf("%s/paragraphs/%d", prefix, i)
}

// TextBoxParts counts the drawing text-box parts across the body and every
// header/footer part. Run-level rewriting cannot reach text-box content, so
// callers surface this count as a "potentially skipped" signal.
func TextBoxParts(d *Document) int {
	total := d.Body.TextBoxes
	for _, section := range d.Sections {
		for _, kind := range HeaderFooterKinds {
			if part := section.Part(kind); part != nil {
				total += part.TextBoxes
			}
		}
	}
	return total
}
