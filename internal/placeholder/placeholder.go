// Package placeholder implements the {{dotted.path}} token grammar: token
// extraction from a document, dotted-path resolution against nested value
// mappings, and in-place substitution with missing-value semantics.
package placeholder

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/stencilhq/stencil/internal/doc"
)

// TokenPattern matches a placeholder token and captures its dotted path.
// Malformed tokens (unbalanced braces, illegal path characters) simply never
// match and remain literal text.
var TokenPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// MissingMarkerPattern matches the literal missing-value marker and captures
// the field path inside it.
var MissingMarkerPattern = regexp.MustCompile(`\[\[MISSING:\s*([^\]]+)\]\]`)

// Token renders a dotted path as a placeholder token.
func Token(path string) string {
	return fmt.Sprintf("{{%s}}", path)
}

// MissingMarker renders the missing-value marker for a dotted path.
func MissingMarker(path string) string {
	return fmt.Sprintf("[[MISSING: %s]]", path)
}

// IsMissing reports whether a rendered value is a missing-value marker.
func IsMissing(value string) bool {
	return strings.HasPrefix(value, "[[MISSING:")
}

// Resolve walks path through nested map[string]any levels and returns the
// final value coerced to a trimmed string. It returns the missing marker if
// any segment is absent, an intermediate level is not a mapping, the final
// value is nil, or the coerced string is empty.
func Resolve(mapping map[string]any, path string) string {
	var current any = mapping
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return MissingMarker(path)
		}
		current, ok = m[part]
		if !ok {
			return MissingMarker(path)
		}
	}
	if current == nil {
		return MissingMarker(path)
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", current))
	if text == "" {
		return MissingMarker(path)
	}
	return text
}

// Extract returns the distinct, sorted dotted paths of every placeholder
// token found in the document's body and tables. Extraction reads paragraph
// and table-cell text only; it never mutates the document, so calling it
// twice on the same document yields identical results.
func Extract(d *doc.Document) []string {
	return scan(d, TokenPattern)
}

// ExtractMissingMarkers returns the distinct, sorted field paths of every
// literal [[MISSING: path]] marker in the document's body and tables. This
// catches markers baked in by upstream rendering, not just unresolved
// tokens.
func ExtractMissingMarkers(d *doc.Document) []string {
	return scan(d, MissingMarkerPattern)
}

func scan(d *doc.Document, pattern *regexp.Regexp) []string {
	seen := map[string]struct{}{}
	for container := range doc.Walk(d, doc.WalkOptions{}) {
		for _, p := range container.Paragraphs {
			for _, m := range pattern.FindAllStringSubmatch(p.Text(), -1) {
				seen[strings.TrimSpace(m[1])] = struct{}{}
			}
		}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Replace substitutes every placeholder token in the document's body and
// tables with the value resolved from mapping, splicing replacements through
// the run-span rewriter so formatting around each token survives. Tokens
// that resolve to missing are replaced by their missing marker and their
// paths are returned, sorted.
func Replace(d *doc.Document, mapping map[string]any) []string {
	missing := map[string]struct{}{}
	for container := range doc.Walk(d, doc.WalkOptions{}) {
		for _, p := range container.Paragraphs {
			replaceInParagraph(p, mapping, missing)
		}
	}
	paths := make([]string, 0, len(missing))
	for path := range missing {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// replaceInParagraph resolves and splices tokens one at a time, rescanning
// after each splice because the run layout shifts. Termination holds because
// neither resolved values in practice nor missing markers contain a token.
func replaceInParagraph(p *doc.Paragraph, mapping map[string]any, missing map[string]struct{}) {
	if len(p.Runs) == 0 {
		return
	}
	for {
		m := TokenPattern.FindStringSubmatchIndex(p.Text())
		if m == nil {
			return
		}
		path := strings.TrimSpace(p.Text()[m[2]:m[3]])
		value := Resolve(mapping, path)
		if IsMissing(value) {
			missing[path] = struct{}{}
		}
		if !p.ReplaceSpan(m[0], m[1], value) {
			return
		}
	}
}
