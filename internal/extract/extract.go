// Package extract scans a source prospectus for known deal-value phrasings
// and seeds default values for parameterization. Everything here is a
// heuristic first-match scan: values found are always overridable by
// explicitly supplied inputs.
package extract

import (
	"regexp"
	"strings"

	"github.com/stencilhq/stencil/internal/doc"
)

// Evidence records where and how confidently a value was found.
type Evidence struct {
	Field        string  `json:"field"`
	LocationPath string  `json:"location_path"`
	Snippet      string  `json:"snippet"`
	Confidence   float64 `json:"confidence"`
}

// Values holds the deal values recovered from a document, keyed by dotted
// schema path. All values are strings in their document form; normalization
// owns coercion.
type Values map[string]string

// Result pairs extracted values with their supporting evidence.
type Result struct {
	Values   Values     `json:"values"`
	Evidence []Evidence `json:"evidence"`
}

// fieldRule is one entry of the ordered phrasing table. Each rule is tried
// against every block in document order; the first match per field wins.
type fieldRule struct {
	field      string
	pattern    *regexp.Regexp
	confidence float64
	// capture maps pattern groups onto one or more (field, value) pairs;
	// nil means group 1 feeds the rule's own field.
	capture func(groups []string) map[string]string
}

var fieldRules = []fieldRule{
	{
		// Legal-entity suffix anchors the issuer name guess.
		field:      "issuer.name",
		pattern:    regexp.MustCompile(`([A-Z][A-Za-z0-9&.,'\- ]+?\s+(?:plc|PLC|PJSC|P\.J\.S\.C\.?|LLC|Ltd\.?|Limited|Inc\.?))(?:\s|\(|,|$)`),
		confidence: 0.6,
	},
	{
		field:      "offer.offer_shares",
		pattern:    regexp.MustCompile(`(?i)\boffer shares:?\s*([\d,]+)`),
		confidence: 0.9,
	},
	{
		field:      "offer.percentage_offered",
		pattern:    regexp.MustCompile(`(?i)\bpercentage offered:?\s*(\d+(?:\.\d+)?)%`),
		confidence: 0.9,
	},
	{
		field:      "offer.nominal_value_per_share_aed",
		pattern:    regexp.MustCompile(`(?i)\bnominal value per share:?\s*AED\s*(\d+(?:\.\d+)?)`),
		confidence: 0.9,
	},
	{
		field:      "offer.price_range_low_aed",
		pattern:    regexp.MustCompile(`(?i)\boffer price range:?\s*AED\s*(\d+(?:\.\d+)?)\s*(?:[-–—]|to)\s*(?:AED\s*)?(\d+(?:\.\d+)?)`),
		confidence: 0.85,
		capture: func(groups []string) map[string]string {
			return map[string]string{
				"offer.price_range_low_aed":  groups[1],
				"offer.price_range_high_aed": groups[2],
			}
		},
	},
}

const snippetLimit = 160

// Extract scans every block of the document in walk order and returns the
// first match per field with its evidence. Explicit user input always takes
// precedence over anything found here; see Merge.
func Extract(d *doc.Document) *Result {
	result := &Result{Values: Values{}}

	scanBlock := func(text, location string) {
		for _, rule := range fieldRules {
			if _, done := result.Values[rule.field]; done {
				continue
			}
			groups := rule.pattern.FindStringSubmatch(text)
			if groups == nil {
				continue
			}
			captured := map[string]string{rule.field: strings.TrimSpace(groups[1])}
			if rule.capture != nil {
				captured = rule.capture(groups)
			}
			for field, value := range captured {
				if _, done := result.Values[field]; done {
					continue
				}
				result.Values[field] = strings.TrimSpace(value)
			}
			result.Evidence = append(result.Evidence, Evidence{
				Field:        rule.field,
				LocationPath: location,
				Snippet:      snippet(text),
				Confidence:   rule.confidence,
			})
		}
	}

	for container, prefix := range doc.Walk(d, doc.WalkOptions{}) {
		for i, p := range container.Paragraphs {
			text := strings.Join(strings.Fields(p.Text()), " ")
			if text == "" {
				continue
			}
			scanBlock(text, doc.ParagraphPath(prefix, i))
		}
	}
	return result
}

func snippet(text string) string {
	if len(text) <= snippetLimit {
		return text
	}
	return text[:snippetLimit]
}

// Merge layers extracted values under explicit inputs: any path already
// holding a non-nil, non-blank value in explicit wins; extracted values fill
// only the gaps. The explicit mapping is not mutated.
func Merge(extracted Values, explicit map[string]any) map[string]any {
	merged := deepCopy(explicit)
	for path, value := range extracted {
		if existing, ok := deepGet(merged, path); ok && existing != nil {
			if text, isText := existing.(string); !isText || strings.TrimSpace(text) != "" {
				continue
			}
		}
		deepSet(merged, path, value)
	}
	return merged
}

func deepCopy(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if m, ok := v.(map[string]any); ok {
			out[k] = deepCopy(m)
			continue
		}
		out[k] = v
	}
	return out
}

func deepGet(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func deepSet(data map[string]any, path string, value any) {
	current := data
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
