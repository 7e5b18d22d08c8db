package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stencilhq/stencil/internal/placeholder"
	"github.com/stencilhq/stencil/internal/schema"
)

// Result is the outcome of one normalization call.
type Result struct {
	// Inputs is the normalized nested mapping: the raw inputs with numeric
	// fields coerced, derived display fields merged in at their dotted
	// paths, and offer.currency forced to the fixed constant.
	Inputs map[string]any

	// Rendered maps every dotted field path (raw and derived) to its final
	// display string; unresolvable fields carry their missing marker.
	Rendered map[string]string

	// Missing lists, sorted, every field path that rendered as missing.
	Missing []string
}

// Normalize validates schemaID and transforms raw inputs into normalized
// values plus rendered display strings. Field-level parse failures degrade
// to missing markers; only an unsupported schema id is an error.
//
// The caller's raw mapping is never mutated.
func Normalize(schemaID string, raw map[string]any) (*Result, error) {
	if schemaID != schema.SupportedSchemaID {
		return nil, fmt.Errorf("unsupported schema_id: %q", schemaID)
	}

	inputs := deepCopy(raw)
	rendered := map[string]string{}
	missingSet := map[string]struct{}{}

	deepSet(inputs, "offer.currency", Currency)

	renderOrMissing := func(path, value string) {
		if strings.TrimSpace(value) == "" {
			missingSet[path] = struct{}{}
			rendered[path] = placeholder.MissingMarker(path)
			return
		}
		rendered[path] = value
	}

	// issuer.name passes through as trimmed text.
	issuerText := ""
	if v, ok := deepGet(raw, "issuer.name"); ok && v != nil {
		issuerText = strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	renderOrMissing("issuer.name", issuerText)

	// issuer.short_name: explicit value wins; otherwise the conventional
	// short form is the first word of the legal name, lowercased, matching
	// how prospectuses quote it ("talabat").
	shortText := ""
	if v, ok := deepGet(raw, "issuer.short_name"); ok && hasText(v) {
		shortText = strings.TrimSpace(fmt.Sprintf("%v", v))
	} else if issuerText != "" {
		shortText = strings.ToLower(strings.Fields(issuerText)[0])
	}
	renderOrMissing("issuer.short_name", shortText)

	// offer.offer_shares: positive integer count, comma-grouped display.
	sharesText := ""
	if v, ok := deepGet(raw, "offer.offer_shares"); ok && hasText(v) {
		if shares, err := parseInt64(v); err == nil && shares > 0 {
			deepSet(inputs, "offer.offer_shares", shares)
			sharesText = FormatIntCommas(shares)
		}
	}
	renderOrMissing("offer.offer_shares", sharesText)

	// Price bounds render individually for templates that reference them
	// apart; offer.price_range is the all-or-nothing composite, rendered
	// only when both bounds parse and low < high.
	rangeText, lowText, highText := "", "", ""
	var low, high float64
	lowParsed, highParsed := false, false
	if v, ok := deepGet(raw, "offer.price_range_low_aed"); ok && v != nil {
		if f, err := parseDecimal(v); err == nil {
			low, lowParsed = f, true
			deepSet(inputs, "offer.price_range_low_aed", f)
			lowText = FormatAmountAED(f)
		}
	}
	if v, ok := deepGet(raw, "offer.price_range_high_aed"); ok && v != nil {
		if f, err := parseDecimal(v); err == nil {
			high, highParsed = f, true
			deepSet(inputs, "offer.price_range_high_aed", f)
			highText = FormatAmountAED(f)
		}
	}
	if lowParsed && highParsed && low < high {
		rangeText = FormatPriceRangeAED(low, high)
	}
	renderOrMissing("offer.price_range", rangeText)
	renderOrMissing("offer.price_range_low", lowText)
	renderOrMissing("offer.price_range_high", highText)

	// offer.nominal_value_per_share: two-decimal currency amount.
	nominalText := ""
	if v, ok := deepGet(raw, "offer.nominal_value_per_share_aed"); ok && hasText(v) {
		if nominal, err := parseDecimal(v); err == nil {
			deepSet(inputs, "offer.nominal_value_per_share_aed", nominal)
			nominalText = FormatAmountAED(nominal)
		}
	}
	renderOrMissing("offer.nominal_value_per_share", nominalText)

	// offer.percentage_offered: normalized decimal plus percent sign.
	percentText := ""
	if v, ok := deepGet(raw, "offer.percentage_offered"); ok && hasText(v) {
		if percent, err := parseDecimal(v); err == nil {
			deepSet(inputs, "offer.percentage_offered", percent)
			percentText = FormatPercent(percent)
		}
	}
	renderOrMissing("offer.percentage_offered", percentText)

	// Number-to-words rendering is not implemented; the field is always
	// reported missing so drafts flag it for hand-editing.
	renderOrMissing("offer.offer_shares_words", "")

	// Legacy alias: offer.size mirrors the rendered share count.
	rendered["offer.size"] = rendered["offer.offer_shares"]

	// Every rendered value is also readable from the normalized inputs at
	// its own dotted path.
	for path, value := range rendered {
		deepSet(inputs, path, value)
	}

	missing := make([]string, 0, len(missingSet))
	for path := range missingSet {
		missing = append(missing, path)
	}
	sort.Strings(missing)

	return &Result{Inputs: inputs, Rendered: rendered, Missing: missing}, nil
}

// hasText reports whether a raw value is non-nil and non-blank once
// coerced to text.
func hasText(v any) bool {
	return v != nil && strings.TrimSpace(fmt.Sprintf("%v", v)) != ""
}
