package parameterize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stencilhq/stencil/internal/doc"
	"github.com/stencilhq/stencil/internal/placeholder"
)

// Rule is one replacement unit: a field id, the placeholder token it
// inserts, one or more compiled patterns tolerant of formatting variance,
// and an optional required-context gate. Rules are built fresh per
// parameterization call and never persisted.
type Rule struct {
	Field           string
	Placeholder     string
	Patterns        []*regexp.Regexp
	RequiredContext *regexp.Regexp
}

// BuildRules constructs the ordered rule list for the fields present in
// merged inputs. Order matters: the combined price-range pattern runs
// before the single-bound supplements so a full range is captured as one
// placeholder, and the issuer's full name runs before the short name so the
// short name only claims standalone mentions.
func BuildRules(merged map[string]any, shortName string, policy RulePolicy) []Rule {
	var rules []Rule

	if issuer := stringAt(merged, "issuer.name"); issuer != "" {
		rules = append(rules, Rule{
			Field:       "issuer.name",
			Placeholder: placeholder.Token("issuer.name"),
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(regexp.QuoteMeta(issuer)),
				flexibleNamePattern(issuer),
			},
		})
	}

	if shortName != "" {
		rules = append(rules, Rule{
			Field:       "issuer.short_name",
			Placeholder: placeholder.Token("issuer.short_name"),
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(shortName) + `\b`),
			},
		})
	}

	if shares, ok := intAt(merged, "offer.offer_shares"); ok && shares > 0 {
		grouped := formatGroupedInt(shares)
		rules = append(rules, Rule{
			Field:       "offer.offer_shares",
			Placeholder: placeholder.Token("offer.offer_shares"),
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b` + regexp.QuoteMeta(grouped) + `\b`),
			},
		})
	}

	if percent, ok := floatAt(merged, "offer.percentage_offered"); ok {
		rules = append(rules, Rule{
			Field:       "offer.percentage_offered",
			Placeholder: placeholder.Token("offer.percentage_offered"),
			Patterns:    percentPatterns(percent),
		})
	}

	if nominal, ok := floatAt(merged, "offer.nominal_value_per_share_aed"); ok {
		rules = append(rules, Rule{
			Field:           "offer.nominal_value_per_share",
			Placeholder:     placeholder.Token("offer.nominal_value_per_share"),
			Patterns:        aedAmountPatterns(nominal),
			RequiredContext: policy.NominalContext,
		})
	}

	low, lowOK := floatAt(merged, "offer.price_range_low_aed")
	high, highOK := floatAt(merged, "offer.price_range_high_aed")
	if lowOK && highOK {
		rules = append(rules,
			Rule{
				Field:       "offer.price_range",
				Placeholder: placeholder.Token("offer.price_range"),
				Patterns:    []*regexp.Regexp{priceRangePattern(low, high)},
			},
			Rule{
				Field:       "offer.price_range_low",
				Placeholder: placeholder.Token("offer.price_range_low"),
				Patterns:    aedAmountPatterns(low),
			},
			Rule{
				Field:       "offer.price_range_high",
				Placeholder: placeholder.Token("offer.price_range_high"),
				Patterns:    aedAmountPatterns(high),
			},
		)
	}

	return rules
}

// InferShortName scans body paragraphs for the policy's short-name phrasing
// and returns the first capture, or "".
func InferShortName(d *doc.Document, policy RulePolicy) string {
	if policy.ShortName == nil {
		return ""
	}
	for _, p := range d.Body.Paragraphs {
		if m := policy.ShortName.FindStringSubmatch(p.Text()); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// decimalVariants renders a value in its 3/2/1-decimal and trimmed-zero
// forms, longest first so greedier patterns are tried before their
// prefixes.
func decimalVariants(v float64) []string {
	variants := []string{
		strconv.FormatFloat(v, 'f', 3, 64),
		strconv.FormatFloat(v, 'f', 2, 64),
		strconv.FormatFloat(v, 'f', 1, 64),
		strconv.FormatFloat(v, 'f', -1, 64),
	}
	var out []string
	seen := map[string]struct{}{}
	for _, variant := range variants {
		if _, dup := seen[variant]; dup {
			continue
		}
		seen[variant] = struct{}{}
		out = append(out, variant)
	}
	return out
}

// aedAmountPatterns matches "AED <amount>" for every decimal variant.
// Variants without a decimal point guard against matching the integer
// prefix of a longer amount ("AED 1" must not fire inside "AED 1.50") by
// anchoring the amount as capture group 1 and requiring a non-numeric
// continuation; the rule applier replaces only group 1's span when a group
// is present.
func aedAmountPatterns(v float64) []*regexp.Regexp {
	var patterns []*regexp.Regexp
	for _, variant := range decimalVariants(v) {
		escaped := regexp.QuoteMeta(variant)
		if strings.Contains(variant, ".") {
			patterns = append(patterns, regexp.MustCompile(`(?i)AED\s*`+escaped+`\b`))
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)(AED\s*`+escaped+`)(?:[^.0-9]|$)`))
	}
	return patterns
}

// percentPatterns matches "<value>%" for every decimal variant; the
// trailing percent sign makes prefix matches impossible.
func percentPatterns(v float64) []*regexp.Regexp {
	var patterns []*regexp.Regexp
	for _, variant := range decimalVariants(v) {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(variant)+`%`))
	}
	return patterns
}

// priceRangePattern matches the full two-bound range in one span: any low
// variant, a hyphen/en-dash/em-dash or "to" separator, an optional repeated
// currency code, and any high variant.
func priceRangePattern(low, high float64) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`(?i)AED\s*(?:%s)\s*(?:[-–—]|to)\s*(?:AED\s*)?(?:%s)\b`,
		alternation(decimalVariants(low)),
		alternation(decimalVariants(high)),
	))
}

func alternation(variants []string) string {
	escaped := make([]string, len(variants))
	for i, v := range variants {
		escaped[i] = regexp.QuoteMeta(v)
	}
	return strings.Join(escaped, "|")
}

// flexibleNamePattern matches the name case-insensitively with any run of
// whitespace between its words, tolerating line-wrap and double-space
// variance.
func flexibleNamePattern(name string) *regexp.Regexp {
	words := strings.Fields(name)
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(escaped, `\s+`))
}

func formatGroupedInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func stringAt(data map[string]any, path string) string {
	v, ok := deepGet(data, path)
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func intAt(data map[string]any, path string) (int64, bool) {
	v, ok := deepGet(data, path)
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if parsed, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func floatAt(data map[string]any, path string) (float64, bool) {
	v, ok := deepGet(data, path)
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
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

// issuerHints extracts the classifier hints from merged inputs.
func issuerHints(merged map[string]any) (string, int64) {
	issuer := stringAt(merged, "issuer.name")
	shares, _ := intAt(merged, "offer.offer_shares")
	return issuer, shares
}
