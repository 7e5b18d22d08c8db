// Package parameterize turns a static prospectus into a placeholder-bearing
// template: it classifies blocks, builds format-tolerant match patterns for
// the merged deal values, replaces matches inside deal-specific and mixed
// blocks only, and reports coverage.
package parameterize

import "regexp"

// RulePolicy holds the heuristic patterns that are policy rather than
// contract: they may under- and over-match on prospectus dialects other
// than the observed one, so callers can override them.
type RulePolicy struct {
	// ShortName captures the issuer's defined short name from a
	// `(the "Company" or "ShortName")` phrasing; capture group 1 is the
	// short name.
	ShortName *regexp.Regexp

	// NominalContext must match somewhere in a paragraph before any
	// nominal-value amount in it is replaced, so unrelated AED amounts
	// are not mistaken for the per-share nominal value.
	NominalContext *regexp.Regexp
}

// DefaultPolicy returns the patterns tuned to the supported prospectus
// dialect.
func DefaultPolicy() RulePolicy {
	return RulePolicy{
		ShortName:      regexp.MustCompile(`(?i)\(\s*the\s+["'“”‘’]Company["'“”‘’]\s+or\s+["'“”‘’]([A-Za-z0-9&.\- ]+)["'“”‘’]\s*\)`),
		NominalContext: regexp.MustCompile(`(?i)nominal value`),
	}
}
