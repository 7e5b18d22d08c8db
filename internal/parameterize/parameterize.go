package parameterize

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/stencilhq/stencil/internal/classify"
	"github.com/stencilhq/stencil/internal/doc"
)

// ErrNoReplacements reports that no value pattern matched anywhere in the
// allowed blocks: the source is likely a static prospectus whose textual
// forms do not correspond to the supplied inputs. No template is produced.
var ErrNoReplacements = errors.New(
	"no placeholders inserted: likely a static prospectus with unmatched patterns for the provided inputs")

// FieldCoverage reports matching outcomes for a single field.
type FieldCoverage struct {
	FoundCount      int      `json:"found_count"`
	ReplacedCount   int      `json:"replaced_count"`
	SkippedCount    int      `json:"skipped_count"`
	SampleLocations []string `json:"sample_locations"`
}

// Report is the coverage report for one parameterization call. It is
// JSON-serializable for the caller to persist as opaque metadata.
type Report struct {
	PlaceholderCount   int                       `json:"placeholder_count"`
	Placeholders       []string                  `json:"placeholders"`
	Fields             map[string]*FieldCoverage `json:"fields"`
	Unresolved         []string                  `json:"unresolved"`
	PotentiallySkipped int                       `json:"potentially_skipped"`
	Notes              []string                  `json:"notes"`
	AnalysisCounts     map[classify.Label]int    `json:"analysis_counts"`
}

// Options tunes one parameterization call.
type Options struct {
	// DryRun computes the full coverage report without producing a
	// rewritten document.
	DryRun bool

	// Policy overrides the heuristic patterns; zero value means defaults.
	Policy *RulePolicy
}

const maxSampleLocations = 5

// Parameterize replaces the merged deal values found in the source document
// with placeholder tokens, restricted to blocks classified deal_specific or
// mixed, and reports coverage. The source document is never mutated; the
// rewritten copy is returned (nil under DryRun). If no replacement could be
// made anywhere the call fails with ErrNoReplacements and no document is
// returned.
func Parameterize(source *doc.Document, merged map[string]any, opts Options) (*doc.Document, *Report, error) {
	policy := DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	issuerName, offerShares := issuerHints(merged)
	analysis := classify.Analyze(source, issuerName, offerShares)
	allowed := analysis.AllowedPaths()

	shortName := InferShortName(source, policy)
	rules := BuildRules(merged, shortName, policy)

	target := source.Clone()
	report := &Report{
		Placeholders:   []string{},
		Fields:         map[string]*FieldCoverage{},
		Unresolved:     []string{},
		Notes:          []string{},
		AnalysisCounts: analysis.Counts,
	}

	for _, rule := range rules {
		coverage := applyRule(target, rule, allowed)
		report.Fields[rule.Field] = coverage
		report.PlaceholderCount += coverage.ReplacedCount
		if coverage.ReplacedCount > 0 {
			report.Placeholders = append(report.Placeholders, rule.Placeholder)
		} else {
			report.Unresolved = append(report.Unresolved, rule.Placeholder)
		}
	}
	sort.Strings(report.Placeholders)
	sort.Strings(report.Unresolved)

	report.PotentiallySkipped = doc.TextBoxParts(source)
	if report.PotentiallySkipped > 0 {
		report.Notes = append(report.Notes,
			"document contains text-box content that run-level rewriting cannot reach; review those regions by hand")
	}

	if report.PlaceholderCount == 0 {
		return nil, nil, ErrNoReplacements
	}
	if opts.DryRun {
		return nil, report, nil
	}
	return target, report, nil
}

// applyRule walks the document's body and tables, replacing matches in
// allowed blocks and counting (without applying) matches in disallowed
// ones. An empty allowed set disables scoping entirely.
func applyRule(d *doc.Document, rule Rule, allowed map[string]struct{}) *FieldCoverage {
	coverage := &FieldCoverage{SampleLocations: []string{}}

	for container, prefix := range doc.Walk(d, doc.WalkOptions{}) {
		for i, p := range container.Paragraphs {
			location := paragraphLocation(prefix, i)
			text := p.Text()
			if text == "" {
				continue
			}
			if rule.RequiredContext != nil && !rule.RequiredContext.MatchString(text) {
				continue
			}

			if !locationAllowed(location, allowed) {
				skipped := 0
				for _, pattern := range rule.Patterns {
					skipped += len(pattern.FindAllStringIndex(text, -1))
				}
				if skipped > 0 {
					coverage.FoundCount += skipped
					coverage.SkippedCount += skipped
					addSample(coverage, location)
				}
				continue
			}

			replaced := 0
			for _, pattern := range rule.Patterns {
				replaced += rewritePattern(p, pattern, rule.Placeholder)
			}
			if replaced > 0 {
				coverage.FoundCount += replaced
				coverage.ReplacedCount += replaced
				addSample(coverage, location)
			}
		}
	}
	return coverage
}

// rewritePattern splices the placeholder over each match. When the pattern
// defines a capture group, only group 1's span is replaced; this lets
// integer amount patterns anchor on a non-numeric continuation without
// consuming it.
func rewritePattern(p *doc.Paragraph, pattern *regexp.Regexp, replacement string) int {
	if pattern.NumSubexp() == 0 {
		return doc.RewriteMatches(p, pattern, replacement)
	}
	count := 0
	for {
		m := pattern.FindStringSubmatchIndex(p.Text())
		if m == nil || m[2] < 0 {
			return count
		}
		if !p.ReplaceSpan(m[2], m[3], replacement) {
			return count
		}
		count++
	}
}

func paragraphLocation(prefix string, index int) string {
	return doc.ParagraphPath(prefix, index)
}

func locationAllowed(location string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	if _, ok := allowed[location]; ok {
		return true
	}
	for path := range allowed {
		if strings.HasPrefix(location, path+"/") {
			return true
		}
	}
	return false
}

func addSample(coverage *FieldCoverage, location string) {
	if len(coverage.SampleLocations) >= maxSampleLocations {
		return
	}
	for _, existing := range coverage.SampleLocations {
		if existing == location {
			return
		}
	}
	coverage.SampleLocations = append(coverage.SampleLocations, location)
}
