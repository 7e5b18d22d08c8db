package doc

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraphFromRuns(texts ...string) *Paragraph {
	p := &Paragraph{}
	for _, t := range texts {
		p.Runs = append(p.Runs, Run{Text: t})
	}
	return p
}

func TestRewriteMatches_SingleRun(t *testing.T) {
	p := paragraphFromRuns("Offer Shares: 3,493,236,093 in total")
	n := RewriteMatches(p, regexp.MustCompile(regexp.QuoteMeta("3,493,236,093")), "{{offer.offer_shares}}")

	assert.Equal(t, 1, n)
	assert.Equal(t, "Offer Shares: {{offer.offer_shares}} in total", p.Text())
	assert.Len(t, p.Runs, 1)
}

func TestRewriteMatches_MatchSplitAcrossRuns(t *testing.T) {
	// The value straddles three runs; the match must collapse into the first
	// overlapping run with the interior blanked and the tail preserved.
	p := paragraphFromRuns("Offer Shares: 3,4", "93,236", ",093 in total")
	n := RewriteMatches(p, regexp.MustCompile(regexp.QuoteMeta("3,493,236,093")), "{{offer.offer_shares}}")

	require.Equal(t, 1, n)
	assert.Equal(t, "Offer Shares: {{offer.offer_shares}} in total", p.Text())
	assert.Len(t, p.Runs, 3, "run count never increases")
	assert.Equal(t, "Offer Shares: {{offer.offer_shares}}", p.Runs[0].Text)
	assert.Equal(t, "", p.Runs[1].Text)
	assert.Equal(t, " in total", p.Runs[2].Text)
}

func TestRewriteMatches_PreservesUnaffectedRunCharacters(t *testing.T) {
	p := paragraphFromRuns("prefix ", "AED 1.30", " suffix")
	original := p.Text()

	n := RewriteMatches(p, regexp.MustCompile(regexp.QuoteMeta("AED 1.30")), "{{x}}")
	require.Equal(t, 1, n)

	// Round-trip property: text equals the original with only the match
	// span replaced.
	assert.Equal(t, "prefix {{x}} suffix", p.Text())
	assert.Equal(t, "prefix ", p.Runs[0].Text)
	assert.Equal(t, " suffix", p.Runs[2].Text)
	assert.NotEqual(t, original, p.Text())
}

func TestRewriteMatches_MultipleMatchesInOneParagraph(t *testing.T) {
	p := paragraphFromRuns("AED 1.30 and AED 1.30 again")
	n := RewriteMatches(p, regexp.MustCompile(regexp.QuoteMeta("AED 1.30")), "X")

	assert.Equal(t, 2, n)
	assert.Equal(t, "X and X again", p.Text())
}

func TestRewriteMatches_NoMatch(t *testing.T) {
	p := paragraphFromRuns("plain boilerplate text")
	n := RewriteMatches(p, regexp.MustCompile(`\d+%`), "X")

	assert.Equal(t, 0, n)
	assert.Equal(t, "plain boilerplate text", p.Text())
}

func TestRewriteMatches_EmptyParagraph(t *testing.T) {
	p := &Paragraph{}
	assert.Equal(t, 0, RewriteMatches(p, regexp.MustCompile("x"), "y"))
}

func TestRewriteMatches_StylesOutsideSpanSurvive(t *testing.T) {
	p := &Paragraph{Runs: []Run{
		{Text: "The issuer ", Style: "plain"},
		{Text: "Talabat Holding plc", Style: "bold"},
		{Text: " offers shares.", Style: "plain"},
	}}
	n := RewriteMatches(p, regexp.MustCompile(regexp.QuoteMeta("Talabat Holding plc")), "{{issuer.name}}")

	require.Equal(t, 1, n)
	assert.Equal(t, "The issuer {{issuer.name}} offers shares.", p.Text())
	assert.Equal(t, "plain", p.Runs[0].Style)
	assert.Equal(t, "bold", p.Runs[1].Style, "replacement lands in the run that began the match")
	assert.Equal(t, "plain", p.Runs[2].Style)
}

func TestReplaceSpan_ZeroLengthSpanIsIgnored(t *testing.T) {
	p := paragraphFromRuns("abc")
	assert.False(t, p.ReplaceSpan(1, 1, "X"))
	assert.Equal(t, "abc", p.Text())
}

func TestReplaceSpan_ExactRunBoundaries(t *testing.T) {
	p := paragraphFromRuns("ab", "cd", "ef")
	require.True(t, p.ReplaceSpan(2, 4, "XY"))
	assert.Equal(t, "abXYef", p.Text())
	assert.Equal(t, []Run{{Text: "ab"}, {Text: "XY"}, {Text: "ef"}}, p.Runs)
}
