package generate

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilhq/stencil/internal/doc"
	"github.com/stencilhq/stencil/internal/normalize"
	"github.com/stencilhq/stencil/internal/parameterize"
	"github.com/stencilhq/stencil/internal/schema"
	"github.com/stencilhq/stencil/internal/testutil"
)

func TestGenerateFillsPlaceholders(t *testing.T) {
	template := &doc.Document{}
	template.Body.AddParagraph("Issuer: {{issuer.name}}")
	template.Body.AddParagraph("Offer Shares: {{offer.offer_shares}}")
	template.Body.AddParagraph("Legacy Offer Size: {{offer.size}}")
	template.Body.AddParagraph("Offer Price Range: {{offer.price_range}}")
	template.Body.AddParagraph("Undisclosed: {{issuer.country}}")

	result, err := normalize.Normalize(schema.SupportedSchemaID, map[string]any{
		"issuer": map[string]any{"name": "Acme Holdings"},
		"offer": map[string]any{
			"offer_shares":         int64(3493236093),
			"price_range_low_aed":  1.3,
			"price_range_high_aed": 1.5,
		},
	})
	require.NoError(t, err)

	draft, missing := Generate(template, result.Inputs)
	text := bodyText(draft)

	assert.Contains(t, text, "Offer Shares: 3,493,236,093")
	assert.Contains(t, text, "Legacy Offer Size: 3,493,236,093")
	assert.Contains(t, text, "Offer Price Range: AED 1.30 – AED 1.50")
	assert.Contains(t, text, "Issuer: Acme Holdings")
	assert.Contains(t, text, "Missing Information")
	assert.Contains(t, text, "- [[MISSING: issuer.country]]")
	assert.Equal(t, []string{"issuer.country"}, missing)

	// Template untouched.
	assert.Equal(t, "Issuer: {{issuer.name}}", template.Body.Paragraphs[0].Text())
}

func TestGenerateNoMissingBlockWhenComplete(t *testing.T) {
	template := &doc.Document{}
	template.Body.AddParagraph("Issuer: {{issuer.name}}")

	draft, missing := Generate(template, map[string]any{
		"issuer": map[string]any{"name": "Acme Holdings"},
	})
	assert.Empty(t, missing)
	require.Len(t, draft.Body.Paragraphs, 1)
	assert.Equal(t, "Issuer: Acme Holdings", draft.Body.Paragraphs[0].Text())
}

func TestGenerateEmptyBodyGetsOnlyMissingBlock(t *testing.T) {
	template := &doc.Document{}
	cell := &doc.Cell{}
	cell.AddParagraph("{{issuer.country}}")
	template.Body.Tables = []*doc.Table{{Rows: []*doc.Row{{Cells: []*doc.Cell{cell}}}}}

	draft, missing := Generate(template, map[string]any{})
	assert.Equal(t, []string{"issuer.country"}, missing)
	require.Len(t, draft.Body.Paragraphs, 3)
	assert.Equal(t, MissingHeading, draft.Body.Paragraphs[0].Text())
	assert.Equal(t, "", draft.Body.Paragraphs[1].Text())
	assert.Equal(t, "- [[MISSING: issuer.country]]", draft.Body.Paragraphs[2].Text())
	assert.Equal(t, "[[MISSING: issuer.country]]", draft.Body.Tables[0].Rows[0].Cells[0].Text())
}

func TestGenerateUnionsBakedInMarkers(t *testing.T) {
	template := &doc.Document{}
	template.Body.AddParagraph("Share count in words: [[MISSING: offer.offer_shares_words]]")
	template.Body.AddParagraph("Issuer: {{issuer.name}}")

	_, missing := Generate(template, map[string]any{})
	assert.Equal(t, []string{"issuer.name", "offer.offer_shares_words"}, missing)
}

func TestParameterizeThenGenerateRoundTrip(t *testing.T) {
	source := testutil.TalabatLikeDocument()
	template, _, err := parameterize.Parameterize(source, testutil.TalabatInputs(), parameterize.Options{})
	require.NoError(t, err)

	result, err := normalize.Normalize(schema.SupportedSchemaID, map[string]any{
		"issuer": map[string]any{"name": "Talabat Holding plc"},
		"offer": map[string]any{
			"offer_shares":                int64(3493236093),
			"percentage_offered":          15.0,
			"nominal_value_per_share_aed": 1.0,
			"price_range_low_aed":         1.3,
			"price_range_high_aed":        1.5,
		},
	})
	require.NoError(t, err)

	draft, missing := Generate(template, result.Inputs)

	text := bodyText(draft)
	assert.Contains(t, text, "Offer Shares: 3,493,236,093")
	assert.Contains(t, text, "Percentage Offered: 15%")
	assert.Contains(t, text, "Nominal Value per Share: AED 1.00")
	assert.Contains(t, text, "Offer Price Range: AED 1.30 – AED 1.50")

	// Every placeholder the parameterizer inserted resolves, the derived
	// short name and the individual price bounds included.
	assert.Empty(t, missing)
	assert.NotContains(t, text, MissingHeading)
	assert.Contains(t, text, `(the "Company" or "talabat")`)
	assert.Contains(t, text, "Low/High values: AED 1.30 and AED 1.50")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "talabat_draft", []byte(text+"\n"))
}

func bodyText(d *doc.Document) string {
	lines := make([]string, 0, len(d.Body.Paragraphs))
	for _, p := range d.Body.Paragraphs {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}
