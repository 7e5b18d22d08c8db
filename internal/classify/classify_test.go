package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilhq/stencil/internal/doc"
)

func TestClassify_SignalTable(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		issuer     string
		shares     int64
		wantLabel  Label
		wantSignal string
	}{
		{"issuer exact", "Shares of Talabat Holding plc", "Talabat Holding plc", 0, DealSpecific, "issuer_name_exact"},
		{"issuer casefold", "shares of talabat holding plc", "Talabat Holding plc", 0, DealSpecific, "issuer_name_casefold"},
		{"offer shares", "Total of 3,493,236,093 shares", "", 3493236093, DealSpecific, "offer_shares"},
		{"percentage", "Percentage Offered: 15%", "", 0, DealSpecific, "percentage"},
		{"aed amount", "priced at AED 1.30 per share", "", 0, DealSpecific, "aed_amount"},
		{"comma integer", "1,000,000 units outstanding", "", 0, DealSpecific, "comma_integer"},
		{"date", "listing on 27 November 2024 in Dubai", "", 0, DealSpecific, "date"},
		{"deal keyword", "the nominal value is fixed", "", 0, DealSpecific, "deal_keyword"},
		{"legal heading", "Selling Restrictions", "", 0, Boilerplate, "legal_heading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, signals := Classify(tt.text, tt.issuer, tt.shares)
			assert.Equal(t, tt.wantLabel, label)
			all := append(append([]string{}, signals.DealIndicators...), signals.BoilerplateIndicators...)
			assert.Contains(t, all, tt.wantSignal)
		})
	}
}

func TestClassify_DenseLegalProseIsBoilerplate(t *testing.T) {
	text := strings.Repeat("the offering memorandum shall be construed in accordance with applicable law ", 5)
	label, signals := Classify(text, "", 0)

	assert.Equal(t, Boilerplate, label)
	assert.Contains(t, signals.BoilerplateIndicators, "dense_legal_low_numeric")
	assert.Less(t, signals.NumericDensity, 0.05)
}

func TestClassify_MixedWhenBothFire(t *testing.T) {
	label, signals := Classify("Definitions: the Offer Shares are 3,493,236,093.", "", 3493236093)

	assert.Equal(t, Mixed, label)
	assert.NotEmpty(t, signals.DealIndicators)
	assert.Contains(t, signals.BoilerplateIndicators, "legal_heading")
}

func TestClassify_PrecisionBias(t *testing.T) {
	// Pure boilerplate heading: no deal signal may fire.
	label, signals := Classify("General Information", "", 0)
	require.Equal(t, Boilerplate, label)
	assert.Empty(t, signals.DealIndicators)

	// Issuer match plus percentage can never be boilerplate.
	label, _ = Classify("Talabat Holding plc offers 15% of its shares", "Talabat Holding plc", 0)
	assert.NotEqual(t, Boilerplate, label)
}

func TestAnalyze_WalksBodyAndTables(t *testing.T) {
	d := &doc.Document{}
	d.Body.AddParagraph("Talabat Holding plc (the \"Company\") is offering shares.")
	d.Body.AddParagraph("") // empty blocks are skipped
	d.Body.AddParagraph("Selling Restrictions")
	cell := &doc.Cell{}
	cell.AddParagraph("Offer Shares: 3,493,236,093")
	d.Body.Tables = []*doc.Table{{Rows: []*doc.Row{{Cells: []*doc.Cell{cell}}}}}

	analysis := Analyze(d, "Talabat Holding plc", 3493236093)

	require.Equal(t, 3, analysis.TotalBlocks)
	assert.Equal(t, 2, analysis.Counts[DealSpecific])
	assert.Equal(t, 1, analysis.Counts[Boilerplate])
	assert.Equal(t, 0, analysis.Counts[Mixed])
	assert.Equal(t, "document/paragraphs/0", analysis.Blocks[0].LocationPath)
	assert.Equal(t, "paragraph", analysis.Blocks[0].BlockType)
	assert.Equal(t, "document/tables/0/rows/0/cells/0", analysis.Blocks[2].LocationPath)
	assert.Equal(t, "table_cell", analysis.Blocks[2].BlockType)
	assert.Equal(t,
		"Prospectus analysis completed: 1 boilerplate blocks, 2 deal-specific blocks, 0 mixed blocks.",
		analysis.Summary)
}

func TestAnalyze_AllowedPaths(t *testing.T) {
	d := &doc.Document{}
	d.Body.AddParagraph("Offer Shares: 3,493,236,093")
	d.Body.AddParagraph("General Information")

	allowed := Analyze(d, "", 3493236093).AllowedPaths()
	assert.Contains(t, allowed, "document/paragraphs/0")
	assert.NotContains(t, allowed, "document/paragraphs/1")
}

func TestAnalyze_NormalizesFragmentedWhitespace(t *testing.T) {
	d := &doc.Document{}
	d.Body.Paragraphs = []*doc.Paragraph{{Runs: []doc.Run{
		{Text: "Offer  Shares:"},
		{Text: "  3,493,236,093"},
	}}}

	analysis := Analyze(d, "", 0)
	require.Equal(t, 1, analysis.TotalBlocks)
	assert.Equal(t, "Offer Shares: 3,493,236,093", analysis.Blocks[0].Text)
}

func TestAnalyze_HeadingLevelGuess(t *testing.T) {
	d := &doc.Document{}
	d.Body.Paragraphs = []*doc.Paragraph{
		{Runs: []doc.Run{{Text: "Selling Restrictions"}}, Style: "Heading 2"},
		{Runs: []doc.Run{{Text: "General Information"}}, Style: "Custom Heading"},
		{Runs: []doc.Run{{Text: "Ordinary prose about the offering."}}, Style: "Normal"},
	}
	cell := &doc.Cell{}
	cell.AddParagraph("Offer Shares: 3,493,236,093")
	d.Body.Tables = []*doc.Table{{Rows: []*doc.Row{{Cells: []*doc.Cell{cell}}}}}

	analysis := Analyze(d, "", 0)
	require.Equal(t, 4, analysis.TotalBlocks)
	assert.Equal(t, 2, analysis.Blocks[0].HeadingLevelGuess)
	assert.Equal(t, 1, analysis.Blocks[1].HeadingLevelGuess, "numberless heading style guesses level 1")
	assert.Equal(t, 0, analysis.Blocks[2].HeadingLevelGuess)
	assert.Equal(t, 0, analysis.Blocks[3].HeadingLevelGuess, "table cells carry no heading guess")
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "3,493,236,093", groupDigits(3493236093))
	assert.Equal(t, "950", groupDigits(950))
	assert.Equal(t, "1,000", groupDigits(1000))
}
