// Package testutil provides shared document fixtures for tests.
package testutil

import "github.com/stencilhq/stencil/internal/doc"

// TalabatLikeDocument builds the canonical fixture used across pipeline
// tests: a small prospectus-shaped document with an issuer paragraph, the
// known deal-value phrasings, a table and a header/footer section.
func TalabatLikeDocument() *doc.Document {
	d := &doc.Document{}
	d.Body.AddParagraph("Talabat Holding plc (the \"Company\" or \"talabat\") is offering shares.")
	d.Body.AddParagraph("Offer Shares: 3,493,236,093")
	d.Body.AddParagraph("Percentage Offered: 15%")
	d.Body.AddParagraph("Nominal Value per Share: AED 1.00")
	d.Body.AddParagraph("Offer Price Range: AED 1.30 – AED 1.50")
	d.Body.AddParagraph("Alternative wording: AED 1.30 to AED 1.50")
	d.Body.AddParagraph("Low/High values: AED 1.30 and AED 1.50")

	issuerCell := &doc.Cell{}
	issuerCell.AddParagraph("Issuer")
	nameCell := &doc.Cell{}
	nameCell.AddParagraph("Talabat Holding plc")
	d.Body.Tables = []*doc.Table{{Rows: []*doc.Row{{Cells: []*doc.Cell{issuerCell, nameCell}}}}}

	header := &doc.HeaderFooter{}
	header.AddParagraph("Header token issuer: Talabat Holding plc")
	footer := &doc.HeaderFooter{}
	footer.AddParagraph("Footer token nominal value: AED 1.00")
	d.Sections = []*doc.Section{{HeaderDefault: header, FooterDefault: footer}}

	return d
}

// TalabatInputs returns the explicit deal inputs matching the fixture
// document's values.
func TalabatInputs() map[string]any {
	return map[string]any{
		"issuer": map[string]any{"name": "Talabat Holding plc"},
		"offer": map[string]any{
			"offer_shares":                int64(3493236093),
			"percentage_offered":          15.0,
			"nominal_value_per_share_aed": 1.0,
			"price_range_low_aed":         1.30,
			"price_range_high_aed":        1.50,
		},
	}
}
