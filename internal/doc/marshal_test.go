package doc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	d := &Document{}
	d.Body.Paragraphs = []*Paragraph{
		{Runs: []Run{{Text: "Offer Shares: "}, {Text: "{{offer.offer_shares}}", Style: "bold"}}},
	}
	d.Body.Tables = []*Table{{Rows: []*Row{{Cells: []*Cell{
		{Container: Container{Paragraphs: []*Paragraph{NewParagraph("Issuer")}}},
	}}}}}
	d.Sections = []*Section{{HeaderDefault: &HeaderFooter{
		Container: Container{Paragraphs: []*Paragraph{NewParagraph("header text")}},
	}}}
	return d
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc"+ext)
			original := sampleDocument()

			require.NoError(t, SaveFile(original, path))
			loaded, err := LoadFile(path)
			require.NoError(t, err)

			assert.Equal(t, original, loaded)
			// Token text survives the round trip byte for byte.
			assert.Equal(t, "Offer Shares: {{offer.offer_shares}}", loaded.Body.Paragraphs[0].Text())
		})
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "doc.docx"))
	assert.ErrorContains(t, err, "unsupported extension")
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestClone_IsDeepAndIndependent(t *testing.T) {
	original := sampleDocument()
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Body.Paragraphs[0].Runs[0].Text = "changed"
	clone.Body.Tables[0].Rows[0].Cells[0].Paragraphs[0].Runs[0].Text = "changed"
	clone.Sections[0].HeaderDefault.Paragraphs[0].Runs[0].Text = "changed"

	assert.Equal(t, "Offer Shares: ", original.Body.Paragraphs[0].Runs[0].Text)
	assert.Equal(t, "Issuer", original.Body.Tables[0].Rows[0].Cells[0].Paragraphs[0].Runs[0].Text)
	assert.Equal(t, "header text", original.Sections[0].HeaderDefault.Paragraphs[0].Runs[0].Text)
}

func TestCellText_JoinsParagraphs(t *testing.T) {
	cell := &Cell{}
	cell.AddParagraph("line one")
	cell.AddParagraph("line two")
	assert.Equal(t, "line one\nline two", cell.Text())
}
