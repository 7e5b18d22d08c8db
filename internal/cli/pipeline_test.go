package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilhq/stencil/internal/doc"
	"github.com/stencilhq/stencil/internal/testutil"
)

// writeFixture saves the shared document fixture and a matching inputs file
// into dir, returning their paths.
func writeFixture(t *testing.T, dir string) (docPath, inputsPath string) {
	t.Helper()

	docPath = filepath.Join(dir, "prospectus.yaml")
	require.NoError(t, doc.SaveFile(testutil.TalabatLikeDocument(), docPath))

	inputs := map[string]any{
		"schema_id": "talabat_v1",
		"issuer":    map[string]any{"name": "Talabat Holding plc"},
		"offer": map[string]any{
			"offer_shares":                3493236093,
			"percentage_offered":          15.0,
			"nominal_value_per_share_aed": 1.0,
			"price_range_low_aed":         1.3,
			"price_range_high_aed":        1.5,
		},
	}
	data, err := json.Marshal(inputs)
	require.NoError(t, err)
	inputsPath = filepath.Join(dir, "deal.json")
	require.NoError(t, os.WriteFile(inputsPath, data, 0o644))
	return docPath, inputsPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	docPath, _ := writeFixture(t, dir)

	out, err := execute(t, "analyze", docPath, "--issuer", "Talabat Holding plc", "--shares", "3493236093")
	require.NoError(t, err)
	assert.Contains(t, out, "Prospectus analysis completed:")
	assert.Contains(t, out, "deal_specific")
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	docPath, _ := writeFixture(t, dir)

	out, err := execute(t, "extract", docPath)
	require.NoError(t, err)
	assert.Contains(t, out, "issuer.name")
	assert.Contains(t, out, "offer.offer_shares")
}

func TestParameterizeCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	docPath, inputsPath := writeFixture(t, dir)

	out, err := execute(t, "parameterize", docPath, "--inputs", inputsPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "placeholders inserted: 10")

	// No template file may appear in dry-run mode.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestParameterizeThenGenerateWithStore(t *testing.T) {
	dir := t.TempDir()
	docPath, inputsPath := writeFixture(t, dir)
	templatePath := filepath.Join(dir, "template.yaml")
	draftPath := filepath.Join(dir, "draft.yaml")
	dbPath := filepath.Join(dir, "stencil.db")

	_, err := execute(t, "parameterize", docPath,
		"--inputs", inputsPath, "--out", templatePath,
		"--db", dbPath, "--name", "IPO Template")
	require.NoError(t, err)

	template, err := doc.LoadFile(templatePath)
	require.NoError(t, err)
	assert.Equal(t, "Offer Shares: {{offer.offer_shares}}", template.Body.Paragraphs[1].Text())

	// A project row is needed before a run can reference it.
	seedProject(t, dbPath)

	out, err := execute(t, "generate", templatePath,
		"--inputs", inputsPath, "--out", draftPath,
		"--db", dbPath, "--project", "1", "--template-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "draft written to")

	draft, err := doc.LoadFile(draftPath)
	require.NoError(t, err)
	text := ""
	for _, p := range draft.Body.Paragraphs {
		text += p.Text() + "\n"
	}
	assert.Contains(t, text, "Offer Shares: 3,493,236,093")
	assert.Contains(t, text, "Offer Price Range: AED 1.30 – AED 1.50")
	assert.Contains(t, text, `(the "Company" or "talabat")`)
	assert.NotContains(t, text, "Missing Information")
}

func TestParameterizeCommandNoMatches(t *testing.T) {
	dir := t.TempDir()
	d := &doc.Document{}
	d.Body.AddParagraph("Entirely generic legal boilerplate with no deal values.")
	docPath := filepath.Join(dir, "static.yaml")
	require.NoError(t, doc.SaveFile(d, docPath))

	inputsPath := filepath.Join(dir, "deal.json")
	require.NoError(t, os.WriteFile(inputsPath, []byte(`{"issuer":{"name":"Nonexistent Corp"}}`), 0o644))

	_, err := execute(t, "parameterize", docPath, "--inputs", inputsPath, "--dry-run")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	_, inputsPath := writeFixture(t, dir)

	out, err := execute(t, "normalize", "--inputs", inputsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "AED 1.30 – AED 1.50")
	assert.Contains(t, out, "3,493,236,093")
	assert.Contains(t, out, "offer.offer_shares_words")
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "schema talabat_v1")
	assert.Contains(t, out, "issuer.name")
}

func TestGenerateCommandRejectsUnknownSchema(t *testing.T) {
	dir := t.TempDir()
	docPath, inputsPath := writeFixture(t, dir)

	_, err := execute(t, "generate", docPath,
		"--inputs", inputsPath, "--out", filepath.Join(dir, "draft.yaml"),
		"--schema", "other_v9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other_v9")
}

func TestGenerateCommandRequiresSchemaFields(t *testing.T) {
	dir := t.TempDir()
	template := &doc.Document{}
	template.Body.AddParagraph("Issuer: {{issuer.name}}")
	templatePath := filepath.Join(dir, "template.yaml")
	require.NoError(t, doc.SaveFile(template, templatePath))

	inputsPath := filepath.Join(dir, "deal.json")
	require.NoError(t, os.WriteFile(inputsPath, []byte(`{"schema_id":"talabat_v1"}`), 0o644))
	draftPath := filepath.Join(dir, "draft.yaml")

	out, err := execute(t, "generate", templatePath,
		"--inputs", inputsPath, "--out", draftPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "issuer.name is required.")
	assert.Contains(t, out, "Error [E002]")

	// Validation blocks the draft from being written.
	_, statErr := os.Stat(draftPath)
	assert.True(t, os.IsNotExist(statErr))
}
