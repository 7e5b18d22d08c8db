package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/extract"
	"github.com/stencilhq/stencil/internal/parameterize"
	"github.com/stencilhq/stencil/internal/store"
)

// ParameterizeOptions holds flags for the parameterize command.
type ParameterizeOptions struct {
	*RootOptions
	Inputs         string
	Output         string
	DryRun         bool
	MergeExtracted bool
	Database       string
	Name           string
}

// NewParameterizeCommand creates the parameterize command.
func NewParameterizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParameterizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parameterize <document>",
		Short: "Replace deal values with placeholders, producing a template",
		Long: `Replace every recognized deal value in a prospectus with a
{{dotted.path}} placeholder and report per-field coverage.

Replacement is scoped to blocks classified deal_specific or mixed. With
--dry-run the coverage report is computed and printed but no template is
written. With --merge-extracted, values recovered from the document itself
fill any gaps in the supplied inputs.

Example:
  stencil parameterize prospectus.yaml --inputs deal.json --out template.yaml
  stencil parameterize prospectus.yaml --inputs deal.json --dry-run --format json
  stencil parameterize prospectus.yaml --inputs deal.json --out template.yaml \
      --db stencil.db --name "IPO Template"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParameterize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Inputs, "inputs", "", "deal inputs JSON file (required)")
	cmd.Flags().StringVar(&opts.Output, "out", "", "template output path (required unless --dry-run)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report coverage without writing a template")
	cmd.Flags().BoolVar(&opts.MergeExtracted, "merge-extracted", false, "fill input gaps with values extracted from the document")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for recording the template")
	cmd.Flags().StringVar(&opts.Name, "name", "", "template name for the store row (required with --db)")
	_ = cmd.MarkFlagRequired("inputs")

	return cmd
}

func runParameterize(opts *ParameterizeOptions, path string, cmd *cobra.Command) error {
	if !opts.DryRun && opts.Output == "" {
		return NewExitError(ExitCommandError, "--out is required unless --dry-run is set")
	}
	if opts.Database != "" && opts.Name == "" {
		return NewExitError(ExitCommandError, "--db requires --name")
	}

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	d, err := loadDocument(out, path)
	if err != nil {
		return err
	}
	merged, err := loadInputs(out, opts.Inputs)
	if err != nil {
		return err
	}
	if opts.MergeExtracted {
		recovered := extract.Extract(d)
		merged = extract.Merge(recovered.Values, merged)
		slog.Debug("merged extracted values", "fields", len(recovered.Values))
	}

	template, report, err := parameterize.Parameterize(d, merged, parameterize.Options{DryRun: opts.DryRun})
	if errors.Is(err, parameterize.ErrNoReplacements) {
		// No-match is an operation failure (exit 1), not a command error.
		return outputError(out, ExitFailure, ErrCodeNoMatch, err.Error(), nil)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "parameterization failed", err)
	}

	sha := ""
	if !opts.DryRun {
		if sha, err = saveDocument(out, template, opts.Output); err != nil {
			return err
		}
		out.VerboseLog("template written to %s", opts.Output)
	}

	if opts.Database != "" && !opts.DryRun {
		if err := recordTemplate(opts, out, report, sha); err != nil {
			return err
		}
	}

	if opts.Format == "json" {
		return out.Success(report)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "placeholders inserted: %d\n", report.PlaceholderCount)
	for _, field := range report.Placeholders {
		fmt.Fprintf(cmd.OutOrStdout(), "  replaced   %s\n", field)
	}
	for _, field := range report.Unresolved {
		fmt.Fprintf(cmd.OutOrStdout(), "  unresolved %s\n", field)
	}
	for _, note := range report.Notes {
		fmt.Fprintf(cmd.OutOrStdout(), "note: %s\n", note)
	}
	return nil
}

func recordTemplate(opts *ParameterizeOptions, out *OutputFormatter, report *parameterize.Report, sha string) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to open database", err)
	}
	defer st.Close()

	payload, err := marshalJSON(report)
	if err != nil {
		return err
	}

	ctx := context.Background()
	tmpl, err := st.SaveTemplate(ctx, store.Template{
		Name:       opts.Name,
		SHA256:     sha,
		FilePath:   opts.Output,
		ReportJSON: payload,
	})
	if err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to save template", err)
	}
	slog.Info("template recorded", "id", tmpl.ID, "version", tmpl.Version)

	return st.AppendAudit(ctx, store.AuditEntry{
		Action:     "template_saved",
		EntityType: "template",
		EntityID:   tmpl.ID,
		Details:    fmt.Sprintf("version %d with %d placeholders", tmpl.Version, report.PlaceholderCount),
	})
}
