package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/classify"
	"github.com/stencilhq/stencil/internal/store"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Issuer      string
	OfferShares int64
	Database    string
	ProjectID   int64
	DocumentID  int64
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <document>",
		Short: "Classify document blocks as boilerplate, deal-specific or mixed",
		Long: `Classify every block of a prospectus document.

Each body paragraph and table cell is labeled boilerplate, deal_specific or
mixed based on lexical and numeric signals. Supplying the issuer name and
offer share count sharpens the deal-specific signals.

Example:
  stencil analyze prospectus.yaml --issuer "Talabat Holding plc" --shares 3493236093
  stencil analyze prospectus.yaml --db stencil.db --project 1 --document 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Issuer, "issuer", "", "issuer legal name hint")
	cmd.Flags().Int64Var(&opts.OfferShares, "shares", 0, "offer share count hint")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for persisting the analysis")
	cmd.Flags().Int64Var(&opts.ProjectID, "project", 0, "project id (required with --db)")
	cmd.Flags().Int64Var(&opts.DocumentID, "document", 0, "source document id (required with --db)")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, path string, cmd *cobra.Command) error {
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

	analysis := classify.Analyze(d, opts.Issuer, opts.OfferShares)
	out.VerboseLog("classified %d blocks", analysis.TotalBlocks)

	if opts.Database != "" {
		if opts.ProjectID == 0 || opts.DocumentID == 0 {
			return NewExitError(ExitCommandError, "--db requires --project and --document")
		}
		if err := persistAnalysis(opts, out, analysis); err != nil {
			return err
		}
	}

	if opts.Format == "json" {
		return out.Success(analysis)
	}

	fmt.Fprintln(cmd.OutOrStdout(), analysis.Summary)
	for _, block := range analysis.Blocks {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-13s %s\n", block.Classification, block.LocationPath)
	}
	return nil
}

func persistAnalysis(opts *AnalyzeOptions, out *OutputFormatter, analysis *classify.Analysis) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to open database", err)
	}
	defer st.Close()

	payload, err := marshalJSON(analysis)
	if err != nil {
		return err
	}

	ctx := context.Background()
	id, err := st.SaveAnalysis(ctx, store.Analysis{
		ProjectID:        opts.ProjectID,
		SourceDocumentID: opts.DocumentID,
		AnalysisJSON:     payload,
	})
	if err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to save analysis", err)
	}
	return st.AppendAudit(ctx, store.AuditEntry{
		Action:     "analysis_saved",
		EntityType: "prospectus_analysis",
		EntityID:   id,
		Details:    analysis.Summary,
	})
}
