package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/extract"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <document>",
		Short: "Recover deal values from a prospectus document",
		Long: `Scan a prospectus for known deal-value phrasings and report the
recovered values with location evidence. Values are returned in their
document form; run them through normalize before generation.

Example:
  stencil extract prospectus.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runExtract(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	result := extract.Extract(d)
	if opts.Format == "json" {
		return out.Success(result)
	}

	if len(result.Values) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no deal values recognized")
		return nil
	}
	for _, ev := range result.Evidence {
		fmt.Fprintf(cmd.OutOrStdout(), "%-35s %-12q at %s\n", ev.Field, result.Values[ev.Field], ev.LocationPath)
	}
	return nil
}
