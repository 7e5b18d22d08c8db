package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/normalize"
	"github.com/stencilhq/stencil/internal/schema"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Inputs   string
	SchemaID string
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize deal inputs and preview rendered field values",
		Long: `Coerce and render deal inputs without touching any document:
numeric fields are parsed, derived display fields are composed, and every
unrenderable field is reported as missing.

Example:
  stencil normalize --inputs deal.json --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Inputs, "inputs", "", "deal inputs JSON file (required)")
	cmd.Flags().StringVar(&opts.SchemaID, "schema", schema.SupportedSchemaID, "deal schema id")
	_ = cmd.MarkFlagRequired("inputs")

	return cmd
}

func runNormalize(opts *NormalizeOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	raw, err := loadInputs(out, opts.Inputs)
	if err != nil {
		return err
	}

	result, err := normalize.Normalize(opts.SchemaID, raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "normalization failed", err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{
			"inputs":   result.Inputs,
			"rendered": result.Rendered,
			"missing":  result.Missing,
		})
	}

	paths := make([]string, 0, len(result.Rendered))
	for path := range result.Rendered {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "%-35s %s\n", path, result.Rendered[path])
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "missing: %v\n", result.Missing)
	}
	return nil
}
