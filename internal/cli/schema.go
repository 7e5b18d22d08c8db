package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/placeholder"
	"github.com/stencilhq/stencil/internal/schema"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	Template string
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the deal schema or the input form a template needs",
		Long: `Print the supported deal schema. With --template, extract the
template's placeholders and print only the schema fields an operator must
supply, expanding derived placeholders to their raw dependencies.

Example:
  stencil schema
  stencil schema --template template.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Template, "template", "", "template document to derive the form from")

	return cmd
}

func runSchema(opts *SchemaOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := schema.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}

	fields := s.Fields
	if opts.Template != "" {
		template, err := loadDocument(out, opts.Template)
		if err != nil {
			return err
		}
		spec := schema.BuildFormSpec(placeholder.Extract(template), s)
		if opts.Format == "json" {
			return out.Success(spec)
		}
		fields = spec.Fields
	} else if opts.Format == "json" {
		return out.Success(s)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema %s\n", s.SchemaID)
	for _, field := range fields {
		required := " "
		if field.Required {
			required = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %-35s %s\n", required, field.Path, field.Type)
	}
	return nil
}
