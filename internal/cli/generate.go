package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/generate"
	"github.com/stencilhq/stencil/internal/normalize"
	"github.com/stencilhq/stencil/internal/placeholder"
	"github.com/stencilhq/stencil/internal/schema"
	"github.com/stencilhq/stencil/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Inputs     string
	SchemaID   string
	Output     string
	Database   string
	ProjectID  int64
	TemplateID int64
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <template>",
		Short: "Fill a template's placeholders from deal inputs",
		Long: `Normalize the supplied deal inputs and fill every placeholder in
the template. Unresolved fields are listed in a Missing Information block
prepended to the draft.

With --db, the draft is versioned as a project document and a generation
run row records the attempt.

Example:
  stencil generate template.yaml --inputs deal.json --out draft.yaml
  stencil generate template.yaml --inputs deal.json --out draft.yaml \
      --db stencil.db --project 1 --template-id 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Inputs, "inputs", "", "deal inputs JSON file (required)")
	cmd.Flags().StringVar(&opts.SchemaID, "schema", schema.SupportedSchemaID, "deal schema id")
	cmd.Flags().StringVar(&opts.Output, "out", "", "draft output path (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for recording the run")
	cmd.Flags().Int64Var(&opts.ProjectID, "project", 0, "project id (required with --db)")
	cmd.Flags().Int64Var(&opts.TemplateID, "template-id", 0, "template id (required with --db)")
	_ = cmd.MarkFlagRequired("inputs")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runGenerate(opts *GenerateOptions, templatePath string, cmd *cobra.Command) error {
	if opts.Database != "" && (opts.ProjectID == 0 || opts.TemplateID == 0) {
		return NewExitError(ExitCommandError, "--db requires --project and --template-id")
	}

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	template, err := loadDocument(out, templatePath)
	if err != nil {
		return err
	}
	raw, err := loadInputs(out, opts.Inputs)
	if err != nil {
		return err
	}

	result, err := normalize.Normalize(opts.SchemaID, raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "normalization failed", err)
	}
	out.VerboseLog("normalized inputs: %d fields missing", len(result.Missing))

	// Required schema fields referenced by the template must be supplied;
	// optional gaps degrade to missing markers in the draft instead.
	s, err := schema.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}
	spec := schema.BuildFormSpec(placeholder.Extract(template), s)
	if msgs := schema.ValidateRequired(spec.RequiredPaths, raw, result.Rendered); len(msgs) > 0 {
		return outputError(out, ExitFailure, ErrCodeBadInput, strings.Join(msgs, " "), nil)
	}

	draft, missing := generate.Generate(template, result.Inputs)

	sha, err := saveDocument(out, draft, opts.Output)
	if err != nil {
		return err
	}

	if opts.Database != "" {
		if err := recordGeneration(opts, out, raw, result, sha); err != nil {
			return err
		}
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{
			"output_path":    opts.Output,
			"sha256":         sha,
			"missing_fields": missing,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "draft written to %s\n", opts.Output)
	if len(missing) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "missing fields (%d):\n", len(missing))
		for _, field := range missing {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", field)
		}
	}
	return nil
}

// recordGeneration saves the deal profile, versions the draft and completes
// a generation run for it in one store session.
func recordGeneration(opts *GenerateOptions, out *OutputFormatter, raw map[string]any, result *normalize.Result, sha string) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to open database", err)
	}
	defer st.Close()

	inputsJSON, err := marshalJSON(raw)
	if err != nil {
		return err
	}
	normalizedJSON, err := marshalJSON(result.Inputs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	templateID := opts.TemplateID
	profileID, err := st.SaveDealProfile(ctx, store.DealProfile{
		ProjectID:            opts.ProjectID,
		TemplateID:           &templateID,
		SchemaID:             opts.SchemaID,
		InputsRawJSON:        inputsJSON,
		InputsNormalizedJSON: normalizedJSON,
	})
	if err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to save deal profile", err)
	}
	slog.Debug("deal profile saved", "id", profileID)

	run, err := st.CreateRun(ctx, store.GenerationRun{
		ProjectID:  opts.ProjectID,
		TemplateID: opts.TemplateID,
		InputsJSON: inputsJSON,
	})
	if err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to create generation run", err)
	}

	draftDoc, err := st.AddDocument(ctx, store.Document{
		ProjectID: opts.ProjectID,
		DocType:   store.DocTypeDraft,
		FileName:  filepath.Base(opts.Output),
		FilePath:  opts.Output,
		SHA256:    sha,
	})
	if err != nil {
		if failErr := st.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			slog.Error("failed to mark run failed", "error", failErr)
		}
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to version draft document", err)
	}

	if err := st.CompleteRun(ctx, run.ID, draftDoc.ID, opts.Output); err != nil {
		return outputError(out, ExitCommandError, ErrCodeStoreFailure, "failed to complete generation run", err)
	}
	slog.Info("generation recorded", "run_token", run.RunToken, "draft_version", draftDoc.Version)

	return st.AppendAudit(ctx, store.AuditEntry{
		Action:     "draft_generated",
		EntityType: "document",
		EntityID:   draftDoc.ID,
		Details:    fmt.Sprintf("run %s produced version %d", run.RunToken, draftDoc.Version),
	})
}
