package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemasync/internal/codegen"
)

// NewGenCommand creates the gen command.
func NewGenCommand() *cobra.Command {
	var (
		pkg string
		out string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go code that registers the model",
		Long: `Generate a Go file whose init function registers every entity of the
model file with pkg/schema. Programs that import the generated package carry
the model without reading the model file at run time.`,
		Example: `  # Write the registrations to models/models_gen.go
  schemasync gen --package models --out models/models_gen.go

  # Print to stdout
  schemasync gen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutJournal(cmd)

			entities, err := cc.LoadEntities()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := codegen.Generate(&buf, pkg, entities); err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil { //nolint:gosec // generated source is world-readable
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			cc.Renderer.Success(fmt.Sprintf("generated %d entities into %s", len(entities), out))
			return nil
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "models", "Package name of the generated file")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}
