package commands

import (
	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create every table in the model",
		Long: `Create every table in the model, then add their foreign keys.

Tables are created in model order. Creating a table that already exists fails
and stops the run; use sync for existing databases.`,
		Example: `  # Create all tables
  schemasync create

  # Print the statements without touching the database
  schemasync create --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show statements without executing them")
	return cmd
}

func runCreate(cmd *cobra.Command, dryRun bool) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entities, err := cc.LoadEntities()
	if err != nil {
		return err
	}

	eng, err := cc.NewEngine(engineOptions{dryRun: dryRun})
	if err != nil {
		return err
	}

	res, runErr := eng.CreateTables(cmd.Context(), entities)
	if err := renderResult(cc.Renderer, res, runErr); err != nil {
		return err
	}
	return runErr
}
