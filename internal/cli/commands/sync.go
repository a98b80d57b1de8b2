package commands

import (
	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	var (
		dryRun  bool
		ordered bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile existing tables with the model",
		Long: `Reconcile existing tables with the model.

For every entity, missing columns are added and existing columns are altered
to the declared type and nullability. Constraints that would block an ALTER
are dropped first and re-created afterwards. Tables are never created or dropped.

With --dry-run the database is still inspected, but mutating statements are
only reported.`,
		Example: `  # Sync all tables
  schemasync sync

  # Preview against the prod environment
  schemasync sync --target prod --dry-run

  # Sync referenced tables before the tables referencing them
  schemasync sync --ordered`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, engineOptions{dryRun: dryRun, ordered: ordered})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Inspect the database but only report mutating statements")
	cmd.Flags().BoolVar(&ordered, "ordered", false, "Sync referenced tables first")
	return cmd
}

func runSync(cmd *cobra.Command, opts engineOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entities, err := cc.LoadEntities()
	if err != nil {
		return err
	}

	eng, err := cc.NewEngine(opts)
	if err != nil {
		return err
	}

	res, runErr := eng.SyncTables(cmd.Context(), entities)
	if err := renderResult(cc.Renderer, res, runErr); err != nil {
		return err
	}
	return runErr
}
