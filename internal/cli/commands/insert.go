package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemasync/internal/engine"
	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/leapstack-labs/schemasync/pkg/schema"
)

// NewInsertCommand creates the insert command.
func NewInsertCommand() *cobra.Command {
	var (
		sets   []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "insert <entity>",
		Short: "Insert one record",
		Long: `Insert one record into an entity's table.

Values are given as field=value and parsed by the field's type:
int, string, datetime (RFC 3339) or bool. The literal null inserts NULL,
as does leaving a field out.`,
		Example: `  # Insert a course
  schemasync insert Course --set Id=1 --set CourseName=Algebra

  # Insert a student with no name
  schemasync insert Student --set Id=7 --set Email=42 --set CourseId=1 --set Name=null`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(cmd, args[0], sets, dryRun)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as field=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the statement without executing it")
	return cmd
}

// parseRecord converts field=value pairs into typed values. Names the entity
// lacks are kept as text so the engine reports them.
func parseRecord(entity core.EntityDescriptor, sets []string) (engine.Record, error) {
	record := make(engine.Record, len(sets))
	for _, kv := range sets {
		name, text, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q (expected field=value)", kv)
		}
		f, known := entity.Field(name)
		if !known {
			record[name] = text
			continue
		}
		v, err := schema.ParseValue(f.Type, text)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s.%s: %w", entity.Name, name, err)
		}
		record[name] = v
	}
	return record, nil
}

func runInsert(cmd *cobra.Command, entityName string, sets []string, dryRun bool) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entities, err := cc.LoadEntities()
	if err != nil {
		return err
	}
	entity, err := findEntity(entities, entityName)
	if err != nil {
		return err
	}
	record, err := parseRecord(entity, sets)
	if err != nil {
		return err
	}

	eng, err := cc.NewEngine(engineOptions{dryRun: dryRun})
	if err != nil {
		return err
	}

	res, runErr := eng.AddRecord(cmd.Context(), entity, record)
	if err := renderResult(cc.Renderer, res, runErr); err != nil {
		return err
	}
	return runErr
}
