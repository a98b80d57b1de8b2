package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemasync/internal/cli/output"
	"github.com/leapstack-labs/schemasync/internal/state"
	"github.com/leapstack-labs/schemasync/pkg/core"
)

// ErrJournalDisabled is returned by history when state_path is empty.
var ErrJournalDisabled = errors.New("run journal is disabled (state_path is empty)")

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show journaled runs",
		Long: `Show runs recorded in the run journal.

Without arguments the most recent runs are listed. With a run ID the run's
statements are shown in the order they were issued.`,
		Example: `  # List the last 20 runs
  schemasync history

  # Show what one run did
  schemasync history 3f1c2a9e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if cc.Journal == nil {
				return ErrJournalDisabled
			}
			if len(args) == 1 {
				return showRun(cmd, cc, args[0])
			}
			return listRuns(cmd, cc, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func runInfo(run *core.Run) output.RunInfo {
	return output.RunInfo{
		ID:          run.ID,
		Operation:   run.Operation,
		Status:      string(run.Status),
		DryRun:      run.DryRun,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Error:       run.Error,
	}
}

func listRuns(cmd *cobra.Command, cc *CommandContext, limit int) error {
	runs, err := cc.Journal.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	r := cc.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]output.RunInfo, 0, len(runs))
		for _, run := range runs {
			infos = append(infos, runInfo(run))
		}
		return r.JSON(infos)
	}

	r.Header(1, fmt.Sprintf("Runs (%d)", len(runs)))
	if len(runs) == 0 {
		r.Println("No runs recorded yet.")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Operation,
			string(run.Status),
			strconv.FormatBool(run.DryRun),
			run.StartedAt.Local().Format(time.DateTime),
		})
	}
	r.Table([]string{"Run", "Operation", "Status", "Dry Run", "Started"}, rows)
	return nil
}

func showRun(cmd *cobra.Command, cc *CommandContext, id string) error {
	ctx := cmd.Context()
	run, err := cc.Journal.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, state.ErrRunNotFound) {
			return fmt.Errorf("%w\nHint: list runs with 'schemasync history'", err)
		}
		return err
	}
	stmts, err := cc.Journal.RunStatements(ctx, id)
	if err != nil {
		return err
	}
	r := cc.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		info := runInfo(run)
		for _, s := range stmts {
			info.Statements = append(info.Statements, output.StatementInfo{Seq: s.Seq, Table: s.Table, Kind: string(s.Kind), SQL: s.SQL})
		}
		return r.JSON(info)
	}

	r.Header(1, "Run "+run.ID)
	r.Println(output.FormatKeyValue("Operation", run.Operation))
	r.Println(output.FormatKeyValue("Status", string(run.Status)))
	r.Println(output.FormatKeyValue("Dry run", strconv.FormatBool(run.DryRun)))
	r.Println(output.FormatKeyValue("Started", run.StartedAt.Local().Format(time.DateTime)))
	if run.CompletedAt != nil {
		r.Println(output.FormatKeyValue("Duration", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()))
	}
	if run.Error != "" {
		r.Println(output.FormatKeyValue("Error", run.Error))
	}
	r.Println("")

	rows := make([][]string, 0, len(stmts))
	for _, s := range stmts {
		rows = append(rows, []string{strconv.Itoa(s.Seq), s.Table, string(s.Kind), s.SQL})
	}
	r.Table([]string{"#", "Table", "Kind", "SQL"}, rows)
	return nil
}
