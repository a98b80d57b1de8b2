package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/schemasync/internal/cli/output"
	"github.com/leapstack-labs/schemasync/internal/engine"
	"github.com/leapstack-labs/schemasync/pkg/adapters/mssql"
	"github.com/leapstack-labs/schemasync/pkg/core"
)

func statementInfos(stmts []core.Statement) []output.StatementInfo {
	infos := make([]output.StatementInfo, 0, len(stmts))
	for i, s := range stmts {
		infos = append(infos, output.StatementInfo{Seq: i + 1, Table: s.Table, Kind: string(s.Kind), SQL: s.SQL})
	}
	return infos
}

// renderResult writes the statements an operation issued. runErr is reported
// alongside the partial result; the caller still returns it.
func renderResult(r *output.Renderer, res *engine.Result, runErr error) error {
	if res == nil {
		return nil
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.ResultOutput{
			Operation:  res.Operation,
			RunID:      res.RunID,
			DryRun:     res.DryRun,
			Statements: statementInfos(res.Statements),
		}
		if runErr != nil {
			out.Error = runErr.Error()
			if n, ok := mssql.ErrorNumber(runErr); ok {
				out.ErrorNumber = n
			}
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		renderResultMarkdown(r, res)
	default:
		renderResultText(r, res)
	}

	if runErr != nil {
		msg := res.Operation + " failed"
		if n, ok := mssql.ErrorNumber(runErr); ok {
			msg += " (SQL Server error " + strconv.Itoa(int(n)) + ")"
		}
		r.Error(msg)
		return nil
	}
	r.Success(summary(res))
	return nil
}

func summary(res *engine.Result) string {
	verb := "executed"
	if res.DryRun {
		verb = "planned"
	}
	return fmt.Sprintf("%s completed: %d statements %s", res.Operation, len(res.Statements), verb)
}

func title(res *engine.Result) string {
	t := res.Operation
	if res.DryRun {
		t += " (dry run)"
	}
	return t
}

func renderResultText(r *output.Renderer, res *engine.Result) {
	r.Header(1, title(res))
	for i, s := range res.Statements {
		r.Printf("%3d. %s %s\n", i+1, r.Muted("["+s.Table+"]"), s.SQL)
	}
}

func renderResultMarkdown(r *output.Renderer, res *engine.Result) {
	r.Header(1, title(res))
	if res.RunID != "" {
		r.Println(output.FormatKeyValue("Run", res.RunID))
	}
	r.Println(output.FormatKeyValue("Statements", strconv.Itoa(len(res.Statements))))
	r.Println("")

	if len(res.Statements) == 0 {
		return
	}
	rows := make([][]string, 0, len(res.Statements))
	for i, s := range res.Statements {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Table, string(s.Kind), "`" + s.SQL + "`"})
	}
	r.Table([]string{"#", "Table", "Kind", "SQL"}, rows)
	r.Println("")
}
