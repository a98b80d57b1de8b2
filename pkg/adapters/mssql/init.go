// Package mssql provides a Microsoft SQL Server database adapter for schemasync.
//
// This file registers the adapter with the adapter registry under both
// "sqlserver" and "mssql". Import this package with a blank identifier:
//
//	import _ "github.com/leapstack-labs/schemasync/pkg/adapters/mssql"
package mssql

import (
	"log/slog"

	"github.com/leapstack-labs/schemasync/pkg/adapter"
)

func init() {
	adapter.Register(func(logger *slog.Logger) adapter.Adapter { return New(logger) }, "sqlserver", "mssql")
}
