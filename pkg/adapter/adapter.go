// Package adapter provides the database gateway contract and its registry.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories and register
// themselves from init().
package adapter

import "github.com/leapstack-labs/schemasync/pkg/core"

// Type aliases for the gateway types defined in pkg/core.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// It is the gateway the schema engine talks to: connect, execute, query, close.
type Adapter interface {
	core.Adapter

	// DriverName returns the database/sql driver the adapter opens connections with.
	DriverName() string
}
