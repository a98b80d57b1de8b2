// Package ddl renders SQL Server statements for entity descriptors.
//
// Every function is pure. Constraint names are deterministic functions of
// the table, the column and, for foreign keys, the referenced table.
// Identifiers are emitted unquoted.
package ddl
