package engine

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/schemasync/internal/inspect"
	"github.com/leapstack-labs/schemasync/pkg/core"
)

// memDB is an in-memory stand-in for SQL Server. It interprets the statements
// the engine generates, answers the catalog queries, and rejects what SQL
// Server rejects: altering a column a constraint depends on, dropping a key
// that a foreign key references, duplicate constraint names.
type memDB struct {
	mu          sync.Mutex
	tables      map[string]*memTable
	constraints map[string]*memConstraint

	connected  bool
	connects   int
	closes     int
	connectErr error
	failOn     func(sql string) error
	execs      []string
}

type memTable struct {
	name    string
	columns []*memColumn
	rows    []map[string]any
}

type memColumn struct {
	name     string
	typ      string
	nullable bool
}

type memConstraint struct {
	name       string
	table      string
	kind       string // PRIMARY KEY, UNIQUE, CHECK, FOREIGN KEY
	columns    []string
	refTable   string
	refColumns []string
	expr       string
}

func newMemDB() *memDB {
	return &memDB{
		tables:      make(map[string]*memTable),
		constraints: make(map[string]*memConstraint),
	}
}

// connector hands out the same database for every call, counting connections.
func (m *memDB) connector() Connector {
	return func(ctx context.Context) (core.Adapter, error) {
		if err := m.Connect(ctx, core.AdapterConfig{}); err != nil {
			return nil, err
		}
		return m, nil
	}
}

func (m *memDB) Connect(_ context.Context, _ core.AdapterConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connects++
	if m.connectErr != nil {
		return m.connectErr
	}
	m.connected = true
	return nil
}

func (m *memDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	m.connected = false
	return nil
}

// mustExec applies setup statements directly, bypassing the engine.
func (m *memDB) mustExec(statements ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range statements {
		if err := m.apply(s, nil); err != nil {
			panic(fmt.Sprintf("setup statement %q: %v", s, err))
		}
	}
}

var (
	reCreateTable = regexp.MustCompile(`^CREATE TABLE (\w+) \((.*)\);$`)
	reColumnDef   = regexp.MustCompile(`^(\w+) (\w+(?:\(\w+\))?)( PRIMARY KEY)?( UNIQUE)?( NOT NULL)?$`)
	reAddFK       = regexp.MustCompile(`^ALTER TABLE (\w+) ADD CONSTRAINT (\w+) FOREIGN KEY \(([^)]*)\) REFERENCES (\w+)\(([^)]*)\)$`)
	reAddPK       = regexp.MustCompile(`^ALTER TABLE (\w+) ADD CONSTRAINT (\w+) PRIMARY KEY \(([^)]*)\)$`)
	reAddUnique   = regexp.MustCompile(`^ALTER TABLE (\w+) ADD CONSTRAINT (\w+) UNIQUE \((\w+)\)$`)
	reAddCheck    = regexp.MustCompile(`^ALTER TABLE (\w+) ADD CONSTRAINT (\w+) CHECK \((.*)\)$`)
	reDrop        = regexp.MustCompile(`^ALTER TABLE (\w+) DROP CONSTRAINT (\w+)$`)
	reAlterColumn = regexp.MustCompile(`^ALTER TABLE (\w+) ALTER COLUMN (\w+) (\S+) (NULL|NOT NULL)$`)
	reAddColumn   = regexp.MustCompile(`^ALTER TABLE (\w+) ADD (\w+) (\S+) (NULL|NOT NULL)$`)
	reInsert      = regexp.MustCompile(`^INSERT INTO (\w+) \(([^)]*)\) VALUES \(([^)]*)\)$`)
	reWord        = regexp.MustCompile(`\w+`)
)

func (m *memDB) Exec(_ context.Context, query string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return fmt.Errorf("database connection not established")
	}
	if m.failOn != nil {
		if err := m.failOn(query); err != nil {
			return err
		}
	}
	if err := m.apply(query, args); err != nil {
		return err
	}
	m.execs = append(m.execs, query)
	return nil
}

func (m *memDB) apply(query string, args []any) error {
	if g := reCreateTable.FindStringSubmatch(query); g != nil {
		return m.createTable(g[1], g[2])
	}
	if g := reAddFK.FindStringSubmatch(query); g != nil {
		return m.addForeignKey(g[1], g[2], splitList(g[3]), g[4], splitList(g[5]))
	}
	if g := reAddPK.FindStringSubmatch(query); g != nil {
		return m.addKey(g[1], g[2], "PRIMARY KEY", splitList(g[3]))
	}
	if g := reAddUnique.FindStringSubmatch(query); g != nil {
		return m.addKey(g[1], g[2], "UNIQUE", []string{g[3]})
	}
	if g := reAddCheck.FindStringSubmatch(query); g != nil {
		return m.addCheck(g[1], g[2], g[3])
	}
	if g := reDrop.FindStringSubmatch(query); g != nil {
		return m.dropConstraint(g[1], g[2])
	}
	if g := reAlterColumn.FindStringSubmatch(query); g != nil {
		return m.alterColumn(g[1], g[2], g[3], g[4] == "NULL")
	}
	if g := reAddColumn.FindStringSubmatch(query); g != nil {
		return m.addColumn(g[1], g[2], g[3], g[4] == "NULL")
	}
	if g := reInsert.FindStringSubmatch(query); g != nil {
		return m.insert(g[1], splitList(g[2]), args)
	}
	return fmt.Errorf("Incorrect syntax near %q", query)
}

func (m *memDB) createTable(name, body string) error {
	if _, ok := m.tables[name]; ok {
		return fmt.Errorf("There is already an object named '%s' in the database.", name)
	}
	t := &memTable{name: name}
	var keys []*memConstraint
	for _, def := range strings.Split(body, ", ") {
		g := reColumnDef.FindStringSubmatch(def)
		if g == nil {
			return fmt.Errorf("Incorrect syntax near %q", def)
		}
		pk, unique, notNull := g[3] != "", g[4] != "", g[5] != ""
		t.columns = append(t.columns, &memColumn{name: g[1], typ: g[2], nullable: !notNull && !pk})
		if pk {
			keys = append(keys, &memConstraint{name: "PK__" + name, table: name, kind: "PRIMARY KEY", columns: []string{g[1]}})
		}
		if unique {
			keys = append(keys, &memConstraint{name: "UQ__" + name + "__" + g[1], table: name, kind: "UNIQUE", columns: []string{g[1]}})
		}
	}
	for _, c := range keys {
		if _, dup := m.constraints[c.name]; dup {
			return fmt.Errorf("There is already an object named '%s' in the database.", c.name)
		}
	}
	m.tables[name] = t
	for _, c := range keys {
		m.constraints[c.name] = c
	}
	return nil
}

func (m *memDB) table(name string) (*memTable, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("Cannot find the object \"%s\" because it does not exist or you do not have permissions.", name)
	}
	return t, nil
}

func (t *memTable) column(name string) *memColumn {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (m *memDB) checkName(name string) error {
	if _, ok := m.constraints[name]; ok {
		return fmt.Errorf("There is already an object named '%s' in the database.", name)
	}
	return nil
}

func (m *memDB) addKey(table, name, kind string, columns []string) error {
	t, err := m.table(table)
	if err != nil {
		return err
	}
	if err := m.checkName(name); err != nil {
		return err
	}
	for _, col := range columns {
		c := t.column(col)
		if c == nil {
			return fmt.Errorf("Column name '%s' does not exist in the target table or view.", col)
		}
		if kind == "PRIMARY KEY" && c.nullable {
			return fmt.Errorf("Cannot define PRIMARY KEY constraint on nullable column in table '%s'.", table)
		}
	}
	if kind == "PRIMARY KEY" && m.primaryKey(table) != nil {
		return fmt.Errorf("Table '%s' already has a primary key defined on it.", table)
	}
	m.constraints[name] = &memConstraint{name: name, table: table, kind: kind, columns: columns}
	return nil
}

func (m *memDB) addCheck(table, name, expr string) error {
	t, err := m.table(table)
	if err != nil {
		return err
	}
	if err := m.checkName(name); err != nil {
		return err
	}
	var cols []string
	for _, w := range reWord.FindAllString(expr, -1) {
		if t.column(w) != nil && !slices.Contains(cols, w) {
			cols = append(cols, w)
		}
	}
	m.constraints[name] = &memConstraint{name: name, table: table, kind: "CHECK", columns: cols, expr: expr}
	return nil
}

func (m *memDB) addForeignKey(table, name string, columns []string, refTable string, refColumns []string) error {
	t, err := m.table(table)
	if err != nil {
		return err
	}
	if err := m.checkName(name); err != nil {
		return err
	}
	for _, col := range columns {
		if t.column(col) == nil {
			return fmt.Errorf("Foreign key '%s' references invalid column '%s' in referencing table '%s'.", name, col, table)
		}
	}
	if _, err := m.table(refTable); err != nil {
		return fmt.Errorf("Foreign key '%s' references invalid table '%s'.", name, refTable)
	}
	if m.keyOn(refTable, refColumns) == nil {
		return fmt.Errorf("There are no primary or candidate keys in the referenced table '%s' that match the referencing column list in the foreign key '%s'.", refTable, name)
	}
	m.constraints[name] = &memConstraint{name: name, table: table, kind: "FOREIGN KEY", columns: columns, refTable: refTable, refColumns: refColumns}
	return nil
}

func (m *memDB) primaryKey(table string) *memConstraint {
	for _, c := range m.constraints {
		if c.table == table && c.kind == "PRIMARY KEY" {
			return c
		}
	}
	return nil
}

func (m *memDB) keyOn(table string, columns []string) *memConstraint {
	for _, c := range m.constraints {
		if c.table == table && (c.kind == "PRIMARY KEY" || c.kind == "UNIQUE") && slices.Equal(c.columns, columns) {
			return c
		}
	}
	return nil
}

func (m *memDB) dropConstraint(table, name string) error {
	c, ok := m.constraints[name]
	if !ok || c.table != table {
		return fmt.Errorf("'%s' is not a constraint.", name)
	}
	if c.kind == "PRIMARY KEY" || c.kind == "UNIQUE" {
		for _, fk := range m.constraints {
			if fk.kind == "FOREIGN KEY" && fk.refTable == table && slices.Equal(fk.refColumns, c.columns) {
				return fmt.Errorf("The constraint '%s' is being referenced by table '%s', foreign key constraint '%s'.", name, fk.table, fk.name)
			}
		}
	}
	delete(m.constraints, name)
	return nil
}

// dependents lists constraints that block altering table.column.
func (m *memDB) dependents(table, column string) []string {
	var names []string
	for _, c := range m.constraints {
		if c.table == table && slices.Contains(c.columns, column) {
			names = append(names, c.name)
		}
		if c.kind == "FOREIGN KEY" && c.refTable == table && slices.Contains(c.refColumns, column) && c.table != table {
			names = append(names, c.name)
		}
	}
	sort.Strings(names)
	return names
}

func (m *memDB) alterColumn(table, column, typ string, nullable bool) error {
	t, err := m.table(table)
	if err != nil {
		return err
	}
	c := t.column(column)
	if c == nil {
		return fmt.Errorf("Cannot find the object \"%s\" because it does not exist.", column)
	}
	if deps := m.dependents(table, column); len(deps) > 0 {
		return fmt.Errorf("The object '%s' is dependent on column '%s'. ALTER TABLE ALTER COLUMN %s failed.", deps[0], column, column)
	}
	if !nullable {
		for _, row := range t.rows {
			if row[column] == nil {
				return fmt.Errorf("Cannot insert the value NULL into column '%s', table '%s'; column does not allow nulls. UPDATE fails.", column, table)
			}
		}
	}
	c.typ = typ
	c.nullable = nullable
	return nil
}

func (m *memDB) addColumn(table, column, typ string, nullable bool) error {
	t, err := m.table(table)
	if err != nil {
		return err
	}
	if t.column(column) != nil {
		return fmt.Errorf("Column names in each table must be unique. Column name '%s' in table '%s' is specified more than once.", column, table)
	}
	if !nullable && len(t.rows) > 0 {
		return fmt.Errorf("ALTER TABLE only allows columns to be added that can contain nulls, or have a DEFAULT definition specified. Column '%s' cannot be added to non-empty table '%s'.", column, table)
	}
	t.columns = append(t.columns, &memColumn{name: column, typ: typ, nullable: nullable})
	return nil
}

func (m *memDB) insert(table string, columns []string, args []any) error {
	t, err := m.table(table)
	if err != nil {
		return err
	}
	values := make(map[string]any)
	for _, a := range args {
		named, ok := a.(sql.NamedArg)
		if !ok {
			return fmt.Errorf("expected named argument, got %T", a)
		}
		values[named.Name] = named.Value
	}
	row := make(map[string]any)
	for _, col := range columns {
		c := t.column(col)
		if c == nil {
			return fmt.Errorf("Invalid column name '%s'.", col)
		}
		v, ok := values[col]
		if !ok {
			return fmt.Errorf("Must declare the scalar variable \"@%s\".", col)
		}
		if v == nil && !c.nullable {
			return fmt.Errorf("Cannot insert the value NULL into column '%s', table '%s'; column does not allow nulls. INSERT fails.", col, table)
		}
		row[col] = v
	}
	t.rows = append(t.rows, row)
	return nil
}

func (m *memDB) Query(_ context.Context, query string, args ...any) (core.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return nil, fmt.Errorf("database connection not established")
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one argument, got %d", len(args))
	}
	table, _ := args[0].(string)

	var data [][]any
	switch query {
	case inspect.ColumnsQuery:
		if t, ok := m.tables[table]; ok {
			for _, c := range t.columns {
				data = append(data, []any{c.name})
			}
		}
	case inspect.PrimaryKeyQuery:
		if pk := m.primaryKey(table); pk != nil {
			for range pk.columns {
				data = append(data, []any{pk.name})
			}
		}
	case inspect.ForeignKeysQuery:
		for _, c := range m.sortedConstraints() {
			if c.table == table && c.kind == "FOREIGN KEY" {
				data = append(data, []any{c.name})
			}
		}
	case inspect.ColumnConstraintsQuery:
		for _, c := range m.sortedConstraints() {
			if c.table == table && (c.kind == "UNIQUE" || c.kind == "CHECK") {
				for _, col := range c.columns {
					data = append(data, []any{col, c.name})
				}
			}
		}
		sort.SliceStable(data, func(i, j int) bool { return data[i][0].(string) < data[j][0].(string) })
	case inspect.InboundForeignKeysQuery:
		for _, c := range m.sortedConstraints() {
			if c.kind == "FOREIGN KEY" && c.refTable == table && c.table != table {
				for i := range c.columns {
					data = append(data, []any{c.name, c.table, c.columns[i], c.refColumns[i]})
				}
			}
		}
	default:
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return &memRows{data: data, pos: -1}, nil
}

func (m *memDB) sortedConstraints() []*memConstraint {
	out := make([]*memConstraint, 0, len(m.constraints))
	for _, c := range m.constraints {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// schema renders the catalog deterministically for comparisons.
func (m *memDB) schema() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "TABLE %s\n", name)
		for _, c := range m.tables[name].columns {
			null := "NOT NULL"
			if c.nullable {
				null = "NULL"
			}
			fmt.Fprintf(&sb, "  %s %s %s\n", c.name, c.typ, null)
		}
	}
	for _, c := range m.sortedConstraints() {
		fmt.Fprintf(&sb, "%s %s %s(%s)", c.kind, c.name, c.table, strings.Join(c.columns, ", "))
		if c.kind == "FOREIGN KEY" {
			fmt.Fprintf(&sb, " -> %s(%s)", c.refTable, strings.Join(c.refColumns, ", "))
		}
		if c.expr != "" {
			fmt.Fprintf(&sb, " CHECK (%s)", c.expr)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *memDB) hasConstraint(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.constraints[name]
	return ok
}

func (m *memDB) rows(table string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[table]; ok {
		return t.rows
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimPrefix(strings.TrimSpace(parts[i]), "@")
	}
	return parts
}

type memRows struct {
	data [][]any
	pos  int
}

func (r *memRows) Next() bool {
	r.pos++
	return r.pos < len(r.data)
}

func (r *memRows) Scan(dest ...any) error {
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destination arguments in Scan, not %d", len(row), len(dest))
	}
	for i, d := range dest {
		p, ok := d.(*string)
		if !ok {
			return fmt.Errorf("unsupported scan destination %T", d)
		}
		*p = row[i].(string)
	}
	return nil
}

func (r *memRows) Err() error   { return nil }
func (r *memRows) Close() error { return nil }
