package inspect

// Catalog queries. Each takes the table name as its only parameter (@p1).
const (
	ColumnsQuery = `SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_NAME = @p1`

	PrimaryKeyQuery = `SELECT kc.CONSTRAINT_NAME FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS AS tc ` +
		`INNER JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE AS kc ON tc.CONSTRAINT_NAME = kc.CONSTRAINT_NAME ` +
		`WHERE tc.TABLE_NAME = @p1 AND tc.CONSTRAINT_TYPE = 'PRIMARY KEY'`

	ForeignKeysQuery = `SELECT rc.CONSTRAINT_NAME FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS AS rc ` +
		`INNER JOIN INFORMATION_SCHEMA.TABLE_CONSTRAINTS AS tc ON rc.CONSTRAINT_NAME = tc.CONSTRAINT_NAME ` +
		`WHERE tc.TABLE_NAME = @p1`

	ColumnConstraintsQuery = `SELECT ccu.COLUMN_NAME, tc.CONSTRAINT_NAME FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS AS tc ` +
		`INNER JOIN INFORMATION_SCHEMA.CONSTRAINT_COLUMN_USAGE AS ccu ` +
		`ON tc.CONSTRAINT_NAME = ccu.CONSTRAINT_NAME AND tc.TABLE_NAME = ccu.TABLE_NAME ` +
		`WHERE tc.TABLE_NAME = @p1 AND tc.CONSTRAINT_TYPE IN ('UNIQUE', 'CHECK') ` +
		`ORDER BY ccu.COLUMN_NAME, tc.CONSTRAINT_NAME`

	InboundForeignKeysQuery = `SELECT fk.name, OBJECT_NAME(fk.parent_object_id), ` +
		`COL_NAME(fkc.parent_object_id, fkc.parent_column_id), ` +
		`COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id) ` +
		`FROM sys.foreign_keys AS fk ` +
		`INNER JOIN sys.foreign_key_columns AS fkc ON fk.object_id = fkc.constraint_object_id ` +
		`WHERE fk.referenced_object_id = OBJECT_ID(@p1) AND fk.parent_object_id <> fk.referenced_object_id ` +
		`ORDER BY fk.name, fkc.constraint_column_id`
)
