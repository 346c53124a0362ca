package sqljournal

import "fmt"

const (
	postgresCreateTable = `CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	notification_type TEXT NOT NULL,
	item_id BIGINT NOT NULL,
	occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL
)`

	sqliteCreateTable = `CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
	notification_type TEXT NOT NULL,
	item_id INTEGER NOT NULL,
	occurred_at TIMESTAMP NOT NULL,
	payload TEXT NOT NULL,
	metadata TEXT NOT NULL
)`

	createItemIndex = `CREATE INDEX IF NOT EXISTS %[1]s_item_id_idx ON %[1]s (item_id)`
)

// migrationStatements returns the DDL for tableName, which WithTableName has already validated.
func migrationStatements(dialect Dialect, tableName string) ([]string, error) {
	switch dialect {
	case DialectPostgres:
		return []string{
			fmt.Sprintf(postgresCreateTable, tableName),
			fmt.Sprintf(createItemIndex, tableName),
		}, nil

	case DialectSQLite:
		return []string{
			fmt.Sprintf(sqliteCreateTable, tableName),
			fmt.Sprintf(createItemIndex, tableName),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
}
