package sqljournal

import "errors"

var (
	// ErrNilDatabaseConnection is returned when a constructor gets a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when WithTableName gets an empty name.
	ErrEmptyTableName = errors.New("table name must not be empty")

	// ErrInvalidTableName is returned when WithTableName gets a name that is not a lower-case SQL identifier.
	ErrInvalidTableName = errors.New("table name must be a lower-case sql identifier")

	// ErrUnsupportedDialect is returned for a dialect other than postgres or sqlite3.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrBuildingQueryFailed is returned when goqu cannot build a statement.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrMigrationFailed is returned when the journal table cannot be created.
	ErrMigrationFailed = errors.New("creating the journal table failed")

	// ErrAppendingNotificationFailed is returned when a notification cannot be inserted.
	ErrAppendingNotificationFailed = errors.New("appending notification failed")

	// ErrQueryingNotificationsFailed is returned when notifications cannot be selected.
	ErrQueryingNotificationsFailed = errors.New("querying notifications failed")

	// ErrScanningDBRowFailed is returned when a selected row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")
)
