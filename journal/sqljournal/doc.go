// Package sqljournal stores registry notifications in a SQL table, one row per notification.
//
// PostgreSQL is supported through pgxpool.Pool, sql.DB (lib/pq), and sqlx.DB; SQLite through sql.DB (go-sqlite3).
// All statements are built with goqu for the matching dialect. Rows are read back ordered by their
// sequence number, so a Journal returns notifications in the order the registry raised them.
//
// Typical wiring:
//
//	j, err := sqljournal.NewJournalFromPGXPool(pool, sqljournal.WithTableName("lending_notifications"))
//	...
//	err = j.Migrate(ctx)
//	...
//	r, err := registry.NewLendingRegistry(registry.NewCatalog(), registry.NewBorrowLedger(), registry.WithNotifier(j))
package sqljournal
