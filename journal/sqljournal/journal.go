package sqljournal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/lending-registry-go/journal"
	"github.com/AntonStoeckl/lending-registry-go/journal/sqljournal/internal/adapters"
	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// Dialect names the SQL flavor a Journal speaks.
type Dialect string

const (
	// DialectPostgres is used by the pgxpool, sql.DB, and sqlx constructors.
	DialectPostgres Dialect = "postgres"

	// DialectSQLite is used by NewJournalFromSQLite.
	DialectSQLite Dialect = "sqlite3"
)

const (
	defaultTableName = "notifications"

	colSequenceNumber   = "sequence_number"
	colNotificationType = "notification_type"
	colItemID           = "item_id"
	colOccurredAt       = "occurred_at"
	colPayload          = "payload"
	colMetadata         = "metadata"

	logMsgBuildQueryFailed     = "failed to build query"
	logMsgDBExecFailed         = "database execution failed"
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgBuildStorableFailed  = "failed to build storable notification from database row"
	logMsgNotificationAppended = "notification appended"
	logMsgQueryCompleted       = "query completed"
	logMsgMigrated             = "journal table ready"
	logMsgSQLExecuted          = "executed sql for: "
	logAttrError               = "error"
	logAttrQuery               = "query"
	logAttrTable               = "table"
	logAttrNotificationType    = "notification_type"
	logAttrNotificationCount   = "notification_count"
	logAttrDurationMS          = "duration_ms"
	logActionAppend            = "append"
	logActionQuery             = "query"
	logActionMigrate           = "migrate"
)

// Journal is a journal.Journal backed by a SQL table.
type Journal struct {
	db        adapters.DBAdapter
	dialect   Dialect
	tableName string
	logger    Logger
}

var _ journal.Journal = Journal{}

type storedRow struct {
	notificationType string
	itemID           int64
	occurredAt       time.Time
	payload          []byte
	metadata         []byte
}

// NewJournalFromPGXPool creates a PostgreSQL Journal on a pgx pool.
func NewJournalFromPGXPool(db *pgxpool.Pool, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapter(db), DialectPostgres, options)
}

// NewJournalFromSQLDB creates a PostgreSQL Journal on a sql.DB, typically opened with the lib/pq driver.
func NewJournalFromSQLDB(db *sql.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), DialectPostgres, options)
}

// NewJournalFromSQLX creates a PostgreSQL Journal on a sqlx.DB.
func NewJournalFromSQLX(db *sqlx.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLXAdapter(db), DialectPostgres, options)
}

// NewJournalFromSQLite creates a SQLite Journal on a sql.DB opened with the go-sqlite3 driver.
func NewJournalFromSQLite(db *sql.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), DialectSQLite, options)
}

func newJournal(db adapters.DBAdapter, dialect Dialect, options []Option) (Journal, error) {
	j := Journal{
		db:        db,
		dialect:   dialect,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(&j); err != nil {
			return Journal{}, err
		}
	}

	return j, nil
}

// TableName returns the name of the journal table.
func (j Journal) TableName() string {
	return j.tableName
}

// Migrate creates the journal table and its item index unless they exist.
func (j Journal) Migrate(ctx context.Context) error {
	statements, err := migrationStatements(j.dialect, j.tableName)
	if err != nil {
		return err
	}

	for _, statement := range statements {
		start := time.Now()
		_, execErr := j.db.Exec(ctx, statement)
		j.logQueryWithDuration(statement, logActionMigrate, time.Since(start))

		if execErr != nil {
			j.logError(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, statement)
			return errors.Join(ErrMigrationFailed, execErr)
		}
	}

	j.logInfo(logMsgMigrated, logAttrTable, j.tableName)

	return nil
}

// Notify implements registry.Notifier by appending the notification with fresh metadata.
func (j Journal) Notify(ctx context.Context, notification registry.Notification) error {
	storable, err := journal.StorableNotificationFrom(notification, journal.BuildMetadata(ctx))
	if err != nil {
		return err
	}

	return j.Append(ctx, storable)
}

// Append inserts one row for storable.
func (j Journal) Append(ctx context.Context, storable journal.StorableNotification) error {
	sqlQuery, err := j.buildInsertQuery(storable)
	if err != nil {
		j.logError(logMsgBuildQueryFailed, logAttrError, err.Error(), logAttrNotificationType, storable.NotificationType)
		return err
	}

	start := time.Now()
	result, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(sqlQuery, logActionAppend, duration)

	if execErr != nil {
		j.logError(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		return errors.Join(ErrAppendingNotificationFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return errors.Join(ErrAppendingNotificationFailed, rowsErr)
	}

	if rowsAffected != 1 {
		return errors.Join(ErrAppendingNotificationFailed, fmt.Errorf("%d rows affected", rowsAffected))
	}

	j.logInfo(logMsgNotificationAppended,
		logAttrNotificationType, storable.NotificationType,
		logAttrDurationMS, registry.ToMilliseconds(duration))

	return nil
}

// Query returns the notifications matching filter, ordered by sequence number.
func (j Journal) Query(ctx context.Context, filter journal.QueryFilter) (journal.StorableNotifications, error) {
	sqlQuery, err := j.buildSelectQuery(filter)
	if err != nil {
		j.logError(logMsgBuildQueryFailed, logAttrError, err.Error())
		return nil, err
	}

	start := time.Now()
	rows, queryErr := j.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		j.logError(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		return nil, errors.Join(ErrQueryingNotificationsFailed, queryErr)
	}
	defer j.closeRows(rows)

	storables, scanErr := j.scanRows(rows)
	if scanErr != nil {
		return nil, scanErr
	}

	j.logInfo(logMsgQueryCompleted,
		logAttrNotificationCount, len(storables),
		logAttrDurationMS, registry.ToMilliseconds(duration))

	return storables, nil
}

func (j Journal) scanRows(rows adapters.DBRows) (journal.StorableNotifications, error) {
	storables := make(journal.StorableNotifications, 0)
	row := storedRow{}

	for rows.Next() {
		if err := rows.Scan(&row.notificationType, &row.itemID, &row.occurredAt, &row.payload, &row.metadata); err != nil {
			j.logError(logMsgScanRowFailed, logAttrError, err.Error())
			return nil, errors.Join(ErrScanningDBRowFailed, err)
		}

		storable, err := journal.BuildStorableNotification(
			row.notificationType,
			registry.ItemID(row.itemID),
			row.occurredAt,
			row.payload,
			row.metadata,
		)
		if err != nil {
			j.logError(logMsgBuildStorableFailed, logAttrError, err.Error(), logAttrNotificationType, row.notificationType)
			return nil, errors.Join(ErrScanningDBRowFailed, err)
		}

		storables = append(storables, storable)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryingNotificationsFailed, err)
	}

	return storables, nil
}

func (j Journal) closeRows(rows adapters.DBRows) {
	if err := rows.Close(); err != nil && j.logger != nil {
		j.logger.Warn(logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

func (j Journal) buildInsertQuery(storable journal.StorableNotification) (string, error) {
	sqlQuery, _, err := goqu.Dialect(string(j.dialect)).
		Insert(j.tableName).
		Rows(goqu.Record{
			colNotificationType: storable.NotificationType,
			colItemID:           int64(storable.ItemID),
			colOccurredAt:       storable.OccurredAt,
			colPayload:          string(storable.PayloadJSON),
			colMetadata:         string(storable.MetadataJSON),
		}).
		ToSQL()
	if err != nil {
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (j Journal) buildSelectQuery(filter journal.QueryFilter) (string, error) {
	selectStmt := goqu.Dialect(string(j.dialect)).
		From(j.tableName).
		Select(colNotificationType, colItemID, colOccurredAt, colPayload, colMetadata).
		Order(goqu.I(colSequenceNumber).Asc())

	if itemID, ok := filter.ItemID(); ok {
		selectStmt = selectStmt.Where(goqu.C(colItemID).Eq(int64(itemID)))
	}

	if notificationTypes := filter.NotificationTypes(); len(notificationTypes) > 0 {
		selectStmt = selectStmt.Where(goqu.C(colNotificationType).In(notificationTypes))
	}

	sqlQuery, _, err := selectStmt.ToSQL()
	if err != nil {
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (j Journal) logQueryWithDuration(sqlQuery, action string, duration time.Duration) {
	if j.logger != nil {
		j.logger.Debug(logMsgSQLExecuted+action, logAttrQuery, sqlQuery, logAttrDurationMS, registry.ToMilliseconds(duration))
	}
}

func (j Journal) logInfo(msg string, args ...any) {
	if j.logger != nil {
		j.logger.Info(msg, args...)
	}
}

func (j Journal) logError(msg string, args ...any) {
	if j.logger != nil {
		j.logger.Error(msg, args...)
	}
}
