package sqljournal

import "regexp"

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Logger interface for SQL statement logging and error reporting. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring a Journal.
type Option func(*Journal) error

// WithTableName sets the journal table name. It must be a lower-case SQL identifier.
func WithTableName(tableName string) Option {
	return func(j *Journal) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		if !tableNamePattern.MatchString(tableName) {
			return ErrInvalidTableName
		}

		j.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Journal.
//
// Debug level: SQL statements with execution timing
// Info level: notification counts and durations
// Warn level: cleanup failures
// Error level: failures that make an operation fail.
func WithLogger(logger Logger) Option {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}
