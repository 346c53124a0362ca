package config

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings, e.g. LENDING_JOURNAL_DRIVER.
const EnvPrefix = "LENDING"

// Journal drivers.
const (
	DriverMemory       = "memory"
	DriverSQLite       = "sqlite"
	DriverPostgresPGX  = "postgres-pgx"
	DriverPostgresSQL  = "postgres-sql"
	DriverPostgresSQLX = "postgres-sqlx"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	// ErrInvalidSettings is the kind of every settings validation error.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrUnknownDriver is returned for a journal.driver that is not supported.
	ErrUnknownDriver = errors.New("unknown journal driver")

	// ErrMissingDSN is returned when a persistent journal driver has no DSN.
	ErrMissingDSN = errors.New("journal dsn must not be empty")

	// ErrInvalidAdminID is returned when admin_id is not a uuid.
	ErrInvalidAdminID = errors.New("admin_id must be a uuid")

	// ErrUnknownLogFormat is returned for a log.format that is not supported.
	ErrUnknownLogFormat = errors.New("unknown log format")

	// ErrUnknownLogLevel is returned for a log.level that is not supported.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// Settings holds everything lendingctl can be configured with.
type Settings struct {
	Journal   JournalSettings   `mapstructure:"journal"`
	AdminID   string            `mapstructure:"admin_id"`
	Log       LogSettings       `mapstructure:"log"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

// JournalSettings selects where notifications are journaled.
type JournalSettings struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// LogSettings configures the slog handler.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetrySettings configures the OpenTelemetry providers.
type TelemetrySettings struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Journal: JournalSettings{
			Driver: DriverSQLite,
			DSN:    "lending.db",
			Table:  "notifications",
		},
		AdminID: uuid.Nil.String(),
		Log: LogSettings{
			Level:  "warn",
			Format: LogFormatText,
		},
		Telemetry: TelemetrySettings{
			Enabled:     false,
			ServiceName: "lendingctl",
		},
	}
}

// SetDefaults registers the Default settings with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("journal.driver", defaults.Journal.Driver)
	v.SetDefault("journal.dsn", defaults.Journal.DSN)
	v.SetDefault("journal.table", defaults.Journal.Table)
	v.SetDefault("admin_id", defaults.AdminID)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("telemetry.enabled", defaults.Telemetry.Enabled)
	v.SetDefault("telemetry.service_name", defaults.Telemetry.ServiceName)
}

// BindEnv makes v read LENDING_* environment variables, with "." in keys mapped to "_".
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadConfigFile reads configFile into v. An empty path is not an error.
func ReadConfigFile(v *viper.Viper, configFile string) error {
	if configFile == "" {
		return nil
	}

	v.SetConfigFile(configFile)

	return v.ReadInConfig()
}

// Load unmarshals v into Settings and validates them.
func Load(v *viper.Viper) (Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, errors.Join(ErrInvalidSettings, err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// Validate reports every invalid setting at once.
func (s Settings) Validate() error {
	var errs []error

	if !slices.Contains(Drivers(), s.Journal.Driver) {
		errs = append(errs, ErrUnknownDriver)
	}

	if s.Journal.Driver != DriverMemory && strings.TrimSpace(s.Journal.DSN) == "" {
		errs = append(errs, ErrMissingDSN)
	}

	if _, err := uuid.Parse(s.AdminID); err != nil {
		errs = append(errs, ErrInvalidAdminID)
	}

	if s.Log.Format != LogFormatText && s.Log.Format != LogFormatJSON {
		errs = append(errs, ErrUnknownLogFormat)
	}

	if _, err := s.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidSettings}, errs...)...)
	}

	return nil
}

// AdministratorID returns AdminID parsed as a uuid. Call it on validated settings only.
func (s Settings) AdministratorID() uuid.UUID {
	return uuid.MustParse(s.AdminID)
}

// Drivers returns all supported journal drivers.
func Drivers() []string {
	return []string{DriverMemory, DriverSQLite, DriverPostgresPGX, DriverPostgresSQL, DriverPostgresSQLX}
}
