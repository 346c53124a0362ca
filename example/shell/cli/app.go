package cli

import (
	"context"
	"errors"
	"io"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/lending-registry-go/example/shell/config"
	"github.com/AntonStoeckl/lending-registry-go/journal"
	"github.com/AntonStoeckl/lending-registry-go/journal/sqljournal"
	"github.com/AntonStoeckl/lending-registry-go/registry"
	"github.com/AntonStoeckl/lending-registry-go/registry/oteladapters"
)

const (
	instrumentationName = "github.com/AntonStoeckl/lending-registry-go/example/shell/cli"

	logMsgRehydrated       = "registry rehydrated"
	logMsgTelemetrySummary = "telemetry summary"
	logAttrNotifications   = "notifications"
	logAttrDriver          = "driver"
	logAttrMetric          = "metric"
	logAttrDataPoints      = "data_points"
	logAttrError           = "error"
)

// ErrNotJournaled is returned when a mutation succeeded but its notification could not be journaled.
var ErrNotJournaled = errors.New("the change was applied but could not be journaled")

// app is a registry rehydrated from the configured journal, plus everything that must be closed.
type app struct {
	settings config.Settings
	logger   *oteladapters.SlogBridgeLogger
	failures *failureRecorder
	registry *registry.LendingRegistry
	reader   *sdkmetric.ManualReader
	closers  []func() error
}

func openApp(ctx context.Context, settings config.Settings, logOutput io.Writer) (*app, error) {
	handler, err := config.NewSlogHandler(logOutput, settings.Log)
	if err != nil {
		return nil, err
	}

	a := &app{
		settings: settings,
		logger:   oteladapters.NewSlogBridgeLoggerWithHandler(handler),
	}

	if err := a.open(ctx); err != nil {
		return nil, errors.Join(err, a.close(ctx))
	}

	return a, nil
}

func (a *app) open(ctx context.Context) error {
	j, err := a.openJournal(ctx)
	if err != nil {
		return err
	}

	a.failures = &failureRecorder{next: j}

	options := []registry.Option{
		registry.WithNotifier(a.failures),
		registry.WithAuthorizer(registry.NewAdministratorAuthorizer(a.settings.AdministratorID())),
		registry.WithContextualLogger(a.logger),
	}

	if a.settings.Telemetry.Enabled {
		a.reader = sdkmetric.NewManualReader()

		providers, providersErr := config.NewObservabilityProviders(ctx, a.settings.Telemetry.ServiceName, config.WithMetricReader(a.reader))
		if providersErr != nil {
			return providersErr
		}

		a.closers = append(a.closers, providers.Shutdown)

		options = append(options,
			registry.WithMetrics(oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(instrumentationName))),
			registry.WithTracing(oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(instrumentationName))),
		)
	}

	r, err := registry.NewLendingRegistry(registry.NewCatalog(), registry.NewBorrowLedger(), options...)
	if err != nil {
		return err
	}

	replayed, err := journal.Rehydrate(ctx, j, r)
	if err != nil {
		return err
	}

	a.registry = r
	a.logger.DebugContext(ctx, logMsgRehydrated, logAttrDriver, a.settings.Journal.Driver, logAttrNotifications, replayed)

	return nil
}

func (a *app) openJournal(ctx context.Context) (journal.Journal, error) {
	if a.settings.Journal.Driver == config.DriverMemory {
		return journal.NewMemoryJournal(), nil
	}

	options := []sqljournal.Option{
		sqljournal.WithTableName(a.settings.Journal.Table),
		sqljournal.WithLogger(a.logger.Slog()),
	}

	var (
		j   sqljournal.Journal
		err error
	)

	dsn := a.settings.Journal.DSN

	switch a.settings.Journal.Driver {
	case config.DriverSQLite:
		db, openErr := config.SQLiteSQLDB(ctx, dsn)
		if openErr != nil {
			return nil, openErr
		}
		a.closers = append(a.closers, db.Close)
		j, err = sqljournal.NewJournalFromSQLite(db, options...)

	case config.DriverPostgresPGX:
		pool, openErr := config.PostgresPGXPool(ctx, dsn)
		if openErr != nil {
			return nil, openErr
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		j, err = sqljournal.NewJournalFromPGXPool(pool, options...)

	case config.DriverPostgresSQL:
		db, openErr := config.PostgresSQLDB(ctx, dsn)
		if openErr != nil {
			return nil, openErr
		}
		a.closers = append(a.closers, db.Close)
		j, err = sqljournal.NewJournalFromSQLDB(db, options...)

	case config.DriverPostgresSQLX:
		db, openErr := config.PostgresSQLX(ctx, dsn)
		if openErr != nil {
			return nil, openErr
		}
		a.closers = append(a.closers, db.Close)
		j, err = sqljournal.NewJournalFromSQLX(db, options...)

	default:
		return nil, config.ErrUnknownDriver
	}

	if err != nil {
		return nil, err
	}

	if err := j.Migrate(ctx); err != nil {
		return nil, err
	}

	return j, nil
}

// close logs the telemetry summary, then releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) error {
	if a.reader != nil {
		a.logTelemetrySummary(ctx)
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	a.closers = nil

	return errors.Join(errs...)
}

func (a *app) logTelemetrySummary(ctx context.Context) {
	var collected metricdata.ResourceMetrics
	if err := a.reader.Collect(ctx, &collected); err != nil {
		a.logger.WarnContext(ctx, logMsgTelemetrySummary, logAttrError, err.Error())
		return
	}

	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			a.logger.InfoContext(ctx, logMsgTelemetrySummary,
				logAttrMetric, m.Name,
				logAttrDataPoints, dataPointCount(m.Data))
		}
	}
}

func dataPointCount(data metricdata.Aggregation) int {
	switch d := data.(type) {
	case metricdata.Sum[int64]:
		return len(d.DataPoints)
	case metricdata.Histogram[float64]:
		return len(d.DataPoints)
	case metricdata.Gauge[float64]:
		return len(d.DataPoints)
	default:
		return 0
	}
}

// failureRecorder passes notifications on and remembers delivery failures,
// which the registry itself only logs.
type failureRecorder struct {
	next registry.Notifier
	mu   sync.Mutex
	errs []error
}

func (f *failureRecorder) Notify(ctx context.Context, notification registry.Notification) error {
	err := f.next.Notify(ctx, notification)
	if err != nil {
		f.mu.Lock()
		f.errs = append(f.errs, err)
		f.mu.Unlock()
	}

	return err
}

func (f *failureRecorder) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.errs) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrNotJournaled}, f.errs...)...)
}
