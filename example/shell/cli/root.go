package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AntonStoeckl/lending-registry-go/example/shell/config"
)

type session struct {
	viper      *viper.Viper
	configFile string
	settings   config.Settings
}

// NewRootCommand creates the lendingctl command tree. Each call has its own viper instance.
func NewRootCommand() *cobra.Command {
	s := &session{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "lendingctl",
		Short: "Register items and track who borrows them",
		Long: `lendingctl manages a lending registry: a catalog of titled items with a fixed
number of copies, and a ledger of who borrowed which copy when.

State is rebuilt from the configured notification journal on every invocation.
Settings come from flags, LENDING_* environment variables, and an optional YAML file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.loadSettings,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&s.configFile, "config", "c", "", "YAML config file")
	flags.String("journal-driver", "", "journal driver: memory, sqlite, postgres-pgx, postgres-sql, postgres-sqlx")
	flags.String("journal-dsn", "", "journal DSN, or the database file for sqlite")
	flags.String("journal-table", "", "journal table name")
	flags.String("admin-id", "", "uuid of the administrator allowed to register items")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text, json")

	bindings := map[string]string{
		"journal.driver": "journal-driver",
		"journal.dsn":    "journal-dsn",
		"journal.table":  "journal-table",
		"admin_id":       "admin-id",
		"log.level":      "log-level",
		"log.format":     "log-format",
	}
	for key, flag := range bindings {
		_ = s.viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		newRegisterCommand(s),
		newBorrowCommand(s),
		newReturnCommand(s),
		newListCommand(s),
		newHistoryCommand(s),
		newStateCommand(s),
		newSnapshotCommand(s),
		newScenarioCommand(),
	)

	return rootCmd
}

// Execute runs lendingctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (s *session) loadSettings(_ *cobra.Command, _ []string) error {
	config.SetDefaults(s.viper)
	config.BindEnv(s.viper)

	if err := config.ReadConfigFile(s.viper, s.configFile); err != nil {
		return err
	}

	settings, err := config.Load(s.viper)
	if err != nil {
		return err
	}

	s.settings = settings

	return nil
}

// run opens the app for one command and closes it afterward.
func (s *session) run(cmd *cobra.Command, fn func(ctx context.Context, a *app, out io.Writer) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, s.settings, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, a.close(ctx))
	}()

	if err := fn(ctx, a, cmd.OutOrStdout()); err != nil {
		return err
	}

	return a.failures.err()
}
