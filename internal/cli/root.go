// Package cli wires configuration, the database and the agent into cobra
// commands.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrlokans/library-agent/internal/config"
	"github.com/mrlokans/library-agent/internal/logger"
)

// app carries state shared by every subcommand of one root command.
type app struct {
	viper      *viper.Viper
	configFile string
	cfg        *config.Config
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts an interactive chat.
func NewRootCommand(version string) *cobra.Command {
	a := &app{viper: config.NewViper()}

	root := &cobra.Command{
		Use:   "library",
		Short: "Library Chat Agent - ask questions about books, students and borrowings",
		Long: `Library Chat Agent answers plain-English questions about a school library.

Examples:
  library                                   # Start an interactive chat
  library ask "What books are available?"   # Answer one question and exit
  library setup --reset                     # Recreate the database with sample data
  library intents                           # Show the question patterns in match order`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (yaml, toml or json)")
	flags.String("db", config.DefaultDatabasePath, "Path to the SQLite database file")
	flags.String("driver", string(config.DriverMattn), "SQLite driver: sqlite3 (cgo) or sqlite (pure Go)")
	flags.Bool("json-logs", false, "Write logs to stderr as JSON")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("today", "", "Reference date (YYYY-MM-DD) used for overdue checks")

	for key, flag := range map[string]string{
		config.KeyDatabasePath:   "db",
		config.KeyDatabaseDriver: "driver",
		config.KeyLogJSON:        "json-logs",
		config.KeyLogLevel:       "log-level",
		config.KeyReferenceDate:  "today",
	} {
		// Lookup cannot fail for flags registered above.
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.newChatCommand(),
		a.newAskCommand(),
		a.newSetupCommand(),
		a.newIntentsCommand(),
	)
	return root
}

func (a *app) loadConfig() error {
	if a.configFile != "" {
		if err := config.ReadFile(a.viper, a.configFile); err != nil {
			return err
		}
	}

	cfg := config.Load(a.viper)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

// Execute runs the root command against os.Args.
func Execute(version string) error {
	defer logger.Cleanup()
	return NewRootCommand(version).Execute()
}
