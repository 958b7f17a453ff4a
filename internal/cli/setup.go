package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mrlokans/library-agent/internal/database"
	"github.com/mrlokans/library-agent/internal/store"
)

type setupOptions struct {
	reset   bool
	fixture string
}

func (a *app) newSetupCommand() *cobra.Command {
	opts := &setupOptions{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the database schema and load sample data",
		Long: `Create the books, students and borrowings tables and load sample data.

An existing database that already holds books is left untouched unless
--reset is given, which drops every table and reloads the fixture.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSetup(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.reset, "reset", false, "Drop all tables and reload the fixture")
	cmd.Flags().StringVar(&opts.fixture, "fixture", "", "YAML fixture to load instead of the bundled sample data")
	return cmd
}

func (a *app) runSetup(cmd *cobra.Command, opts *setupOptions) error {
	fixture, err := loadFixture(opts.fixture)
	if err != nil {
		return err
	}

	dbCfg := a.cfg.Database
	dbCfg.SeedOnEmpty = false
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return errors.Wrap(err, "failed to open library database")
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	switch {
	case opts.reset:
		result, err := db.Reset(fixture)
		if err != nil {
			return err
		}
		printSeedResult(out, "Database reset", result)
	default:
		empty, err := db.IsEmpty()
		if err != nil {
			return err
		}
		if !empty {
			fmt.Fprintln(out, pterm.Info.Sprint("Database already contains books, skipping sample data (use --reset to reload)"))
			break
		}
		result, err := db.Seed(fixture)
		if err != nil {
			return err
		}
		printSeedResult(out, "Sample data loaded", result)
	}

	stats, err := store.New(db.SQL).Stats(cmd.Context())
	if err != nil {
		return err
	}
	return printStats(out, dbCfg.Path, stats)
}

func loadFixture(path string) (*database.Fixture, error) {
	if path == "" {
		return database.DefaultFixture()
	}
	return database.LoadFixture(path)
}

func printSeedResult(out io.Writer, action string, r *database.SeedResult) {
	fmt.Fprintln(out, pterm.Success.Sprintf("%s: %d books, %d students, %d borrowings",
		action, r.Books, r.Students, r.Borrowings))
}

func printStats(out io.Writer, path string, s store.Stats) error {
	table, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Database", path},
		{"Books", strconv.FormatInt(s.TotalBooks, 10)},
		{"Copies", strconv.FormatInt(s.TotalCopies, 10)},
		{"Available copies", strconv.FormatInt(s.AvailableCopies, 10)},
		{"Students", strconv.FormatInt(s.TotalStudents, 10)},
		{"Active borrowings", strconv.FormatInt(s.ActiveBorrowings, 10)},
	}).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render summary")
	}
	fmt.Fprintln(out, table)
	return nil
}
