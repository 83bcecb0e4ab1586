package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/recordmap/adapters/sqlite"
	"github.com/artpar/recordmap/config"
	"github.com/artpar/recordmap/core/record"
)

var (
	// Global flags
	cfgFile string
)

const (
	checkMark = "✓"
	crossMark = "✗"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recordmap",
	Short: "Record mapping layer over a relational table",
	Long: `Recordmap maps relational rows to records with field-level change
tracking, schema auto-discovery and typed column handling.

Inspection:
  recordmap describe <table>   # Show the discovered column matrix
  recordmap validate           # Validate configuration and declarations

Data:
  recordmap get <table> <key>            # Load a record by primary key
  recordmap set <table> <key> f=v ...    # Assign fields and save
  recordmap delete <table> <key>         # Delete a record by primary key`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "recordmap.yaml", "config file path")
}

// openEnv loads the configuration, opens the database and builds the
// record environment, with declared schemas when a models directory is
// configured. The returned closer releases the database.
func openEnv() (*record.Env, *config.Holder, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := newLogger(cfg.Logging.Level)

	db, err := sqlite.Open(cfg.Database.DSN, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	var holder *config.Holder
	if cfg.ModelsDir != "" {
		holder, err = config.NewHolder(cfg.ModelsDir, logger)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
	}

	env := &record.Env{Executor: db, Logger: logger}
	return env, holder, func() { db.Close() }, nil
}

// defineModel builds a model for the table, preferring a declared schema
// over runtime introspection.
func defineModel(env *record.Env, holder *config.Holder, table string) (*record.Model, error) {
	if holder != nil {
		if decl, ok := holder.Declaration(table); ok {
			sch, err := decl.Schema(nil)
			if err != nil {
				return nil, err
			}
			return env.Define(table, record.WithSchema(sch))
		}
	}
	return env.Define(table)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}
