package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"monday-export/internal/config"
)

type rootFlags struct {
	jsonOutput bool
	logLevel   string
	verbose    bool
	historyDB  string
}

// newRootCmd builds the command tree. Configuration is loaded once a command
// is about to run, so help and usage work even when the config is broken.
func newRootCmd(load func() (*config.Config, error)) *cobra.Command {
	var flags rootFlags
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "monday-export",
		Short:         "Export monday.com boards to Excel workbooks",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := load()
			if err != nil {
				return err
			}
			*cfg = *loaded

			warning, err := configureLoggerForCLI(logLevelSources{
				flag:    flags.logLevel,
				verbose: flags.verbose,
				config:  cfg.LogLevel,
			})
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}
			if cmd.Flags().Changed("history-db") {
				cfg.HistoryDB = flags.historyDB
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log progress (same as --log-level info)")
	cmd.PersistentFlags().StringVar(&flags.historyDB, "history-db", "", "record exports in this SQLite database")

	cmd.AddCommand(
		newExportCmd(cfg, &flags.jsonOutput),
		newSnapshotCmd(cfg, &flags.jsonOutput),
		newHistoryCmd(cfg, &flags.jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
